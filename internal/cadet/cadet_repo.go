package cadet

import (
	"context"
	"database/sql"

	"platoon-pulse/internal/shared/connection"
	"platoon-pulse/internal/shared/scope"

	"gorm.io/gorm"
)

type PlatoonCount struct {
	Platoon string
	Total   int64
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *Cadet) error
	CreateFamilyContacts(ctx context.Context, contacts []FamilyContact) error
	DeleteFamilyContact(ctx context.Context, cadetID, contactID string) (int64, error)
	FindByID(ctx context.Context, id string) (*Cadet, error)
	FindByApplicationNumber(ctx context.Context, applicationNumber string) (*Cadet, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Cadet, error)
	FindOptions(ctx context.Context) ([]Cadet, error)
	CountByPlatoon(ctx context.Context) ([]PlatoonCount, error)
	Update(ctx context.Context, c *Cadet) error
	Delete(ctx context.Context, id string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.GormTx(r.db, tx)}
}

// Create inserts the profile only; contacts are written separately.
func (r *repository) Create(ctx context.Context, c *Cadet) error {
	return r.db.WithContext(ctx).Omit("FamilyContacts").Create(c).Error
}

func (r *repository) CreateFamilyContacts(ctx context.Context, contacts []FamilyContact) error {
	if len(contacts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&contacts).Error
}

func (r *repository) DeleteFamilyContact(ctx context.Context, cadetID, contactID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("cadet_id = ?", cadetID).
		Delete(&FamilyContact{}, "id = ?", contactID)
	return res.RowsAffected, res.Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Cadet, error) {
	var c Cadet
	err := r.db.WithContext(ctx).
		Preload("FamilyContacts", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, created_at ASC")
		}).
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) FindByApplicationNumber(ctx context.Context, applicationNumber string) (*Cadet, error) {
	var c Cadet
	err := r.db.WithContext(ctx).
		First(&c, "UPPER(application_number) = UPPER(?)", applicationNumber).Error
	return &c, err
}

// FindAll filters by platoon and by a case-insensitive match on name or
// application number.
func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Cadet, error) {
	var rows []Cadet
	q := r.db.WithContext(ctx).
		Scopes(scope.Equal("platoon", filter.Platoon)).
		Order("full_name ASC")
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("full_name ILIKE ? OR application_number ILIKE ?", like, like)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *repository) FindOptions(ctx context.Context) ([]Cadet, error) {
	var rows []Cadet
	err := r.db.WithContext(ctx).
		Select("id", "full_name", "application_number", "platoon").
		Order("full_name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountByPlatoon(ctx context.Context) ([]PlatoonCount, error) {
	var rows []PlatoonCount
	err := r.db.WithContext(ctx).
		Model(&Cadet{}).
		Select("platoon, COUNT(*) AS total").
		Group("platoon").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, c *Cadet) error {
	return r.db.WithContext(ctx).Omit("FamilyContacts").Save(c).Error
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&Cadet{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
