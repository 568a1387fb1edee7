package linking

import (
	"context"
	"database/sql"

	"platoon-pulse/internal/shared/connection"
	"platoon-pulse/internal/shared/scope"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=linking_repo.go -destination=mock/linking_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, req *LinkingRequest) error
	FindByID(ctx context.Context, id string) (*LinkingRequest, error)
	FindAll(ctx context.Context, status string) ([]LinkingRequest, error)
	FindByUser(ctx context.Context, userID string) ([]LinkingRequest, error)
	CountPending(ctx context.Context) (int64, error)
	Update(ctx context.Context, req *LinkingRequest) error
	IsCadetLinked(ctx context.Context, cadetID string) (bool, error)
	LinkUser(ctx context.Context, userID, cadetID string) (int64, error)
}

type repository struct {
	db        *gorm.DB
	forUpdate bool
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to tx. FindByID then holds a row lock on the
// request until tx ends, so concurrent reviews of one request serialize.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.GormTx(r.db, tx), forUpdate: tx != nil}
}

func (r *repository) Create(ctx context.Context, req *LinkingRequest) error {
	return r.db.WithContext(ctx).Omit("Cadet").Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LinkingRequest, error) {
	var req LinkingRequest
	q := r.db.WithContext(ctx).Joins("Cadet")
	if r.forUpdate {
		// the cadet side of the join is nullable, so lock only the request row
		q = q.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "linking_requests"}})
	}
	err := q.First(&req, "linking_requests.id = ?", id).Error
	return &req, err
}

// FindAll lists requests newest first, optionally filtered by status.
func (r *repository) FindAll(ctx context.Context, status string) ([]LinkingRequest, error) {
	var rows []LinkingRequest
	err := r.db.WithContext(ctx).
		Joins("Cadet").
		Scopes(scope.Equal("linking_requests.status", status)).
		Order("linking_requests.created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByUser(ctx context.Context, userID string) ([]LinkingRequest, error) {
	var rows []LinkingRequest
	err := r.db.WithContext(ctx).
		Joins("Cadet").
		Where("linking_requests.user_id = ?", userID).
		Order("linking_requests.created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LinkingRequest{}).
		Where("status = ?", StatusPending).
		Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, req *LinkingRequest) error {
	return r.db.WithContext(ctx).Omit("Cadet").Save(req).Error
}

func (r *repository) IsCadetLinked(ctx context.Context, cadetID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("cadet_id = ?", cadetID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

// LinkUser sets users.cadet_id for an unlinked, live account.
func (r *repository) LinkUser(ctx context.Context, userID, cadetID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Table("users").
		Where("id = ? AND cadet_id IS NULL AND deleted_at IS NULL", userID).
		Update("cadet_id", cadetID)
	return res.RowsAffected, res.Error
}
