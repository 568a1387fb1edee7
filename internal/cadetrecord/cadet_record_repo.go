package cadetrecord

import (
	"context"

	"platoon-pulse/internal/shared/scope"

	"gorm.io/gorm"
)

//go:generate mockgen -source=cadet_record_repo.go -destination=mock/cadet_record_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, rec *CadetRecord) error
	FindByID(ctx context.Context, id string) (*CadetRecord, error)
	FindByCadet(ctx context.Context, cadetID, kind string) ([]CadetRecord, error)
	CountByKind(ctx context.Context, cadetID string) ([]KindCount, error)
	Update(ctx context.Context, rec *CadetRecord) error
	Delete(ctx context.Context, id string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rec *CadetRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*CadetRecord, error) {
	var rec CadetRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	return &rec, err
}

// FindByCadet lists a cadet's records, newest first. An empty kind lists all.
func (r *repository) FindByCadet(ctx context.Context, cadetID, kind string) ([]CadetRecord, error) {
	var rows []CadetRecord
	err := r.db.WithContext(ctx).
		Scopes(scope.Cadet(cadetID), scope.Equal("kind", kind)).
		Order("occurred_on DESC, created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountByKind(ctx context.Context, cadetID string) ([]KindCount, error) {
	var rows []KindCount
	err := r.db.WithContext(ctx).
		Model(&CadetRecord{}).
		Select("kind, COUNT(*) AS total").
		Scopes(scope.Cadet(cadetID)).
		Group("kind").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, rec *CadetRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&CadetRecord{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
