package practice

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, s *Session) error
	FindByID(ctx context.Context, id string) (*Session, error)
	FindAll(ctx context.Context) ([]Session, error)
	FindLatest(ctx context.Context) (*Session, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

// FindAll orders by date, newest first, then by start time.
func (r *repository) FindAll(ctx context.Context) ([]Session, error) {
	var rows []Session
	err := r.db.WithContext(ctx).
		Order("date DESC, start_time DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindLatest(ctx context.Context) (*Session, error) {
	var s Session
	err := r.db.WithContext(ctx).
		Order("date DESC, start_time DESC").
		First(&s).Error
	return &s, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Session{}).Count(&n).Error
	return n, err
}

// Delete removes the session; its attendance records go with it through
// the ON DELETE CASCADE foreign key.
func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&Session{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
