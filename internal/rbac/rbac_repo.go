package rbac

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	ListRolePermissions(ctx context.Context) ([]RolePermission, error)
	AddRolePermission(ctx context.Context, p RolePermission) error
	RemoveRolePermission(ctx context.Context, p RolePermission) (bool, error)
	SeedDefaults(ctx context.Context) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListRolePermissions(ctx context.Context) ([]RolePermission, error) {
	var result []RolePermission
	err := r.db.WithContext(ctx).
		Order("role, resource, action").
		Find(&result).Error
	return result, err
}

func (r *repository) AddRolePermission(ctx context.Context, p RolePermission) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&p).Error
}

func (r *repository) RemoveRolePermission(ctx context.Context, p RolePermission) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("role = ? AND resource = ? AND action = ?", p.Role, p.Resource, p.Action).
		Delete(&RolePermission{})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) SeedDefaults(ctx context.Context) error {
	perms := append([]RolePermission(nil), DefaultPermissions...)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&perms).Error
}
