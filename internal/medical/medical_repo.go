package medical

import (
	"context"

	"platoon-pulse/internal/shared/scope"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=medical_repo.go -destination=mock/medical_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, rec *MedicalRecord) error
	Upsert(ctx context.Context, rec *MedicalRecord) error
	FindByCadet(ctx context.Context, cadetID string) (*MedicalRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rec *MedicalRecord) error {
	return r.db.WithContext(ctx).Omit("Cadet").Create(rec).Error
}

// Upsert keeps one row per cadet and reads the stored id back into rec.
func (r *repository) Upsert(ctx context.Context, rec *MedicalRecord) error {
	return r.db.WithContext(ctx).
		Omit("Cadet").
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "cadet_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"blood_type",
					"allergies",
					"conditions",
					"medications",
					"emergency_notes",
					"updated_by",
					"updated_at",
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "created_at"}}},
		).
		Create(rec).Error
}

func (r *repository) FindByCadet(ctx context.Context, cadetID string) (*MedicalRecord, error) {
	var rec MedicalRecord
	err := r.db.WithContext(ctx).Scopes(scope.Cadet(cadetID)).First(&rec).Error
	return &rec, err
}
