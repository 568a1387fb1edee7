package counter

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sequence names.
const ApplicationNumber = "application_number"

//go:generate mockgen -source=counter_repo.go -destination=mock/counter_repo_mock.go -package=mock
type Repository interface {
	Next(ctx context.Context, name string) (int64, error)
}

// Counter is one named sequence. The first Next on a name yields 1.
type Counter struct {
	Name      string    `gorm:"column:counter_type;type:varchar(50);primaryKey"`
	LastValue int64     `gorm:"column:last_value;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Counter) TableName() string {
	return "counters"
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Next bumps the sequence in a single upsert, so concurrent callers never
// see the same value.
func (r *repository) Next(ctx context.Context, name string) (int64, error) {
	row := Counter{Name: name, LastValue: 1, UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "counter_type"}},
				DoUpdates: clause.Assignments(map[string]any{
					"last_value": gorm.Expr("counters.last_value + 1"),
					"updated_at": gorm.Expr("NOW()"),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "last_value"}}},
		).
		Create(&row).Error
	if err != nil {
		return 0, err
	}
	return row.LastValue, nil
}
