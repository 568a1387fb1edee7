package app

import (
	"context"
	"fmt"

	"platoon-pulse/internal/attendance"
	"platoon-pulse/internal/cadet"
	"platoon-pulse/internal/cadetrecord"
	"platoon-pulse/internal/linking"
	"platoon-pulse/internal/medical"
	"platoon-pulse/internal/practice"
	"platoon-pulse/internal/rbac"
	"platoon-pulse/internal/shared/counter"
	"platoon-pulse/internal/user"

	"gorm.io/gorm"
)

const outboxDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id UUID PRIMARY KEY,
	request_id VARCHAR(100),
	aggregate_type VARCHAR(50) NOT NULL,
	aggregate_id UUID NOT NULL,
	event_type VARCHAR(100) NOT NULL,
	topic VARCHAR(255) NOT NULL,
	payload JSONB NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	retry_count INT NOT NULL DEFAULT 0,
	next_retry_at TIMESTAMPTZ,
	error_message TEXT,
	processed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_outbox_events_status_next_retry
	ON outbox_events (status, next_retry_at, created_at);
`

// Migrate creates the schema in foreign-key order and seeds the default
// role permissions.
func Migrate(ctx context.Context, db *gorm.DB) error {
	models := []any{
		&cadet.Cadet{},
		&cadet.FamilyContact{},
		&user.User{},
		&practice.Session{},
		&attendance.Record{},
		&cadetrecord.CadetRecord{},
		&medical.MedicalRecord{},
		&linking.LinkingRequest{},
		&counter.Counter{},
		&rbac.RolePermission{},
	}
	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	if err := db.WithContext(ctx).Exec(outboxDDL).Error; err != nil {
		return fmt.Errorf("outbox table: %w", err)
	}

	if err := rbac.NewRepository(db).SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed role permissions: %w", err)
	}
	return nil
}
