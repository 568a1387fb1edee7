package practice

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Session struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Title           string         `gorm:"column:title;type:varchar(255);not null"`
	Description     *string        `gorm:"column:description;type:text"`
	Date            time.Time      `gorm:"column:date;type:date;not null;index"`
	StartTime       datatypes.Time `gorm:"column:start_time;type:time;not null"`
	EndTime         datatypes.Time `gorm:"column:end_time;type:time;not null"`
	DurationMinutes int            `gorm:"column:duration_minutes;not null"`
	CreatedBy       uuid.UUID      `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
}

func (Session) TableName() string {
	return "practice_sessions"
}
