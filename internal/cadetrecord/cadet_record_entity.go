package cadetrecord

import (
	"time"

	"platoon-pulse/internal/cadet"

	"github.com/google/uuid"
)

const (
	KindAchievement  = "ACHIEVEMENT"
	KindDisciplinary = "DISCIPLINARY"
	KindTraining     = "TRAINING"
)

const (
	SeverityLow    = "LOW"
	SeverityMedium = "MEDIUM"
	SeverityHigh   = "HIGH"
)

// CadetRecord is one entry of a cadet's achievements, disciplinary actions
// or training. Kind-specific columns stay null for the other kinds.
type CadetRecord struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CadetID     uuid.UUID `gorm:"column:cadet_id;type:uuid;not null;index:idx_cadet_records_cadet_kind"`
	Kind        string    `gorm:"column:kind;type:varchar(20);not null;index:idx_cadet_records_cadet_kind"`
	Title       string    `gorm:"column:title;type:varchar(255);not null"`
	Description *string   `gorm:"column:description;type:text"`
	OccurredOn  time.Time `gorm:"column:occurred_on;type:date;not null"`

	AwardLevel *string `gorm:"column:award_level;type:varchar(100)"`

	Severity    *string `gorm:"column:severity;type:varchar(10)"`
	ActionTaken *string `gorm:"column:action_taken;type:text"`

	Hours      *float64 `gorm:"column:hours;type:numeric(6,2)"`
	Instructor *string  `gorm:"column:instructor;type:varchar(255)"`

	RecordedBy uuid.UUID `gorm:"column:recorded_by;type:uuid;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`

	Cadet *cadet.Cadet `gorm:"foreignKey:CadetID;references:ID;constraint:OnDelete:CASCADE"`
}

func (CadetRecord) TableName() string {
	return "cadet_records"
}
