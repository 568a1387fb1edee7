package medical

import (
	"time"

	"platoon-pulse/internal/cadet"

	"github.com/google/uuid"
)

const uniqueCadetConstraint = "uq_medical_records_cadet"

type MedicalRecord struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CadetID        uuid.UUID  `gorm:"column:cadet_id;type:uuid;not null;uniqueIndex:uq_medical_records_cadet"`
	BloodType      *string    `gorm:"column:blood_type;type:varchar(3)"`
	Allergies      *string    `gorm:"column:allergies;type:text"`
	Conditions     *string    `gorm:"column:conditions;type:text"`
	Medications    *string    `gorm:"column:medications;type:text"`
	EmergencyNotes *string    `gorm:"column:emergency_notes;type:text"`
	UpdatedBy      *uuid.UUID `gorm:"column:updated_by;type:uuid"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`

	Cadet *cadet.Cadet `gorm:"foreignKey:CadetID;references:ID;constraint:OnDelete:CASCADE"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}
