package cadet

import (
	"time"

	"github.com/google/uuid"
)

const (
	PlatoonJunior = "JUNIOR"
	PlatoonSenior = "SENIOR"
)

type Cadet struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName          string          `gorm:"column:full_name;type:varchar(255);not null"`
	ApplicationNumber string          `gorm:"column:application_number;type:varchar(20);not null;uniqueIndex:uq_cadets_application_number"`
	Platoon           string          `gorm:"column:platoon;type:varchar(10);not null;index"`
	DateOfBirth       time.Time       `gorm:"column:date_of_birth;type:date;not null"`
	SchoolGrade       *string         `gorm:"column:school_grade;type:varchar(20)"`
	Phone             *string         `gorm:"column:phone;type:varchar(30)"`
	Address           *string         `gorm:"column:address;type:text"`
	JoinedAt          time.Time       `gorm:"column:joined_at;type:date;not null"`
	CreatedBy         uuid.UUID       `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt         time.Time       `gorm:"column:created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at"`
	FamilyContacts    []FamilyContact `gorm:"foreignKey:CadetID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Cadet) TableName() string {
	return "cadets"
}

type FamilyContact struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CadetID      uuid.UUID `gorm:"column:cadet_id;type:uuid;not null;index"`
	Name         string    `gorm:"column:name;type:varchar(255);not null"`
	Relationship string    `gorm:"column:relationship;type:varchar(50);not null"`
	Phone        string    `gorm:"column:phone;type:varchar(30);not null"`
	IsPrimary    bool      `gorm:"column:is_primary;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (FamilyContact) TableName() string {
	return "family_contacts"
}
