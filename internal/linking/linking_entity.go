package linking

import (
	"time"

	"platoon-pulse/internal/cadet"

	"github.com/google/uuid"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const uniquePendingConstraint = "uq_linking_requests_pending_user"

type LinkingRequest struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID  uuid.UUID `gorm:"column:user_id;type:uuid;not null;index;uniqueIndex:uq_linking_requests_pending_user,where:status = 'PENDING'"`
	CadetID uuid.UUID `gorm:"column:cadet_id;type:uuid;not null;index"`
	Note    *string   `gorm:"column:note;type:text"`

	Status          string     `gorm:"column:status;type:varchar(20);not null;default:'PENDING';index"`
	RejectionReason *string    `gorm:"column:rejection_reason;type:text"`
	ReviewedBy      *uuid.UUID `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	Cadet *cadet.Cadet `gorm:"foreignKey:CadetID;references:ID;constraint:OnDelete:CASCADE"`
}

func (LinkingRequest) TableName() string {
	return "linking_requests"
}
