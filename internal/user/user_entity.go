package user

import (
	"time"

	"platoon-pulse/internal/cadet"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string         `gorm:"column:name;type:varchar(255);not null"`
	Email     string         `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uq_users_email"`
	Password  string         `gorm:"column:password;type:text;not null"`
	Role      string         `gorm:"column:role;type:varchar(20);not null;default:CADET"`
	CadetID   *uuid.UUID     `gorm:"column:cadet_id;type:uuid;uniqueIndex:uq_users_cadet_id"` // set when a linking request is approved
	IsActive  bool           `gorm:"column:is_active;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Cadet     *cadet.Cadet   `gorm:"foreignKey:CadetID;references:ID;constraint:OnDelete:SET NULL"`
}

func (User) TableName() string {
	return "users"
}

func (u User) CadetIDString() string {
	if u.CadetID == nil {
		return ""
	}
	return u.CadetID.String()
}
