package attendance

import (
	"time"

	"platoon-pulse/internal/cadet"
	"platoon-pulse/internal/practice"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Record struct {
	ID                   uuid.UUID         `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID            uuid.UUID         `gorm:"column:session_id;type:uuid;not null;uniqueIndex:uq_attendance_session_cadet,priority:1"`
	CadetID              uuid.UUID         `gorm:"column:cadet_id;type:uuid;not null;uniqueIndex:uq_attendance_session_cadet,priority:2;index"`
	EntryTime            *datatypes.Time   `gorm:"column:entry_time;type:time"`
	ExitTime             *datatypes.Time   `gorm:"column:exit_time;type:time"`
	ParticipationMinutes int               `gorm:"column:participation_minutes;not null;default:0"`
	AttendancePercentage float64           `gorm:"column:attendance_percentage;type:numeric(5,2);not null;default:0"`
	AttendanceStatus     string            `gorm:"column:attendance_status;type:varchar(20);not null;default:absent"`
	MarkedBy             uuid.UUID         `gorm:"column:marked_by;type:uuid;not null"`
	CreatedAt            time.Time         `gorm:"column:created_at"`
	UpdatedAt            time.Time         `gorm:"column:updated_at"`
	Session              *practice.Session `gorm:"foreignKey:SessionID;references:ID;constraint:OnDelete:CASCADE"`
	Cadet                *cadet.Cadet      `gorm:"foreignKey:CadetID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Record) TableName() string {
	return "attendance_records"
}
