package events

import "time"

const AttendanceMarkedTopic = "cadet.attendance.marked.v1"

const (
	AttendanceMarkEntry  = "entry"
	AttendanceMarkExit   = "exit"
	AttendanceMarkManual = "manual"
	AttendanceDeleted    = "deleted"
)

// AttendanceMarkedEvent is queued whenever a (session, cadet) record changes.
type AttendanceMarkedEvent struct {
	EventType            string    `json:"event_type"`
	RequestID            string    `json:"request_id,omitempty"`
	RecordID             string    `json:"record_id"`
	SessionID            string    `json:"session_id"`
	CadetID              string    `json:"cadet_id"`
	MarkedBy             string    `json:"marked_by"`
	Mark                 string    `json:"mark"`
	AttendanceStatus     string    `json:"attendance_status"`
	AttendancePercentage float64   `json:"attendance_percentage"`
	OccurredAt           time.Time `json:"occurred_at"`
}
