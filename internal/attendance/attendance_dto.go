package attendance

type ManualMarkRequest struct {
	// CadetID is required for admins; cadets may omit it or pass their own.
	CadetID   string `json:"cadet_id" binding:"omitempty,uuid"`
	EntryTime string `json:"entry_time" binding:"required"`
	ExitTime  string `json:"exit_time" binding:"required"`
}

type CadetInfo struct {
	ID                string `json:"id"`
	FullName          string `json:"full_name"`
	ApplicationNumber string `json:"application_number"`
	Platoon           string `json:"platoon"`
}

type SessionInfo struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

type RecordResponse struct {
	ID                   string       `json:"id"`
	SessionID            string       `json:"session_id"`
	CadetID              string       `json:"cadet_id"`
	EntryTime            *string      `json:"entry_time"`
	ExitTime             *string      `json:"exit_time"`
	ParticipationMinutes int          `json:"participation_minutes"`
	AttendancePercentage float64      `json:"attendance_percentage"`
	AttendanceStatus     string       `json:"attendance_status"`
	MarkedBy             string       `json:"marked_by"`
	UpdatedAt            string       `json:"updated_at,omitempty"`
	Cadet                *CadetInfo   `json:"cadet,omitempty"`
	Session              *SessionInfo `json:"session,omitempty"`
}

type HistorySummary struct {
	Present           int     `json:"present"`
	LeaveEarly        int     `json:"leave_early"`
	Absent            int     `json:"absent"`
	Total             int     `json:"total"`
	AveragePercentage float64 `json:"average_percentage"`
}

type HistoryResponse struct {
	Summary HistorySummary   `json:"summary"`
	Records []RecordResponse `json:"records"`
}
