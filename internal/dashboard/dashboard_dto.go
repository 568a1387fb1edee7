package dashboard

type PlatoonCount struct {
	Platoon string `json:"platoon"`
	Total   int64  `json:"total"`
}

type SessionSummary struct {
	SessionID  string `json:"session_id"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	Present    int    `json:"present"`
	LeaveEarly int    `json:"leave_early"`
	Absent     int    `json:"absent"`
}

type AdminDashboard struct {
	TotalCadets     int64           `json:"total_cadets"`
	Platoons        []PlatoonCount  `json:"platoons"`
	TotalSessions   int64           `json:"total_sessions"`
	LatestSession   *SessionSummary `json:"latest_session"`
	PendingLinkings int64           `json:"pending_linking_requests"`
}

type CadetProfile struct {
	ID                string `json:"id"`
	FullName          string `json:"full_name"`
	ApplicationNumber string `json:"application_number"`
	Platoon           string `json:"platoon"`
}

type AttendanceSummary struct {
	Present           int     `json:"present"`
	LeaveEarly        int     `json:"leave_early"`
	Absent            int     `json:"absent"`
	Total             int     `json:"total"`
	AveragePercentage float64 `json:"average_percentage"`
}

type CadetDashboard struct {
	Linked     bool              `json:"linked"`
	Profile    *CadetProfile     `json:"profile,omitempty"`
	Attendance AttendanceSummary `json:"attendance"`
	Records    map[string]int64  `json:"records"`
}

// Response carries exactly one of Admin or Cadet, chosen by role.
type Response struct {
	Role  string          `json:"role"`
	Admin *AdminDashboard `json:"admin,omitempty"`
	Cadet *CadetDashboard `json:"cadet,omitempty"`
}
