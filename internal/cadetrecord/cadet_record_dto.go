package cadetrecord

type RecordRequest struct {
	Kind        string   `json:"kind" binding:"required"`
	Title       string   `json:"title" binding:"required,max=255"`
	Description *string  `json:"description"`
	OccurredOn  string   `json:"occurred_on" binding:"required"`
	AwardLevel  *string  `json:"award_level"`
	Severity    *string  `json:"severity"`
	ActionTaken *string  `json:"action_taken"`
	Hours       *float64 `json:"hours"`
	Instructor  *string  `json:"instructor"`
}

type RecordResponse struct {
	ID          string   `json:"id"`
	CadetID     string   `json:"cadet_id"`
	Kind        string   `json:"kind"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	OccurredOn  string   `json:"occurred_on"`
	AwardLevel  *string  `json:"award_level,omitempty"`
	Severity    *string  `json:"severity,omitempty"`
	ActionTaken *string  `json:"action_taken,omitempty"`
	Hours       *float64 `json:"hours,omitempty"`
	Instructor  *string  `json:"instructor,omitempty"`
	RecordedBy  string   `json:"recorded_by"`
	CreatedAt   string   `json:"created_at,omitempty"`
}

type KindCount struct {
	Kind  string `json:"kind"`
	Total int64  `json:"total"`
}
