package linking

type CreateLinkingRequest struct {
	ApplicationNumber string  `json:"application_number" binding:"required"`
	Note              *string `json:"note"`
}

type RejectLinkingRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type LinkingResponse struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	CadetID           string  `json:"cadet_id"`
	CadetName         string  `json:"cadet_name,omitempty"`
	ApplicationNumber string  `json:"application_number,omitempty"`
	Note              *string `json:"note"`
	Status            string  `json:"status"`
	RejectionReason   *string `json:"rejection_reason,omitempty"`
	ReviewedBy        *string `json:"reviewed_by,omitempty"`
	ReviewedAt        *string `json:"reviewed_at,omitempty"`
	CreatedAt         string  `json:"created_at,omitempty"`
}
