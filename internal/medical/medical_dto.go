package medical

type UpsertMedicalRequest struct {
	BloodType      *string `json:"blood_type" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Allergies      *string `json:"allergies"`
	Conditions     *string `json:"conditions"`
	Medications    *string `json:"medications"`
	EmergencyNotes *string `json:"emergency_notes"`
}

type MedicalResponse struct {
	ID             string  `json:"id"`
	CadetID        string  `json:"cadet_id"`
	BloodType      *string `json:"blood_type"`
	Allergies      *string `json:"allergies"`
	Conditions     *string `json:"conditions"`
	Medications    *string `json:"medications"`
	EmergencyNotes *string `json:"emergency_notes"`
	UpdatedBy      *string `json:"updated_by"`
	UpdatedAt      string  `json:"updated_at,omitempty"`
}
