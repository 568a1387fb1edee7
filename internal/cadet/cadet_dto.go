package cadet

type FamilyContactRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	Relationship string `json:"relationship" binding:"required,max=50"`
	Phone        string `json:"phone" binding:"required,max=30"`
	IsPrimary    bool   `json:"is_primary"`
}

type CreateCadetRequest struct {
	FullName string `json:"full_name" binding:"required,max=255"`
	// ApplicationNumber is generated (APP-000001) when left empty.
	ApplicationNumber string                 `json:"application_number" binding:"omitempty,max=20"`
	Platoon           string                 `json:"platoon" binding:"required"`
	DateOfBirth       string                 `json:"date_of_birth" binding:"required"`
	SchoolGrade       *string                `json:"school_grade"`
	Phone             *string                `json:"phone"`
	Address           *string                `json:"address"`
	JoinedAt          string                 `json:"joined_at"`
	FamilyContacts    []FamilyContactRequest `json:"family_contacts" binding:"omitempty,dive"`
}

type UpdateCadetRequest struct {
	FullName    string  `json:"full_name" binding:"required,max=255"`
	Platoon     string  `json:"platoon" binding:"required"`
	DateOfBirth string  `json:"date_of_birth" binding:"required"`
	SchoolGrade *string `json:"school_grade"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
}

type ListFilter struct {
	Platoon string
	Search  string
}

type FamilyContactResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	IsPrimary    bool   `json:"is_primary"`
}

type CadetResponse struct {
	ID                string                  `json:"id"`
	FullName          string                  `json:"full_name"`
	ApplicationNumber string                  `json:"application_number"`
	Platoon           string                  `json:"platoon"`
	DateOfBirth       string                  `json:"date_of_birth"`
	Age               int                     `json:"age"`
	SchoolGrade       *string                 `json:"school_grade,omitempty"`
	Phone             *string                 `json:"phone,omitempty"`
	Address           *string                 `json:"address,omitempty"`
	JoinedAt          string                  `json:"joined_at"`
	FamilyContacts    []FamilyContactResponse `json:"family_contacts,omitempty"`
}

type CadetOption struct {
	ID                string `json:"id"`
	FullName          string `json:"full_name"`
	ApplicationNumber string `json:"application_number"`
	Platoon           string `json:"platoon"`
}
