package dtos

// UpdatePatientRequest defines the payload for updating a patient's contact
// info. Unset fields fall back to the patient's current values.
type UpdatePatientRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}
