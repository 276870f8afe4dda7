package dtos

// CreatePatientRequest defines the payload for creating a new patient.
type CreatePatientRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"required,email"`
}
