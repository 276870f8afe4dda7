package dtos

// InitiateReferralRequest is used to start a hearing aid fitting referral
// for a patient whose latest test warrants one.
type InitiateReferralRequest struct {
	FHIRVersion string `json:"fhirVersion" validate:"required,oneof=STU3 DSTU2"`
	IsUrgent    bool   `json:"isUrgent"`
}

// ReferralProgress represents common fields for referral status responses.
type ReferralProgress struct {
	ReferralID string `json:"referralId"`
	Status     string `json:"status"` // PENDING, IN_PROGRESS, COMPLETED, FAILED
	Message    string `json:"message,omitempty"`
}

// ReferralStatusResponse is the response for an initiated referral.
type ReferralStatusResponse struct {
	ReferralProgress
}
