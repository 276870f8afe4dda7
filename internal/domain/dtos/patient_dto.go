package dtos

import (
	"time"

	"github.com/google/uuid"
)

// PatientDTO represents patient data in API responses. LatestTest is nil
// until the patient's first hearing test is recorded.
type PatientDTO struct {
	ID         uuid.UUID             `json:"id"`
	Name       string                `json:"name"`
	Email      string                `json:"email"`
	LatestTest *HearingTestResultDTO `json:"latest_test,omitempty"`
	DeviceIDs  []string              `json:"device_ids"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}
