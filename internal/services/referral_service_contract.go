package services

import (
	"context"

	"github.com/google/uuid"

	"hearing-clinic-service/internal/domain/dtos"
)

// ReferralServiceContract defines the operations for the hearing aid
// fitting referral pipeline.
type ReferralServiceContract interface {
	// Start launches the background consumer for queued referral jobs.
	Start(ctx context.Context) error
	// Stop shuts the consumer down.
	Stop(ctx context.Context) error

	// InitiateReferral starts a fitting referral for the patient's latest
	// hearing test. Returns a unique id for the referral. Fails when the
	// patient does not exist, has no recorded test, or the test's severity
	// does not warrant a fitting.
	InitiateReferral(ctx context.Context, patientID uuid.UUID, request dtos.InitiateReferralRequest) (referralID string, err error)
}
