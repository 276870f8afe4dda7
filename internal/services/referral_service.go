package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hearing-clinic-service/internal/adapters"
	"hearing-clinic-service/internal/domain/dtos"
	"hearing-clinic-service/internal/domain/entities"
	"hearing-clinic-service/internal/domain/repositories"
	"hearing-clinic-service/internal/domain/shared"
	"hearing-clinic-service/internal/fhir/mappers"
)

// FittingReferralQueue is the queue referral jobs are published to.
const FittingReferralQueue = "fitting_referral_jobs"

// Errors raised by the referral pipeline.
var (
	ErrNoHearingTest        = shared.NewDomainError("referral", "Initiate", shared.ErrValidation, "patient has no recorded hearing test")
	ErrReferralNotIndicated = shared.NewDomainError("referral", "Initiate", shared.ErrConflict, "latest test severity does not warrant a fitting referral")
)

// ReferralJobData is the payload of a queued referral job.
type ReferralJobData struct {
	ReferralID    string          `json:"referralId"`
	PatientID     string          `json:"patientId"`
	PatientFHIR   json.RawMessage `json:"patientFhir"`
	AudiogramFHIR json.RawMessage `json:"audiogramFhir"`
	FHIRVersion   string          `json:"fhirVersion"`
	IsUrgent      bool            `json:"isUrgent"`
}

// ReferralServiceImpl implements ReferralServiceContract.
type ReferralServiceImpl struct {
	patientRepo   repositories.PatientRepositoryContract
	queueAdapter  adapters.QueueAdapter
	logger        *zap.Logger
	serviceCtx    context.Context
	serviceCancel context.CancelFunc
}

// NewReferralService creates a new instance of ReferralServiceImpl.
func NewReferralService(
	patientRepo repositories.PatientRepositoryContract,
	queueAdapter adapters.QueueAdapter,
	logger *zap.Logger,
) ReferralServiceContract {
	ctx, cancel := context.WithCancel(context.Background())
	return &ReferralServiceImpl{
		patientRepo:   patientRepo,
		queueAdapter:  queueAdapter,
		logger:        logger,
		serviceCtx:    ctx,
		serviceCancel: cancel,
	}
}

// Start launches the consumer for the referral queue.
func (s *ReferralServiceImpl) Start(ctx context.Context) error {
	if err := s.queueAdapter.StartConsuming(s.serviceCtx, FittingReferralQueue, s.handleReferralJob); err != nil {
		s.logger.Error("failed to start referral consumer", zap.Error(err))
		return shared.WrapError("referral", "Start", shared.ErrStorage, "start referral consumer", err)
	}
	s.logger.Info("referral consumer started", zap.String("queue", FittingReferralQueue))
	return nil
}

// Stop shuts the referral consumer down.
func (s *ReferralServiceImpl) Stop(ctx context.Context) error {
	s.serviceCancel()
	s.logger.Info("referral service stopped")
	return nil
}

// InitiateReferral loads the patient, checks that its latest test warrants
// a fitting, maps patient and audiogram to FHIR and enqueues the referral
// job for processing.
func (s *ReferralServiceImpl) InitiateReferral(ctx context.Context, patientID uuid.UUID, request dtos.InitiateReferralRequest) (string, error) {
	if patientID == uuid.Nil {
		return "", ErrMissingPatientID
	}

	patient, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		return "", err
	}
	if patient == nil {
		return "", ErrPatientNotFound
	}

	if patient.LatestTest == nil {
		return "", ErrNoHearingTest
	}
	if !patient.LatestTest.Severity().RequiresFitting() {
		return "", ErrReferralNotIndicated
	}

	patientFHIR, err := mappers.MapPatientToFHIR(*patient, request.FHIRVersion)
	if err != nil {
		return "", shared.WrapError("referral", "Initiate", shared.ErrValidation, "map patient to FHIR", err)
	}
	audiogramFHIR, err := mappers.MapHearingTestToObservation(patient.ID, *patient.LatestTest)
	if err != nil {
		return "", shared.WrapError("referral", "Initiate", shared.ErrValidation, "map hearing test to FHIR", err)
	}

	referralID := uuid.New().String()
	jobData := ReferralJobData{
		ReferralID:    referralID,
		PatientID:     patient.ID.String(),
		PatientFHIR:   patientFHIR,
		AudiogramFHIR: audiogramFHIR,
		FHIRVersion:   request.FHIRVersion,
		IsUrgent:      request.IsUrgent || patient.LatestTest.Severity() == entities.SeveritySevere,
	}

	jobBytes, err := json.Marshal(jobData)
	if err != nil {
		return "", shared.WrapError("referral", "Initiate", shared.ErrStorage, "marshal referral job", err)
	}

	if err := s.queueAdapter.Publish(ctx, FittingReferralQueue, jobBytes); err != nil {
		return "", shared.WrapError("referral", "Initiate", shared.ErrStorage, "enqueue referral job", err)
	}

	s.logger.Info("referral enqueued",
		zap.String("referral_id", referralID),
		zap.String("patient_id", patient.ID.String()),
		zap.Bool("urgent", jobData.IsUrgent))

	return referralID, nil
}

// handleReferralJob processes one queued referral job.
func (s *ReferralServiceImpl) handleReferralJob(ctx context.Context, jobData []byte) error {
	var job ReferralJobData
	if err := json.Unmarshal(jobData, &job); err != nil {
		s.logger.Error("failed to decode referral job", zap.Error(err))
		return shared.WrapError("referral", "Process", shared.ErrValidation, "decode referral job", err)
	}

	s.logger.Info("processing referral job",
		zap.String("referral_id", job.ReferralID),
		zap.String("patient_id", job.PatientID),
		zap.Bool("urgent", job.IsUrgent))

	// Stand-in for handing the FHIR bundle to the fitting provider.
	time.Sleep(100 * time.Millisecond)

	s.logger.Info("referral job completed", zap.String("referral_id", job.ReferralID))
	return nil
}
