package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hearing-clinic-service/internal/adapters"
	"hearing-clinic-service/internal/domain/dtos"
	"hearing-clinic-service/internal/domain/entities"
	"hearing-clinic-service/internal/domain/repositories"
	"hearing-clinic-service/internal/domain/shared"
)

// Errors raised by the orchestration layer itself. Entity and repository
// errors propagate through unchanged.
var (
	ErrPatientNotFound  = shared.NewDomainError("patient", "Get", shared.ErrNotFound, "patient not found")
	ErrMissingPatientID = shared.NewDomainError("patient", "Validate", shared.ErrValidation, "patient id must not be empty")
	ErrEmptySearchName  = shared.NewDomainError("patient", "Search", shared.ErrValidation, "search name must not be empty")
)

// PatientServiceImpl implements PatientServiceContract. It holds no mutable
// state of its own; all state lives in the entities it loads and in the
// persistence collaborator.
type PatientServiceImpl struct {
	patientRepo  repositories.PatientRepositoryContract
	appointments adapters.AppointmentSource
	devices      adapters.DeviceSource
	logger       *zap.Logger
}

// NewPatientService creates a new instance of PatientServiceImpl.
func NewPatientService(
	repo repositories.PatientRepositoryContract,
	appointments adapters.AppointmentSource,
	devices adapters.DeviceSource,
	logger *zap.Logger,
) PatientServiceContract {
	return &PatientServiceImpl{
		patientRepo:  repo,
		appointments: appointments,
		devices:      devices,
		logger:       logger,
	}
}

// CreatePatient validates the request through the Patient factory, persists
// the new patient and returns its transfer representation.
func (s *PatientServiceImpl) CreatePatient(ctx context.Context, req dtos.CreatePatientRequest) (*dtos.PatientDTO, error) {
	patient, err := entities.NewPatient(req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	if err := s.patientRepo.Add(ctx, patient); err != nil {
		return nil, err
	}

	s.logger.Info("patient created",
		zap.String("patient_id", patient.ID.String()),
		zap.String("email", patient.Email))

	dto := mapPatientToDTO(patient)
	return &dto, nil
}

// GetPatient returns the patient for the given id, or a not-found error.
func (s *PatientServiceImpl) GetPatient(ctx context.Context, id uuid.UUID) (*dtos.PatientDTO, error) {
	patient, err := s.loadPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := mapPatientToDTO(patient)
	return &dto, nil
}

// GetAllPatients returns every patient in the order the repository yields
// them.
func (s *PatientServiceImpl) GetAllPatients(ctx context.Context) ([]dtos.PatientDTO, error) {
	patients, err := s.patientRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapPatientsToDTOs(patients), nil
}

// SearchPatientsByName delegates to the repository's case-insensitive
// partial match. An empty name is a validation error.
func (s *PatientServiceImpl) SearchPatientsByName(ctx context.Context, name string) ([]dtos.PatientDTO, error) {
	if name == "" {
		return nil, ErrEmptySearchName
	}

	patients, err := s.patientRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return mapPatientsToDTOs(patients), nil
}

// UpdatePatient overwrites the patient's contact info. Unset request fields
// fall back to the patient's current values.
func (s *PatientServiceImpl) UpdatePatient(ctx context.Context, id uuid.UUID, req dtos.UpdatePatientRequest) (*dtos.PatientDTO, error) {
	patient, err := s.loadPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	name := patient.Name
	if req.Name != nil {
		name = *req.Name
	}
	email := patient.Email
	if req.Email != nil {
		email = *req.Email
	}

	if err := patient.UpdateContactInfo(name, email); err != nil {
		return nil, err
	}

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		return nil, err
	}

	dto := mapPatientToDTO(patient)
	return &dto, nil
}

// RecordHearingTest records a new test for the patient and persists the
// updated aggregate.
func (s *PatientServiceImpl) RecordHearingTest(ctx context.Context, id uuid.UUID, req dtos.RecordHearingTestRequest) (*dtos.PatientDTO, error) {
	patient, err := s.loadPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := patient.RecordHearingTest(req.LeftEarDb, req.RightEarDb); err != nil {
		return nil, err
	}

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		return nil, err
	}

	s.logger.Info("hearing test recorded",
		zap.String("patient_id", patient.ID.String()),
		zap.String("severity", string(patient.LatestTest.Severity())))

	dto := mapPatientToDTO(patient)
	return &dto, nil
}

// AssignDevice appends a device to the patient's device list and persists
// the updated aggregate.
func (s *PatientServiceImpl) AssignDevice(ctx context.Context, id uuid.UUID, req dtos.AssignDeviceRequest) (*dtos.PatientDTO, error) {
	patient, err := s.loadPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := patient.AssignDevice(req.DeviceID); err != nil {
		return nil, err
	}

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		return nil, err
	}

	dto := mapPatientToDTO(patient)
	return &dto, nil
}

// DeletePatient delegates to the repository. No existence check is
// performed first; deleting an id that does not exist is the repository's
// concern.
func (s *PatientServiceImpl) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrMissingPatientID
	}
	return s.patientRepo.Delete(ctx, id)
}

// GetCompletePatientData launches the patient lookup and the two auxiliary
// lookups concurrently, then joins after all three have settled. A plain
// errgroup.Group is used deliberately: a failing branch does not cancel the
// others, and when several branches fail only the first error is reported,
// the rest are discarded. The auxiliary sources are part of the contract,
// so a failure in either fails the composite even when the patient was
// found; conversely an absent patient is a not-found failure even when the
// auxiliary lookups returned data.
func (s *PatientServiceImpl) GetCompletePatientData(ctx context.Context, id uuid.UUID) (*dtos.CompletePatientDataDTO, error) {
	if id == uuid.Nil {
		return nil, ErrMissingPatientID
	}

	var (
		patient        *entities.Patient
		appointmentIDs []string
		deviceIDs      []string
	)

	var g errgroup.Group
	g.Go(func() error {
		p, err := s.patientRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		patient = p
		return nil
	})
	g.Go(func() error {
		ids, err := s.appointments.FetchAppointments(ctx, id)
		if err != nil {
			return err
		}
		appointmentIDs = ids
		return nil
	})
	g.Go(func() error {
		ids, err := s.devices.FetchDevices(ctx, id)
		if err != nil {
			return err
		}
		deviceIDs = ids
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return &dtos.CompletePatientDataDTO{
		Patient:        mapPatientToDTO(patient),
		AppointmentIDs: appointmentIDs,
		DeviceIDs:      deviceIDs,
	}, nil
}

// loadPatient validates the id, loads the patient and converts absence into
// a not-found error.
func (s *PatientServiceImpl) loadPatient(ctx context.Context, id uuid.UUID) (*entities.Patient, error) {
	if id == uuid.Nil {
		return nil, ErrMissingPatientID
	}

	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

func mapPatientToDTO(patient *entities.Patient) dtos.PatientDTO {
	return dtos.PatientDTO{
		ID:         patient.ID,
		Name:       patient.Name,
		Email:      patient.Email,
		LatestTest: mapHearingTestToDTO(patient.LatestTest),
		DeviceIDs:  append([]string{}, patient.DeviceIDs...),
		CreatedAt:  patient.CreatedAt,
		UpdatedAt:  patient.UpdatedAt,
	}
}

func mapPatientsToDTOs(patients []*entities.Patient) []dtos.PatientDTO {
	result := make([]dtos.PatientDTO, 0, len(patients))
	for _, patient := range patients {
		result = append(result, mapPatientToDTO(patient))
	}
	return result
}

func mapHearingTestToDTO(result *entities.HearingTestResult) *dtos.HearingTestResultDTO {
	if result == nil {
		return nil
	}
	return &dtos.HearingTestResultDTO{
		TestDate:          result.TestDate,
		LeftEarDb:         result.LeftEarDb,
		RightEarDb:        result.RightEarDb,
		IsNormal:          result.IsNormal(),
		SeverityLevel:     string(result.Severity()),
		RecommendedAction: result.RecommendedAction(),
	}
}
