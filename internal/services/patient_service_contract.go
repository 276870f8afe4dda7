package services

import (
	"context"

	"github.com/google/uuid"

	"hearing-clinic-service/internal/domain/dtos"
)

// PatientServiceContract defines the orchestration operations over patient
// records. All operations validate their input before touching the
// persistence collaborator and return transfer representations, never
// entities.
type PatientServiceContract interface {
	CreatePatient(ctx context.Context, req dtos.CreatePatientRequest) (*dtos.PatientDTO, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*dtos.PatientDTO, error)
	GetAllPatients(ctx context.Context) ([]dtos.PatientDTO, error)
	SearchPatientsByName(ctx context.Context, name string) ([]dtos.PatientDTO, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, req dtos.UpdatePatientRequest) (*dtos.PatientDTO, error)
	RecordHearingTest(ctx context.Context, id uuid.UUID, req dtos.RecordHearingTestRequest) (*dtos.PatientDTO, error)
	AssignDevice(ctx context.Context, id uuid.UUID, req dtos.AssignDeviceRequest) (*dtos.PatientDTO, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error

	// GetCompletePatientData fetches the patient together with its
	// appointment and device identifiers from the auxiliary data sources.
	// The three lookups run concurrently; see the implementation for the
	// join and failure semantics.
	GetCompletePatientData(ctx context.Context, id uuid.UUID) (*dtos.CompletePatientDataDTO, error)
}
