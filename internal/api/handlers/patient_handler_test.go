package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hearing-clinic-service/internal/domain/dtos"
	"hearing-clinic-service/internal/domain/shared"
	"hearing-clinic-service/internal/services"
)

type mockPatientService struct {
	CreatePatientFunc          func(ctx context.Context, req dtos.CreatePatientRequest) (*dtos.PatientDTO, error)
	GetPatientFunc             func(ctx context.Context, id uuid.UUID) (*dtos.PatientDTO, error)
	GetAllPatientsFunc         func(ctx context.Context) ([]dtos.PatientDTO, error)
	SearchPatientsByNameFunc   func(ctx context.Context, name string) ([]dtos.PatientDTO, error)
	UpdatePatientFunc          func(ctx context.Context, id uuid.UUID, req dtos.UpdatePatientRequest) (*dtos.PatientDTO, error)
	RecordHearingTestFunc      func(ctx context.Context, id uuid.UUID, req dtos.RecordHearingTestRequest) (*dtos.PatientDTO, error)
	AssignDeviceFunc           func(ctx context.Context, id uuid.UUID, req dtos.AssignDeviceRequest) (*dtos.PatientDTO, error)
	DeletePatientFunc          func(ctx context.Context, id uuid.UUID) error
	GetCompletePatientDataFunc func(ctx context.Context, id uuid.UUID) (*dtos.CompletePatientDataDTO, error)
}

var _ services.PatientServiceContract = (*mockPatientService)(nil)

func (m *mockPatientService) CreatePatient(ctx context.Context, req dtos.CreatePatientRequest) (*dtos.PatientDTO, error) {
	return m.CreatePatientFunc(ctx, req)
}

func (m *mockPatientService) GetPatient(ctx context.Context, id uuid.UUID) (*dtos.PatientDTO, error) {
	return m.GetPatientFunc(ctx, id)
}

func (m *mockPatientService) GetAllPatients(ctx context.Context) ([]dtos.PatientDTO, error) {
	return m.GetAllPatientsFunc(ctx)
}

func (m *mockPatientService) SearchPatientsByName(ctx context.Context, name string) ([]dtos.PatientDTO, error) {
	return m.SearchPatientsByNameFunc(ctx, name)
}

func (m *mockPatientService) UpdatePatient(ctx context.Context, id uuid.UUID, req dtos.UpdatePatientRequest) (*dtos.PatientDTO, error) {
	return m.UpdatePatientFunc(ctx, id, req)
}

func (m *mockPatientService) RecordHearingTest(ctx context.Context, id uuid.UUID, req dtos.RecordHearingTestRequest) (*dtos.PatientDTO, error) {
	return m.RecordHearingTestFunc(ctx, id, req)
}

func (m *mockPatientService) AssignDevice(ctx context.Context, id uuid.UUID, req dtos.AssignDeviceRequest) (*dtos.PatientDTO, error) {
	return m.AssignDeviceFunc(ctx, id, req)
}

func (m *mockPatientService) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return m.DeletePatientFunc(ctx, id)
}

func (m *mockPatientService) GetCompletePatientData(ctx context.Context, id uuid.UUID) (*dtos.CompletePatientDataDTO, error) {
	return m.GetCompletePatientDataFunc(ctx, id)
}

func newTestApp(svc services.PatientServiceContract) *fiber.App {
	app := fiber.New()
	RegisterPatientRoutes(app, NewPatientHandler(svc, zap.NewNop()))
	return app
}

func TestCreatePatient_Returns201(t *testing.T) {
	svc := &mockPatientService{
		CreatePatientFunc: func(ctx context.Context, req dtos.CreatePatientRequest) (*dtos.PatientDTO, error) {
			return &dtos.PatientDTO{ID: uuid.New(), Name: req.Name, Email: req.Email}, nil
		},
	}
	app := newTestApp(svc)

	body, _ := json.Marshal(dtos.CreatePatientRequest{Name: "Jane Doe", Email: "jane@example.com"})
	req := httptest.NewRequest("POST", "/patients/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var dto dtos.PatientDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dto))
	assert.Equal(t, "Jane Doe", dto.Name)
	assert.NotEqual(t, uuid.Nil, dto.ID)
}

func TestCreatePatient_ValidationMapsTo400(t *testing.T) {
	svc := &mockPatientService{
		CreatePatientFunc: func(ctx context.Context, req dtos.CreatePatientRequest) (*dtos.PatientDTO, error) {
			return nil, shared.NewDomainError("patient", "Create", shared.ErrValidation, "patient name must not be empty")
		},
	}
	app := newTestApp(svc)

	body, _ := json.Marshal(dtos.CreatePatientRequest{Name: "", Email: "jane@example.com"})
	req := httptest.NewRequest("POST", "/patients/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetPatient_NotFoundMapsTo404(t *testing.T) {
	svc := &mockPatientService{
		GetPatientFunc: func(ctx context.Context, id uuid.UUID) (*dtos.PatientDTO, error) {
			return nil, shared.NewDomainError("patient", "Get", shared.ErrNotFound, "patient not found")
		},
	}
	app := newTestApp(svc)

	req := httptest.NewRequest("GET", "/patients/"+uuid.New().String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetPatient_MalformedIDMapsTo400(t *testing.T) {
	app := newTestApp(&mockPatientService{})

	req := httptest.NewRequest("GET", "/patients/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetAllPatients_NameQuerySwitchesToSearch(t *testing.T) {
	var searched string
	svc := &mockPatientService{
		SearchPatientsByNameFunc: func(ctx context.Context, name string) ([]dtos.PatientDTO, error) {
			searched = name
			return []dtos.PatientDTO{{ID: uuid.New(), Name: "Jane Doe"}}, nil
		},
	}
	app := newTestApp(svc)

	req := httptest.NewRequest("GET", "/patients/?name=jane", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "jane", searched)
}

func TestAssignDevice_ConflictMapsTo409(t *testing.T) {
	svc := &mockPatientService{
		AssignDeviceFunc: func(ctx context.Context, id uuid.UUID, req dtos.AssignDeviceRequest) (*dtos.PatientDTO, error) {
			return nil, shared.NewDomainError("patient", "AssignDevice", shared.ErrConflict, "device already assigned")
		},
	}
	app := newTestApp(svc)

	body, _ := json.Marshal(dtos.AssignDeviceRequest{DeviceID: "dev-1"})
	req := httptest.NewRequest("POST", "/patients/"+uuid.New().String()+"/devices", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestDeletePatient_Returns204(t *testing.T) {
	svc := &mockPatientService{
		DeletePatientFunc: func(ctx context.Context, id uuid.UUID) error { return nil },
	}
	app := newTestApp(svc)

	req := httptest.NewRequest("DELETE", "/patients/"+uuid.New().String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestGetCompletePatientData_StorageMapsTo502(t *testing.T) {
	svc := &mockPatientService{
		GetCompletePatientDataFunc: func(ctx context.Context, id uuid.UUID) (*dtos.CompletePatientDataDTO, error) {
			return nil, shared.NewDomainError("appointments", "Fetch", shared.ErrStorage, "scheduling system unavailable")
		},
	}
	app := newTestApp(svc)

	req := httptest.NewRequest("GET", "/patients/"+uuid.New().String()+"/complete", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

type mockReferralService struct {
	InitiateReferralFunc func(ctx context.Context, patientID uuid.UUID, request dtos.InitiateReferralRequest) (string, error)
}

var _ services.ReferralServiceContract = (*mockReferralService)(nil)

func (m *mockReferralService) Start(ctx context.Context) error { return nil }
func (m *mockReferralService) Stop(ctx context.Context) error  { return nil }

func (m *mockReferralService) InitiateReferral(ctx context.Context, patientID uuid.UUID, request dtos.InitiateReferralRequest) (string, error) {
	return m.InitiateReferralFunc(ctx, patientID, request)
}

func TestInitiateReferral_Returns202WithPendingStatus(t *testing.T) {
	referralID := uuid.New().String()
	svc := &mockReferralService{
		InitiateReferralFunc: func(ctx context.Context, patientID uuid.UUID, request dtos.InitiateReferralRequest) (string, error) {
			return referralID, nil
		},
	}
	app := fiber.New()
	RegisterReferralRoutes(app, NewReferralHandler(svc, zap.NewNop()))

	body, _ := json.Marshal(dtos.InitiateReferralRequest{FHIRVersion: "STU3"})
	req := httptest.NewRequest("POST", "/patients/"+uuid.New().String()+"/referrals", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var status dtos.ReferralStatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, referralID, status.ReferralID)
	assert.Equal(t, "PENDING", status.Status)
}

func TestInitiateReferral_RejectsUnknownFHIRVersion(t *testing.T) {
	app := fiber.New()
	RegisterReferralRoutes(app, NewReferralHandler(&mockReferralService{}, zap.NewNop()))

	body, _ := json.Marshal(dtos.InitiateReferralRequest{FHIRVersion: "R4"})
	req := httptest.NewRequest("POST", "/patients/"+uuid.New().String()+"/referrals", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
