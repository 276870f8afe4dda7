package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"hearing-clinic-service/internal/adapters"
	"hearing-clinic-service/internal/domain/entities"
	"hearing-clinic-service/internal/domain/repositories"
)

// --- MockPatientRepository ---

// Compile-time check that MockPatientRepository implements the contract.
var _ repositories.PatientRepositoryContract = (*MockPatientRepository)(nil)

// MockPatientRepository is a mock implementation of
// PatientRepositoryContract. Behavior is injected per test through the
// func fields; call counts are tracked for the methods tests assert on.
type MockPatientRepository struct {
	GetByIDFunc   func(ctx context.Context, id uuid.UUID) (*entities.Patient, error)
	GetAllFunc    func(ctx context.Context) ([]*entities.Patient, error)
	GetByNameFunc func(ctx context.Context, name string) ([]*entities.Patient, error)
	AddFunc       func(ctx context.Context, patient *entities.Patient) error
	UpdateFunc    func(ctx context.Context, patient *entities.Patient) error
	DeleteFunc    func(ctx context.Context, id uuid.UUID) error

	GetByIDCallCount int32
	AddCallCount     int32
	UpdateCallCount  int32
	DeleteCallCount  int32
}

func (m *MockPatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Patient, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not implemented in mock")
}

func (m *MockPatientRepository) GetAll(ctx context.Context) ([]*entities.Patient, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockPatientRepository) GetByName(ctx context.Context, name string) ([]*entities.Patient, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	return nil, errors.New("GetByNameFunc not implemented in mock")
}

func (m *MockPatientRepository) Add(ctx context.Context, patient *entities.Patient) error {
	atomic.AddInt32(&m.AddCallCount, 1)
	if m.AddFunc != nil {
		return m.AddFunc(ctx, patient)
	}
	return nil
}

func (m *MockPatientRepository) Update(ctx context.Context, patient *entities.Patient) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, patient)
	}
	return nil
}

func (m *MockPatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// --- Mock data sources ---

var (
	_ adapters.AppointmentSource = (*MockAppointmentSource)(nil)
	_ adapters.DeviceSource      = (*MockDeviceSource)(nil)
)

// MockAppointmentSource is a mock implementation of AppointmentSource.
type MockAppointmentSource struct {
	FetchFunc      func(ctx context.Context, patientID uuid.UUID) ([]string, error)
	FetchCallCount int32
}

func (m *MockAppointmentSource) FetchAppointments(ctx context.Context, patientID uuid.UUID) ([]string, error) {
	atomic.AddInt32(&m.FetchCallCount, 1)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, patientID)
	}
	return nil, nil
}

// MockDeviceSource is a mock implementation of DeviceSource.
type MockDeviceSource struct {
	FetchFunc      func(ctx context.Context, patientID uuid.UUID) ([]string, error)
	FetchCallCount int32
}

func (m *MockDeviceSource) FetchDevices(ctx context.Context, patientID uuid.UUID) ([]string, error) {
	atomic.AddInt32(&m.FetchCallCount, 1)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, patientID)
	}
	return nil, nil
}

// --- MockQueueAdapter ---

var _ adapters.QueueAdapter = (*MockQueueAdapter)(nil)

// MockQueueAdapter captures published payloads for inspection.
type MockQueueAdapter struct {
	mu        sync.Mutex
	published map[string][][]byte
	handlers  map[string]adapters.JobHandler

	PublishFunc func(ctx context.Context, queueName string, jobData []byte) error
}

func (m *MockQueueAdapter) Publish(ctx context.Context, queueName string, jobData []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, queueName, jobData)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.published == nil {
		m.published = make(map[string][][]byte)
	}
	m.published[queueName] = append(m.published[queueName], jobData)
	return nil
}

func (m *MockQueueAdapter) StartConsuming(ctx context.Context, queueName string, handler adapters.JobHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handlers == nil {
		m.handlers = make(map[string]adapters.JobHandler)
	}
	m.handlers[queueName] = handler
	return nil
}

func (m *MockQueueAdapter) StopConsuming(ctx context.Context, queueName string) error {
	return nil
}

// Published returns the payloads published to the named queue.
func (m *MockQueueAdapter) Published(queueName string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.published[queueName]
}

// HandlerFor returns the handler registered for the named queue.
func (m *MockQueueAdapter) HandlerFor(queueName string) adapters.JobHandler {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handlers[queueName]
}
