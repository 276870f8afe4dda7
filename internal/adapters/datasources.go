package adapters

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// AppointmentSource provides the appointment identifiers booked for a
// patient. The scheduling system lives outside this service; implementations
// adapt whatever backs it.
type AppointmentSource interface {
	FetchAppointments(ctx context.Context, patientID uuid.UUID) ([]string, error)
}

// DeviceSource provides the device identifiers assigned to a patient in the
// external device inventory.
type DeviceSource interface {
	FetchDevices(ctx context.Context, patientID uuid.UUID) ([]string, error)
}

// InMemoryDataSource backs both source contracts with in-process maps, for
// single-process deployments and tests.
type InMemoryDataSource struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID][]string
	devices      map[uuid.UUID][]string
}

// NewInMemoryDataSource creates an empty InMemoryDataSource.
func NewInMemoryDataSource() *InMemoryDataSource {
	return &InMemoryDataSource{
		appointments: make(map[uuid.UUID][]string),
		devices:      make(map[uuid.UUID][]string),
	}
}

// SetAppointments replaces the stored appointment ids for a patient.
func (s *InMemoryDataSource) SetAppointments(patientID uuid.UUID, appointmentIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments[patientID] = appointmentIDs
}

// SetDevices replaces the stored device ids for a patient.
func (s *InMemoryDataSource) SetDevices(patientID uuid.UUID, deviceIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[patientID] = deviceIDs
}

// FetchAppointments returns the stored appointment ids for a patient.
func (s *InMemoryDataSource) FetchAppointments(ctx context.Context, patientID uuid.UUID) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.appointments[patientID]...), nil
}

// FetchDevices returns the stored device ids for a patient.
func (s *InMemoryDataSource) FetchDevices(ctx context.Context, patientID uuid.UUID) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.devices[patientID]...), nil
}
