package adapters

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hearing-clinic-service/internal/domain/shared"
)

// Key layout for patient-scoped lists maintained by the scheduling and
// inventory integrations.
const (
	appointmentKeyFormat = "patient:%s:appointments"
	deviceKeyFormat      = "patient:%s:devices"
)

// RedisDataSource implements AppointmentSource and DeviceSource over Redis
// lists populated by the external scheduling and device-inventory systems.
type RedisDataSource struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisDataSource creates a new RedisDataSource.
func NewRedisDataSource(client *redis.Client, logger *zap.Logger) *RedisDataSource {
	return &RedisDataSource{
		client: client,
		logger: logger,
	}
}

// FetchAppointments returns the appointment ids stored for a patient. A
// missing key yields an empty list, not an error.
func (s *RedisDataSource) FetchAppointments(ctx context.Context, patientID uuid.UUID) ([]string, error) {
	key := fmt.Sprintf(appointmentKeyFormat, patientID)
	ids, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		s.logger.Error("failed to fetch appointments", zap.String("patient_id", patientID.String()), zap.Error(err))
		return nil, shared.WrapError("appointments", "Fetch", shared.ErrStorage, "read appointment list", err)
	}
	return ids, nil
}

// FetchDevices returns the device ids stored for a patient. A missing key
// yields an empty list, not an error.
func (s *RedisDataSource) FetchDevices(ctx context.Context, patientID uuid.UUID) ([]string, error) {
	key := fmt.Sprintf(deviceKeyFormat, patientID)
	ids, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		s.logger.Error("failed to fetch devices", zap.String("patient_id", patientID.String()), zap.Error(err))
		return nil, shared.WrapError("devices", "Fetch", shared.ErrStorage, "read device list", err)
	}
	return ids, nil
}
