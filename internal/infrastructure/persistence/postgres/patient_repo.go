// Package postgres implements the patient persistence contract on top of
// GORM over a database/sql connection.
package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hearing-clinic-service/internal/domain/entities"
	"hearing-clinic-service/internal/domain/repositories"
	"hearing-clinic-service/internal/domain/shared"
)

// ErrPatientGone is returned by Update when the patient row no longer exists.
var ErrPatientGone = shared.NewDomainError("patient", "Update", shared.ErrNotFound, "patient no longer exists")

// Compile-time check that PatientRepository satisfies the contract.
var _ repositories.PatientRepositoryContract = (*PatientRepository)(nil)

// PatientRepository is the GORM-backed implementation of
// PatientRepositoryContract.
type PatientRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPatientRepository creates a new PatientRepository.
func NewPatientRepository(db *gorm.DB, logger *zap.Logger) *PatientRepository {
	return &PatientRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID loads a patient by id. Returns (nil, nil) when absent.
func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Patient, error) {
	var patient entities.Patient
	err := r.db.WithContext(ctx).First(&patient, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to query patient", zap.String("patient_id", id.String()), zap.Error(err))
		return nil, shared.WrapError("patient", "GetByID", shared.ErrStorage, "query patient", err)
	}
	return &patient, nil
}

// GetAll returns every patient in creation order.
func (r *PatientRepository) GetAll(ctx context.Context) ([]*entities.Patient, error) {
	var patients []*entities.Patient
	err := r.db.WithContext(ctx).Order("created_at").Find(&patients).Error
	if err != nil {
		r.logger.Error("failed to list patients", zap.Error(err))
		return nil, shared.WrapError("patient", "GetAll", shared.ErrStorage, "list patients", err)
	}
	return patients, nil
}

// GetByName returns patients whose name contains the given substring,
// case-insensitively, in creation order.
func (r *PatientRepository) GetByName(ctx context.Context, name string) ([]*entities.Patient, error) {
	var patients []*entities.Patient
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+name+"%").
		Order("created_at").
		Find(&patients).Error
	if err != nil {
		r.logger.Error("failed to search patients", zap.String("name", name), zap.Error(err))
		return nil, shared.WrapError("patient", "GetByName", shared.ErrStorage, "search patients by name", err)
	}
	return patients, nil
}

// Add inserts a new patient row.
func (r *PatientRepository) Add(ctx context.Context, patient *entities.Patient) error {
	if err := r.db.WithContext(ctx).Create(patient).Error; err != nil {
		r.logger.Error("failed to insert patient", zap.String("patient_id", patient.ID.String()), zap.Error(err))
		return shared.WrapError("patient", "Add", shared.ErrStorage, "insert patient", err)
	}
	return nil
}

// Update writes every mutable column of the patient. Fails with a not-found
// error when the row no longer exists.
func (r *PatientRepository) Update(ctx context.Context, patient *entities.Patient) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Patient{}).
		Where("id = ?", patient.ID).
		Updates(map[string]interface{}{
			"name":        patient.Name,
			"email":       patient.Email,
			"latest_test": patient.LatestTest,
			"device_ids":  patient.DeviceIDs,
			"updated_at":  patient.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Error("failed to update patient", zap.String("patient_id", patient.ID.String()), zap.Error(result.Error))
		return shared.WrapError("patient", "Update", shared.ErrStorage, "update patient", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPatientGone
	}
	return nil
}

// Delete removes the patient row. Deleting an id that does not exist is not
// an error.
func (r *PatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&entities.Patient{}, "id = ?", id).Error; err != nil {
		r.logger.Error("failed to delete patient", zap.String("patient_id", id.String()), zap.Error(err))
		return shared.WrapError("patient", "Delete", shared.ErrStorage, "delete patient", err)
	}
	return nil
}
