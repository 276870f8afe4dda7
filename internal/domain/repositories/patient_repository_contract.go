package repositories

import (
	"context"

	"github.com/google/uuid"

	"hearing-clinic-service/internal/domain/entities"
)

// PatientRepositoryContract defines the persistence contract for patients.
// Implementations may fail with storage-kind errors; absence is not an
// error: GetByID returns (nil, nil) when no patient exists for the id, and
// the caller decides whether that is a not-found condition. Update is the
// exception and fails with a not-found error when the row no longer exists.
type PatientRepositoryContract interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Patient, error)
	GetAll(ctx context.Context) ([]*entities.Patient, error)
	// GetByName performs a case-insensitive partial match on the name.
	GetByName(ctx context.Context, name string) ([]*entities.Patient, error)
	Add(ctx context.Context, patient *entities.Patient) error
	Update(ctx context.Context, patient *entities.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
}
