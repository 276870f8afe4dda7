package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hearing-clinic-service/internal/domain/shared"
)

// Validation and conflict errors raised by the Patient factory and its
// business operations.
var (
	ErrEmptyName             = shared.NewDomainError("patient", "Validate", shared.ErrValidation, "name must not be empty")
	ErrEmptyEmail            = shared.NewDomainError("patient", "Validate", shared.ErrValidation, "email must not be empty")
	ErrNegativeEarLevel      = shared.NewDomainError("patient", "RecordHearingTest", shared.ErrValidation, "ear levels must not be negative")
	ErrEmptyDeviceID         = shared.NewDomainError("patient", "AssignDevice", shared.ErrValidation, "device id must not be empty")
	ErrDeviceAlreadyAssigned = shared.NewDomainError("patient", "AssignDevice", shared.ErrConflict, "device is already assigned to this patient")
)

// DeviceIDList is an ordered sequence of assigned device identifiers,
// stored as a jsonb column.
type DeviceIDList []string

// Contains reports whether the given device id is already assigned.
func (d DeviceIDList) Contains(deviceID string) bool {
	for _, id := range d {
		if id == deviceID {
			return true
		}
	}
	return false
}

// Value serializes the list as JSON for the jsonb column.
func (d DeviceIDList) Value() (driver.Value, error) {
	if d == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(d))
}

// Scan deserializes the list from a jsonb column.
func (d *DeviceIDList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = nil
		return nil
	default:
		return fmt.Errorf("unsupported type for DeviceIDList: %T", src)
	}
}

// Patient is the aggregate root for a hearing-clinic patient: identity,
// contact data, assigned devices, and the most recent hearing test. Fields
// are exported for persistence and mapping, but state changes must go
// through the business operations below so the invariants hold: name and
// email are never empty after construction, device ids are unique with
// insertion order preserved, and UpdatedAt never precedes CreatedAt.
type Patient struct {
	ID         uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string             `json:"name" gorm:"not null"`
	Email      string             `json:"email" gorm:"uniqueIndex;not null"`
	LatestTest *HearingTestResult `json:"latest_test,omitempty" gorm:"type:jsonb"`
	DeviceIDs  DeviceIDList       `json:"device_ids" gorm:"type:jsonb"`
	CreatedAt  time.Time          `json:"created_at" gorm:"not null"`
	UpdatedAt  time.Time          `json:"updated_at" gorm:"not null"`
}

// NewPatient creates a patient with a freshly generated id. The name is
// trimmed and the email trimmed and lowercased; either being empty after
// trimming fails validation.
func NewPatient(name, email string) (*Patient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrEmptyEmail
	}

	now := time.Now().UTC()

	return &Patient{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		DeviceIDs: DeviceIDList{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// RecordHearingTest records a new test, replacing any previous result. Both
// ear levels must be non-negative; a failed call leaves state unchanged.
func (p *Patient) RecordHearingTest(leftEarDb, rightEarDb int) error {
	if leftEarDb < 0 || rightEarDb < 0 {
		return ErrNegativeEarLevel
	}

	now := time.Now().UTC()
	p.LatestTest = &HearingTestResult{
		TestDate:   now,
		LeftEarDb:  leftEarDb,
		RightEarDb: rightEarDb,
	}
	p.UpdatedAt = now
	return nil
}

// AssignDevice appends a device id to the patient's device list. Assigning
// an id that is already present is a conflict and leaves the list unchanged.
func (p *Patient) AssignDevice(deviceID string) error {
	if strings.TrimSpace(deviceID) == "" {
		return ErrEmptyDeviceID
	}
	if p.DeviceIDs.Contains(deviceID) {
		return ErrDeviceAlreadyAssigned
	}

	p.DeviceIDs = append(p.DeviceIDs, deviceID)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateContactInfo overwrites the patient's name and email, applying the
// same normalization as NewPatient. Both fields are validated before either
// is written, so a failed call leaves the stored values untouched.
func (p *Patient) UpdateContactInfo(name, email string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrEmptyEmail
	}

	p.Name = name
	p.Email = email
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// HasNormalHearing reports whether the latest test classified both ears as
// normal. A patient with no recorded test does not have normal hearing
// confirmed, so this returns false.
func (p *Patient) HasNormalHearing() bool {
	if p.LatestTest == nil {
		return false
	}
	return p.LatestTest.IsNormal()
}

// String returns a compact summary for logging.
func (p *Patient) String() string {
	latest := "none"
	if p.LatestTest != nil {
		latest = string(p.LatestTest.Severity())
	}
	return fmt.Sprintf("Patient{ID: %s, Name: %s, Devices: %d, LatestTest: %s}",
		p.ID, p.Name, len(p.DeviceIDs), latest)
}
