package mappers

import (
	"encoding/json"
	"fmt"

	"hearing-clinic-service/internal/domain/entities"
)

// FHIRHumanName represents a FHIR HumanName data type.
type FHIRHumanName struct {
	Use    string   `json:"use,omitempty"` // usual | official | temp | nickname
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
}

// FHIRContactPoint represents a FHIR ContactPoint data type.
type FHIRContactPoint struct {
	System string `json:"system,omitempty"` // phone | email | fax | url
	Value  string `json:"value,omitempty"`
	Use    string `json:"use,omitempty"` // home | work | temp
}

// FHIRPatientResource represents a simplified FHIR Patient resource,
// compatible with DSTU2 and STU3 core demographics.
type FHIRPatientResource struct {
	ResourceType string             `json:"resourceType"` // always "Patient"
	ID           string             `json:"id,omitempty"`
	Name         []FHIRHumanName    `json:"name,omitempty"`
	Telecom      []FHIRContactPoint `json:"telecom,omitempty"`
	Active       bool               `json:"active"`
}

// MapPatientToFHIR converts a Patient entity to a FHIR Patient resource.
// fhirVersion can be "DSTU2" or "STU3"; the demographic subset mapped here
// is identical in both.
func MapPatientToFHIR(patient entities.Patient, fhirVersion string) (json.RawMessage, error) {
	if patient.Name == "" {
		return nil, fmt.Errorf("patient name is required for FHIR mapping")
	}
	if fhirVersion != "DSTU2" && fhirVersion != "STU3" {
		return nil, fmt.Errorf("unsupported FHIR version: %s", fhirVersion)
	}

	fhirPatient := FHIRPatientResource{
		ResourceType: "Patient",
		ID:           patient.ID.String(),
		Name: []FHIRHumanName{{
			Use:   "official",
			Given: []string{patient.Name},
		}},
		Telecom: []FHIRContactPoint{{
			System: "email",
			Value:  patient.Email,
			Use:    "home",
		}},
		Active: true,
	}

	rawJSON, err := json.MarshalIndent(fhirPatient, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error marshalling FHIR patient resource to JSON: %w", err)
	}

	return rawJSON, nil
}
