package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"hearing-clinic-service/internal/domain/entities"
)

// FHIRCoding represents a FHIR Coding data type.
type FHIRCoding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// FHIRCodeableConcept represents a FHIR CodeableConcept data type.
type FHIRCodeableConcept struct {
	Coding []FHIRCoding `json:"coding,omitempty"`
	Text   string       `json:"text,omitempty"`
}

// FHIRQuantity represents a FHIR Quantity data type.
type FHIRQuantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// FHIRReference represents a FHIR Reference data type.
type FHIRReference struct {
	Reference string `json:"reference,omitempty"`
}

// FHIRObservationComponent holds one measured value of a multi-component
// observation, here one ear's threshold.
type FHIRObservationComponent struct {
	Code          FHIRCodeableConcept `json:"code"`
	ValueQuantity FHIRQuantity        `json:"valueQuantity"`
}

// FHIRObservationResource represents a simplified FHIR Observation resource
// for an audiometry result.
type FHIRObservationResource struct {
	ResourceType      string                     `json:"resourceType"` // always "Observation"
	Status            string                     `json:"status"`
	Code              FHIRCodeableConcept        `json:"code"`
	Subject           FHIRReference              `json:"subject"`
	EffectiveDateTime string                     `json:"effectiveDateTime"`
	Component         []FHIRObservationComponent `json:"component"`
	Interpretation    *FHIRCodeableConcept       `json:"interpretation,omitempty"`
}

// MapHearingTestToObservation converts a hearing test result to a FHIR
// Observation with one component per ear. The severity classification goes
// into the interpretation field.
func MapHearingTestToObservation(patientID uuid.UUID, result entities.HearingTestResult) (json.RawMessage, error) {
	observation := FHIRObservationResource{
		ResourceType: "Observation",
		Status:       "final",
		Code: FHIRCodeableConcept{
			Coding: []FHIRCoding{{
				System:  "http://loinc.org",
				Code:    "28615-3",
				Display: "Audiology study",
			}},
			Text: "Hearing threshold audiometry",
		},
		Subject: FHIRReference{
			Reference: "Patient/" + patientID.String(),
		},
		EffectiveDateTime: result.TestDate.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Component: []FHIRObservationComponent{
			{
				Code:          FHIRCodeableConcept{Text: "Hearing threshold, left ear"},
				ValueQuantity: FHIRQuantity{Value: float64(result.LeftEarDb), Unit: "dB"},
			},
			{
				Code:          FHIRCodeableConcept{Text: "Hearing threshold, right ear"},
				ValueQuantity: FHIRQuantity{Value: float64(result.RightEarDb), Unit: "dB"},
			},
		},
		Interpretation: &FHIRCodeableConcept{
			Text: string(result.Severity()),
		},
	}

	rawJSON, err := json.MarshalIndent(observation, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error marshalling FHIR observation resource to JSON: %w", err)
	}

	return rawJSON, nil
}
