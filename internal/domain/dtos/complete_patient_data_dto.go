package dtos

// CompletePatientDataDTO bundles a patient with the appointment and device
// identifiers fetched from the auxiliary data sources.
type CompletePatientDataDTO struct {
	Patient        PatientDTO `json:"patient"`
	AppointmentIDs []string   `json:"appointment_ids"`
	DeviceIDs      []string   `json:"device_ids"`
}
