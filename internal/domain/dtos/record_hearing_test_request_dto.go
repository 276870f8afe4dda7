package dtos

// RecordHearingTestRequest defines the payload for recording a hearing test.
// Ear levels are thresholds in decibels; negative values are rejected.
type RecordHearingTestRequest struct {
	LeftEarDb  int `json:"left_ear_db" validate:"min=0"`
	RightEarDb int `json:"right_ear_db" validate:"min=0"`
}

// AssignDeviceRequest defines the payload for assigning a device to a patient.
type AssignDeviceRequest struct {
	DeviceID string `json:"device_id" validate:"required"`
}
