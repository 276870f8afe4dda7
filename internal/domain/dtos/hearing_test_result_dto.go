package dtos

import "time"

// HearingTestResultDTO represents a hearing test result in API responses,
// including the derived classification fields.
type HearingTestResultDTO struct {
	TestDate          time.Time `json:"test_date"`
	LeftEarDb         int       `json:"left_ear_db"`
	RightEarDb        int       `json:"right_ear_db"`
	IsNormal          bool      `json:"is_normal"`
	SeverityLevel     string    `json:"severity_level"`
	RecommendedAction string    `json:"recommended_action"`
}
