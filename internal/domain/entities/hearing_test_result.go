package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SeverityLevel classifies a hearing test result by the worst ear's
// threshold in decibels.
type SeverityLevel string

const (
	SeverityNormal   SeverityLevel = "Normal"
	SeveritySlight   SeverityLevel = "Slight"
	SeverityMild     SeverityLevel = "Mild"
	SeverityModerate SeverityLevel = "Moderate"
	SeveritySevere   SeverityLevel = "Severe"
)

// RecommendedAction returns the clinical follow-up for this severity level.
func (s SeverityLevel) RecommendedAction() string {
	switch s {
	case SeverityNormal:
		return "No intervention needed"
	case SeveritySlight:
		return "Monitor for changes"
	case SeverityMild:
		return "Consider hearing aids"
	case SeverityModerate:
		return "Recommend hearing aid fitting"
	case SeveritySevere:
		return "Immediate fitting recommended"
	default:
		return ""
	}
}

// RequiresFitting reports whether the severity warrants a hearing aid
// fitting referral.
func (s SeverityLevel) RequiresFitting() bool {
	return s == SeverityModerate || s == SeveritySevere
}

// ClassifySeverity maps a hearing threshold in decibels to a severity level.
func ClassifySeverity(worstEarDb int) SeverityLevel {
	switch {
	case worstEarDb >= 21:
		return SeverityNormal
	case worstEarDb >= 16:
		return SeveritySlight
	case worstEarDb >= 11:
		return SeverityMild
	case worstEarDb >= 6:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

// HearingTestResult is an immutable clinical measurement. It carries no
// identity: two results with the same ear levels taken on the same calendar
// day are interchangeable, regardless of time of day. Validation of the ear
// levels happens in Patient.RecordHearingTest, the only place results are
// constructed.
type HearingTestResult struct {
	TestDate   time.Time `json:"test_date"`
	LeftEarDb  int       `json:"left_ear_db"`
	RightEarDb int       `json:"right_ear_db"`
}

// WorstEar returns the lower of the two thresholds, which drives the
// severity classification.
func (r HearingTestResult) WorstEar() int {
	if r.LeftEarDb < r.RightEarDb {
		return r.LeftEarDb
	}
	return r.RightEarDb
}

// IsNormal reports whether both ears are strictly above 20 dB.
func (r HearingTestResult) IsNormal() bool {
	return r.LeftEarDb > 20 && r.RightEarDb > 20
}

// Severity classifies the result by its worst ear.
func (r HearingTestResult) Severity() SeverityLevel {
	return ClassifySeverity(r.WorstEar())
}

// RecommendedAction returns the follow-up for the result's severity.
func (r HearingTestResult) RecommendedAction() string {
	return r.Severity().RecommendedAction()
}

// TestResultKey is the comparable identity of a result: calendar date (UTC)
// plus both ear levels. Results that are Equal produce identical keys, so a
// key can serve as a map key or hash input.
type TestResultKey struct {
	Year       int
	Month      time.Month
	Day        int
	LeftEarDb  int
	RightEarDb int
}

// Key returns the comparable identity of the result.
func (r HearingTestResult) Key() TestResultKey {
	y, m, d := r.TestDate.UTC().Date()
	return TestResultKey{
		Year:       y,
		Month:      m,
		Day:        d,
		LeftEarDb:  r.LeftEarDb,
		RightEarDb: r.RightEarDb,
	}
}

// Equal compares two results by ear levels and calendar date, ignoring the
// time of day of TestDate.
func (r HearingTestResult) Equal(other HearingTestResult) bool {
	return r.Key() == other.Key()
}

// String returns a compact summary for logging.
func (r HearingTestResult) String() string {
	return fmt.Sprintf("HearingTest{date: %s, left: %ddB, right: %ddB, severity: %s}",
		r.TestDate.UTC().Format("2006-01-02"), r.LeftEarDb, r.RightEarDb, r.Severity())
}

// Value serializes the result as JSON for the jsonb column.
func (r HearingTestResult) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan deserializes the result from a jsonb column.
func (r *HearingTestResult) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported type for HearingTestResult: %T", src)
	}
}
