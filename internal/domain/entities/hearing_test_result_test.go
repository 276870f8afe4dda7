package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifySeverity_Boundaries(t *testing.T) {
	cases := []struct {
		name    string
		worstDb int
		want    SeverityLevel
	}{
		{name: "severe_zero", worstDb: 0, want: SeveritySevere},
		{name: "severe_upper", worstDb: 5, want: SeveritySevere},
		{name: "moderate_lower", worstDb: 6, want: SeverityModerate},
		{name: "moderate_upper", worstDb: 10, want: SeverityModerate},
		{name: "mild_lower", worstDb: 11, want: SeverityMild},
		{name: "mild_upper", worstDb: 15, want: SeverityMild},
		{name: "slight_lower", worstDb: 16, want: SeveritySlight},
		{name: "slight_upper", worstDb: 20, want: SeveritySlight},
		{name: "normal_lower", worstDb: 21, want: SeverityNormal},
		{name: "normal_high", worstDb: 80, want: SeverityNormal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifySeverity(tc.worstDb))
		})
	}
}

func TestSeverityLevel_RecommendedAction(t *testing.T) {
	assert.Equal(t, "No intervention needed", SeverityNormal.RecommendedAction())
	assert.Equal(t, "Monitor for changes", SeveritySlight.RecommendedAction())
	assert.Equal(t, "Consider hearing aids", SeverityMild.RecommendedAction())
	assert.Equal(t, "Recommend hearing aid fitting", SeverityModerate.RecommendedAction())
	assert.Equal(t, "Immediate fitting recommended", SeveritySevere.RecommendedAction())
}

func TestSeverityLevel_RequiresFitting(t *testing.T) {
	assert.False(t, SeverityNormal.RequiresFitting())
	assert.False(t, SeveritySlight.RequiresFitting())
	assert.False(t, SeverityMild.RequiresFitting())
	assert.True(t, SeverityModerate.RequiresFitting())
	assert.True(t, SeveritySevere.RequiresFitting())
}

func TestHearingTestResult_WorstEarDrivesSeverity(t *testing.T) {
	result := HearingTestResult{TestDate: time.Now().UTC(), LeftEarDb: 25, RightEarDb: 8}
	assert.Equal(t, 8, result.WorstEar())
	assert.Equal(t, SeverityModerate, result.Severity())
	assert.Equal(t, "Recommend hearing aid fitting", result.RecommendedAction())
}

func TestHearingTestResult_IsNormal(t *testing.T) {
	cases := []struct {
		name  string
		left  int
		right int
		want  bool
	}{
		{name: "both_above_20", left: 21, right: 25, want: true},
		{name: "left_at_20", left: 20, right: 25, want: false},
		{name: "right_at_20", left: 25, right: 20, want: false},
		{name: "both_at_20", left: 20, right: 20, want: false},
		{name: "both_zero", left: 0, right: 0, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := HearingTestResult{TestDate: time.Now().UTC(), LeftEarDb: tc.left, RightEarDb: tc.right}
			assert.Equal(t, tc.want, result.IsNormal())
		})
	}
}

func TestHearingTestResult_EqualIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 14, 22, 45, 12, 0, time.UTC)

	a := HearingTestResult{TestDate: morning, LeftEarDb: 15, RightEarDb: 30}
	b := HearingTestResult{TestDate: evening, LeftEarDb: 15, RightEarDb: 30}

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key(), "equal results must hash to the same key")

	seen := map[TestResultKey]int{}
	seen[a.Key()]++
	seen[b.Key()]++
	assert.Equal(t, 2, seen[a.Key()])
}

func TestHearingTestResult_NotEqual(t *testing.T) {
	day := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	base := HearingTestResult{TestDate: day, LeftEarDb: 15, RightEarDb: 30}

	differentDay := HearingTestResult{TestDate: day.AddDate(0, 0, 1), LeftEarDb: 15, RightEarDb: 30}
	differentLeft := HearingTestResult{TestDate: day, LeftEarDb: 16, RightEarDb: 30}
	differentRight := HearingTestResult{TestDate: day, LeftEarDb: 15, RightEarDb: 31}

	assert.False(t, base.Equal(differentDay))
	assert.False(t, base.Equal(differentLeft))
	assert.False(t, base.Equal(differentRight))
}

func TestHearingTestResult_String(t *testing.T) {
	result := HearingTestResult{
		TestDate:   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		LeftEarDb:  4,
		RightEarDb: 12,
	}

	s := result.String()
	assert.Contains(t, s, "4dB")
	assert.Contains(t, s, "12dB")
	assert.Contains(t, s, "Severe")
	assert.Contains(t, s, "2026-03-14")
}

func TestHearingTestResult_ScanRoundTrip(t *testing.T) {
	original := HearingTestResult{
		TestDate:   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		LeftEarDb:  18,
		RightEarDb: 22,
	}

	value, err := original.Value()
	assert.NoError(t, err)

	var restored HearingTestResult
	assert.NoError(t, restored.Scan(value))
	assert.True(t, original.Equal(restored))
}
