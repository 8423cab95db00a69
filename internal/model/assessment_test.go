package model

import "testing"

func TestNormalizeConfidence(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want int
	}{
		{"float", 85.6, 85},
		{"int", 42, 42},
		{"int64", int64(70), 70},
		{"numeric string", " 90 ", 90},
		{"float string", "77.5", 77},
		{"garbage string", "very sure", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
		{"negative", -10.0, 0},
		{"over 100", 250.0, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeConfidence(tc.in); got != tc.want {
				t.Fatalf("NormalizeConfidence(%v) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeAssessmentThresholdGating(t *testing.T) {
	raw := map[string]any{
		"incident":   true,
		"type":       "intrusion",
		"severity":   "high",
		"confidence": 65.0,
		"reasoning":  "person climbing fence",
	}

	got := NormalizeAssessment(raw, 70)
	if got.Incident {
		t.Fatalf("confidence 65 below threshold 70 must demote incident to false")
	}
	if got.Confidence != 65 {
		t.Fatalf("confidence must be preserved, got %d", got.Confidence)
	}

	raw["confidence"] = 70.0
	got = NormalizeAssessment(raw, 70)
	if !got.Incident {
		t.Fatalf("confidence at threshold must keep incident true")
	}
}

func TestNormalizeAssessmentFillsAllFields(t *testing.T) {
	got := NormalizeAssessment(map[string]any{}, 70)

	if got.Incident {
		t.Fatalf("empty input must not be an incident")
	}
	if got.Type != "unknown" {
		t.Fatalf("type = %q, want unknown", got.Type)
	}
	if got.Severity != SeverityLow {
		t.Fatalf("severity = %q, want low", got.Severity)
	}
	if got.Reasoning == "" {
		t.Fatalf("reasoning must never be empty")
	}
	if got.Subjects == nil || got.RecommendedActions == nil {
		t.Fatalf("list fields must never be nil")
	}
}

func TestNormalizeSeverity(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"CRITICAL", SeverityCritical},
		{"Medium", SeverityMedium},
		{"catastrophic", SeverityLow},
		{42, SeverityLow},
		{nil, SeverityLow},
	}
	for _, tc := range cases {
		if got := NormalizeSeverity(tc.in); got != tc.want {
			t.Fatalf("NormalizeSeverity(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeStringList(t *testing.T) {
	got := NormalizeStringList([]any{"person", 2, "vehicle"})
	if len(got) != 3 || got[0] != "person" || got[1] != "2" || got[2] != "vehicle" {
		t.Fatalf("unexpected list: %v", got)
	}

	if got := NormalizeStringList("not a list"); len(got) != 0 {
		t.Fatalf("non-sequence must become empty list, got %v", got)
	}
}

func TestDefaultAssessment(t *testing.T) {
	got := DefaultAssessment("API quota exceeded - try a lighter model")

	if got.Incident || got.Type != "error" || got.Severity != SeverityLow || got.Confidence != 0 {
		t.Fatalf("unexpected default assessment: %+v", got)
	}
	if got.Reasoning != "API quota exceeded - try a lighter model" {
		t.Fatalf("reasoning must carry the failure cause")
	}
}
