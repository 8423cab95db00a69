package model

import "testing"

func TestParseAction(t *testing.T) {
	cases := []struct {
		in     string
		want   Action
		wantOK bool
	}{
		{"save_evidence", ActionSaveEvidence, true},
		{"Send Alert", ActionSendAlert, true},
		{"  ESCALATE  ", ActionEscalate, true},
		{"dance_party", ActionLogIncident, false},
		{"", ActionLogIncident, false},
	}

	for _, tc := range cases {
		got, ok := ParseAction(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("ParseAction(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestPriorityRank(t *testing.T) {
	order := []Priority{PriorityImmediate, PriorityHigh, PriorityMedium, PriorityLow}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Fatalf("%s must rank before %s", order[i-1], order[i])
		}
	}

	if Priority("urgent").Rank() != PriorityMedium.Rank() {
		t.Fatalf("unknown priority must rank as medium")
	}
}

func TestParsePriority(t *testing.T) {
	if got := ParsePriority("IMMEDIATE"); got != PriorityImmediate {
		t.Fatalf("ParsePriority(IMMEDIATE) = %q", got)
	}
	if got := ParsePriority("whenever"); got != PriorityMedium {
		t.Fatalf("unknown priority must become medium, got %q", got)
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{StatusActive, StatusResolved, StatusEscalated, StatusDismissed, StatusLogged, StatusMonitoring} {
		if !IsValidStatus(s) {
			t.Fatalf("%q must be valid", s)
		}
	}
	if IsValidStatus("archived") {
		t.Fatalf("archived must be rejected")
	}
}
