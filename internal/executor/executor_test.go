package executor

import (
	"context"
	"testing"

	"github.com/aegisai/backend/internal/config"
	"github.com/aegisai/backend/internal/model"
)

type fakeStore struct {
	saved         []model.ActionExecutionRecord
	statusUpdates []string
	failStatusFor map[string]bool
	incident      *model.Incident
}

func (f *fakeStore) SaveAction(ctx context.Context, incidentID int64, actionType string, record model.ActionExecutionRecord) int64 {
	f.saved = append(f.saved, record)
	return int64(len(f.saved))
}

func (f *fakeStore) UpdateIncidentStatus(ctx context.Context, incidentID int64, status string) bool {
	if f.failStatusFor[status] {
		return false
	}
	f.statusUpdates = append(f.statusUpdates, status)
	return true
}

func (f *fakeStore) GetIncidentByID(ctx context.Context, incidentID int64) (*model.Incident, error) {
	return f.incident, nil
}

func newTestExecutor(store *fakeStore) *ActionExecutor {
	return NewActionExecutor(store, nil, nil, nil, config.AlertConfig{})
}

func TestExecutePlanPriorityOrdering(t *testing.T) {
	store := &fakeStore{}
	e := newTestExecutor(store)

	plan := model.ResponsePlan{
		{Step: 1, Action: model.ActionMonitor, Priority: model.PriorityLow, Parameters: map[string]any{}},
		{Step: 2, Action: model.ActionSaveEvidence, Priority: model.PriorityImmediate, Parameters: map[string]any{}},
		{Step: 3, Action: model.ActionLogIncident, Priority: model.PriorityHigh, Parameters: map[string]any{}},
	}
	e.ExecutePlan(context.Background(), plan, 1, "")

	if len(store.saved) != 3 {
		t.Fatalf("expected 3 records, got %d", len(store.saved))
	}
	wantOrder := []model.Action{model.ActionSaveEvidence, model.ActionLogIncident, model.ActionMonitor}
	for i, want := range wantOrder {
		if store.saved[i].Action != want {
			t.Fatalf("position %d = %q, want %q", i, store.saved[i].Action, want)
		}
	}
}

func TestExecutePlanStepBreaksPriorityTies(t *testing.T) {
	store := &fakeStore{}
	e := newTestExecutor(store)

	plan := model.ResponsePlan{
		{Step: 2, Action: model.ActionRecordVideo, Priority: model.PriorityHigh, Parameters: map[string]any{}},
		{Step: 1, Action: model.ActionCaptureSnapshot, Priority: model.PriorityHigh, Parameters: map[string]any{}},
	}
	e.ExecutePlan(context.Background(), plan, 1, "")

	if store.saved[0].Action != model.ActionCaptureSnapshot {
		t.Fatalf("step 1 must run before step 2 on equal priority, got %q first", store.saved[0].Action)
	}
}

func TestExecutePlanFailureIsolation(t *testing.T) {
	store := &fakeStore{failStatusFor: map[string]bool{model.StatusLogged: true}}
	e := newTestExecutor(store)

	plan := model.ResponsePlan{
		{Step: 1, Action: model.ActionSaveEvidence, Priority: model.PriorityImmediate, Parameters: map[string]any{}},
		{Step: 2, Action: model.ActionLogIncident, Priority: model.PriorityHigh, Parameters: map[string]any{}},
		{Step: 3, Action: model.ActionRecordVideo, Priority: model.PriorityMedium, Parameters: map[string]any{}},
	}
	e.ExecutePlan(context.Background(), plan, 1, "")

	if len(store.saved) != 3 {
		t.Fatalf("all 3 steps must be recorded, got %d", len(store.saved))
	}

	var failed, completed int
	for _, record := range store.saved {
		switch record.Status {
		case model.ExecutionFailed:
			failed++
			if record.Error == "" {
				t.Fatalf("failed record must carry the error message")
			}
		case model.ExecutionCompleted:
			completed++
		}
	}
	if failed != 1 || completed != 2 {
		t.Fatalf("want 1 failed / 2 completed, got %d / %d", failed, completed)
	}
}

func TestExecutePlanSkipsUnknownActions(t *testing.T) {
	store := &fakeStore{}
	e := newTestExecutor(store)

	plan := model.ResponsePlan{
		{Step: 1, Action: "self_destruct", Priority: model.PriorityImmediate, Parameters: map[string]any{}},
		{Step: 2, Action: model.ActionSaveEvidence, Priority: model.PriorityHigh, Parameters: map[string]any{}},
	}
	e.ExecutePlan(context.Background(), plan, 1, "")

	if len(store.saved) != 1 {
		t.Fatalf("unknown action must be skipped without a record, got %d records", len(store.saved))
	}
	if store.saved[0].Action != model.ActionSaveEvidence {
		t.Fatalf("surviving record = %q", store.saved[0].Action)
	}
}

func TestStatusSideEffects(t *testing.T) {
	store := &fakeStore{}
	e := newTestExecutor(store)

	plan := model.ResponsePlan{
		{Step: 1, Action: model.ActionLogIncident, Priority: model.PriorityHigh, Parameters: map[string]any{}},
		{Step: 2, Action: model.ActionMonitor, Priority: model.PriorityMedium, Parameters: map[string]any{}},
		{Step: 3, Action: model.ActionEscalate, Priority: model.PriorityLow, Parameters: map[string]any{}},
	}
	e.ExecutePlan(context.Background(), plan, 7, "")

	want := []string{model.StatusLogged, model.StatusMonitoring, model.StatusEscalated}
	if len(store.statusUpdates) != len(want) {
		t.Fatalf("status updates = %v, want %v", store.statusUpdates, want)
	}
	for i := range want {
		if store.statusUpdates[i] != want[i] {
			t.Fatalf("status updates = %v, want %v", store.statusUpdates, want)
		}
	}
}

func TestExecutionHistoryLimit(t *testing.T) {
	store := &fakeStore{}
	e := newTestExecutor(store)

	plan := model.ResponsePlan{
		{Step: 1, Action: model.ActionRecordVideo, Priority: model.PriorityMedium, Parameters: map[string]any{}},
		{Step: 2, Action: model.ActionCaptureSnapshot, Priority: model.PriorityMedium, Parameters: map[string]any{}},
		{Step: 3, Action: model.ActionSaveEvidence, Priority: model.PriorityMedium, Parameters: map[string]any{}},
	}
	e.ExecutePlan(context.Background(), plan, 1, "")

	history := e.ExecutionHistory(2)
	if len(history) != 2 {
		t.Fatalf("limit 2 must return 2 records, got %d", len(history))
	}
	if history[1].Action != model.ActionSaveEvidence {
		t.Fatalf("history must end with the most recent record, got %q", history[1].Action)
	}
}
