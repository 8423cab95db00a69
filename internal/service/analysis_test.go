package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/aegisai/backend/internal/config"
	"github.com/aegisai/backend/internal/model"
)

type fakeVision struct {
	assessment model.Assessment
}

func (f *fakeVision) Process(ctx context.Context, base64Image string, frameNumber int) model.Assessment {
	return f.assessment
}

type fakePlanner struct {
	plan model.ResponsePlan
}

func (f *fakePlanner) Plan(ctx context.Context, assessment model.Assessment) model.ResponsePlan {
	return f.plan
}

type fakeExecutor struct {
	calls int
	plan  model.ResponsePlan
}

func (f *fakeExecutor) ExecutePlan(ctx context.Context, plan model.ResponsePlan, incidentID int64, evidencePath string) {
	f.calls++
	f.plan = plan
}

type fakeAnalysisRepo struct {
	saved      *model.Incident
	saveResult int64
	metadata   int
}

func (f *fakeAnalysisRepo) SaveIncident(ctx context.Context, incident *model.Incident) int64 {
	f.saved = incident
	return f.saveResult
}

func (f *fakeAnalysisRepo) SaveEvidenceMetadata(ctx context.Context, incidentID int64, filePath, fileType string, fileSize int64) error {
	f.metadata++
	return nil
}

var frame = base64.StdEncoding.EncodeToString([]byte("jpeg"))

func newTestPipeline(t *testing.T, assessment model.Assessment, saveResult int64) (*AnalysisService, *fakeAnalysisRepo, *fakeExecutor) {
	t.Helper()
	repo := &fakeAnalysisRepo{saveResult: saveResult}
	exec := &fakeExecutor{}
	svc := NewAnalysisService(
		&fakeVision{assessment: assessment},
		&fakePlanner{plan: model.ResponsePlan{{Step: 1, Action: model.ActionLogIncident, Priority: model.PriorityHigh, Parameters: map[string]any{}}}},
		exec,
		repo,
		nil,
		nil,
		config.StorageConfig{EvidenceDir: t.TempDir()},
	)
	return svc, repo, exec
}

func TestAnalyzeNormalFrameSkipsPipeline(t *testing.T) {
	svc, repo, exec := newTestPipeline(t, model.Assessment{
		Incident: false, Type: "normal", Severity: "low", Confidence: 90,
	}, 1)

	resp := svc.Analyze(context.Background(), model.AnalyzeRequest{Image: frame, FrameNumber: 1})

	if resp.IncidentID != 0 {
		t.Fatalf("non-incident must not produce an incident id")
	}
	if repo.saved != nil || exec.calls != 0 {
		t.Fatalf("non-incident must not persist or execute anything")
	}
}

func TestAnalyzeIncidentRunsFullPipeline(t *testing.T) {
	svc, repo, exec := newTestPipeline(t, model.Assessment{
		Incident: true, Type: "intrusion", Severity: "high", Confidence: 85,
		Reasoning: "person climbing fence", Subjects: []string{"person"},
		RecommendedActions: []string{"send_alert"},
	}, 42)

	resp := svc.Analyze(context.Background(), model.AnalyzeRequest{Image: frame, FrameNumber: 3})

	if resp.IncidentID != 42 {
		t.Fatalf("incident id = %d, want 42", resp.IncidentID)
	}
	if repo.saved == nil {
		t.Fatalf("incident must be persisted")
	}
	if repo.saved.Status != model.StatusActive {
		t.Fatalf("new incident status = %q, want active", repo.saved.Status)
	}
	if repo.saved.EvidencePath == "" {
		t.Fatalf("evidence path must be recorded on the incident")
	}
	if len(repo.saved.ResponsePlan) == 0 {
		t.Fatalf("response plan must be persisted with the incident")
	}
	if exec.calls != 1 {
		t.Fatalf("plan must be executed exactly once, got %d", exec.calls)
	}
	if repo.metadata != 1 {
		t.Fatalf("evidence metadata must be recorded once, got %d", repo.metadata)
	}
}

func TestAnalyzeSkipsExecutionWhenSaveFails(t *testing.T) {
	svc, _, exec := newTestPipeline(t, model.Assessment{
		Incident: true, Type: "theft", Severity: "high", Confidence: 80,
	}, -1)

	resp := svc.Analyze(context.Background(), model.AnalyzeRequest{Image: frame, FrameNumber: 1})

	if resp.IncidentID != 0 {
		t.Fatalf("failed save must not report an incident id")
	}
	if !resp.Incident {
		t.Fatalf("assessment must still be returned unchanged")
	}
	if exec.calls != 0 {
		t.Fatalf("execution must be skipped without an incident id")
	}
}

func TestAnalyzeToleratesBadEvidence(t *testing.T) {
	svc, repo, exec := newTestPipeline(t, model.Assessment{
		Incident: true, Type: "intrusion", Severity: "high", Confidence: 85,
	}, 7)

	resp := svc.Analyze(context.Background(), model.AnalyzeRequest{Image: "%%%not-base64%%%", FrameNumber: 1})

	if resp.IncidentID != 7 {
		t.Fatalf("evidence failure must not stop the pipeline, id = %d", resp.IncidentID)
	}
	if repo.saved.EvidencePath != "" {
		t.Fatalf("evidence path must be empty when saving failed")
	}
	if exec.calls != 1 {
		t.Fatalf("plan must still execute")
	}
}
