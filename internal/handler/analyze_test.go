package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aegisai/backend/internal/model"
	"github.com/gin-gonic/gin"
)

type fakeAnalysisService struct {
	resp model.AnalyzeResponse
}

func (f *fakeAnalysisService) Analyze(ctx context.Context, req model.AnalyzeRequest) model.AnalyzeResponse {
	return f.resp
}

func TestAnalyzeRequiresImage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/analyze", NewAnalyzeHandler(&fakeAnalysisService{}).Analyze)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(`{"frame_number": 1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAnalyzeReturnsAssessment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeAnalysisService{resp: model.AnalyzeResponse{
		Assessment: model.Assessment{
			Incident: true, Type: "intrusion", Severity: "high", Confidence: 85,
			Reasoning: "person climbing fence", Subjects: []string{"person"}, RecommendedActions: []string{},
		},
		IncidentID: 42,
	}}

	r := gin.New()
	r.POST("/api/analyze", NewAnalyzeHandler(svc).Analyze)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(`{"image": "aGVsbG8=", "frame_number": 3}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp model.AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.IncidentID != 42 || resp.Type != "intrusion" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
