package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aegisai/backend/internal/model"
	"github.com/gin-gonic/gin"
)

type fakeIncidentService struct {
	incident     *model.Incident
	updateResult bool
}

func (f *fakeIncidentService) ListIncidents(ctx context.Context, filter model.IncidentFilter) ([]model.Incident, error) {
	return []model.Incident{}, nil
}

func (f *fakeIncidentService) GetIncident(ctx context.Context, incidentID int64) (*model.Incident, error) {
	return f.incident, nil
}

func (f *fakeIncidentService) UpdateStatus(ctx context.Context, incidentID int64, status string) bool {
	return f.updateResult
}

func (f *fakeIncidentService) Cleanup(ctx context.Context, days int) int64 { return 0 }

func (f *fakeIncidentService) ActionsForIncident(ctx context.Context, incidentID int64) ([]model.ActionExecutionRecord, error) {
	return []model.ActionExecutionRecord{}, nil
}

func newIncidentRouter(svc *fakeIncidentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewIncidentHandler(svc, nil, 30)
	r := gin.New()
	r.GET("/api/incidents/:id", h.Get)
	r.GET("/api/incidents/:id/similar", h.Similar)
	r.PUT("/api/incidents/:id/status", h.UpdateStatus)
	return r
}

func TestGetIncidentNotFound(t *testing.T) {
	r := newIncidentRouter(&fakeIncidentService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/incidents/99", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetIncidentInvalidID(t *testing.T) {
	r := newIncidentRouter(&fakeIncidentService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/incidents/abc", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	r := newIncidentRouter(&fakeIncidentService{updateResult: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/incidents/1/status", bytes.NewBufferString(`{"status": "archived"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	r := newIncidentRouter(&fakeIncidentService{updateResult: false})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/incidents/1/status", bytes.NewBufferString(`{"status": "resolved"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestUpdateStatusSuccess(t *testing.T) {
	r := newIncidentRouter(&fakeIncidentService{updateResult: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/incidents/1/status", bytes.NewBufferString(`{"status": "dismissed"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestSimilarUnavailableWithoutEmbeddings(t *testing.T) {
	r := newIncidentRouter(&fakeIncidentService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/incidents/1/similar", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
