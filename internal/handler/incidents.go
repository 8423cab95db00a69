package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aegisai/backend/internal/model"
	"github.com/gin-gonic/gin"
)

// incidentService - 서비스 인터페이스
type incidentService interface {
	ListIncidents(ctx context.Context, filter model.IncidentFilter) ([]model.Incident, error)
	GetIncident(ctx context.Context, incidentID int64) (*model.Incident, error)
	UpdateStatus(ctx context.Context, incidentID int64, status string) bool
	Cleanup(ctx context.Context, days int) int64
	ActionsForIncident(ctx context.Context, incidentID int64) ([]model.ActionExecutionRecord, error)
}

// similaritySearcher - 유사 incident 검색 인터페이스 (nil 허용)
type similaritySearcher interface {
	SimilarIncidents(ctx context.Context, incidentID int64, limit int) ([]model.SimilarIncident, error)
}

// IncidentHandler - incident 조회/관리 핸들러
type IncidentHandler struct {
	svc         incidentService
	similar     similaritySearcher
	cleanupDays int
}

func NewIncidentHandler(svc incidentService, similar similaritySearcher, cleanupDays int) *IncidentHandler {
	if cleanupDays <= 0 {
		cleanupDays = 30
	}
	return &IncidentHandler{svc: svc, similar: similar, cleanupDays: cleanupDays}
}

// List godoc
// @Summary List recent incidents
// @Tags incidents
// @Produce json
// @Param limit query int false "Max rows (default 50)"
// @Param severity query string false "Filter by severity"
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by incident type"
// @Success 200 {array} model.Incident
// @Failure 500 {object} model.ErrorResponse
// @Router /api/incidents [get]
func (h *IncidentHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	filter := model.IncidentFilter{
		Limit:    limit,
		Severity: c.Query("severity"),
		Status:   c.Query("status"),
		Type:     c.Query("type"),
	}

	incidents, err := h.svc.ListIncidents(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, incidents)
}

// Get godoc
// @Summary Get an incident by ID
// @Tags incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} model.Incident
// @Failure 400,404,500 {object} model.ErrorResponse
// @Router /api/incidents/{id} [get]
func (h *IncidentHandler) Get(c *gin.Context) {
	id, ok := incidentIDParam(c)
	if !ok {
		return
	}

	incident, err := h.svc.GetIncident(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}
	if incident == nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "incident not found"})
		return
	}
	c.JSON(http.StatusOK, incident)
}

// UpdateStatus godoc
// @Summary Update incident status
// @Tags incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Incident ID"
// @Param request body model.UpdateStatusRequest true "New status"
// @Success 200 {object} model.UpdateStatusResponse
// @Failure 400,404 {object} model.ErrorResponse
// @Router /api/incidents/{id}/status [put]
func (h *IncidentHandler) UpdateStatus(c *gin.Context) {
	id, ok := incidentIDParam(c)
	if !ok {
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "status is required"})
		return
	}
	if !model.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid status: " + req.Status})
		return
	}

	if ok := h.svc.UpdateStatus(c.Request.Context(), id, req.Status); !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "incident not found"})
		return
	}
	c.JSON(http.StatusOK, model.UpdateStatusResponse{
		Success:    true,
		IncidentID: id,
		Status:     req.Status,
	})
}

// Cleanup godoc
// @Summary Delete incidents past retention
// @Tags incidents
// @Produce json
// @Security BearerAuth
// @Param days query int false "Retention days (default from config)"
// @Success 200 {object} model.CleanupResponse
// @Router /api/incidents/cleanup [post]
func (h *IncidentHandler) Cleanup(c *gin.Context) {
	days, err := strconv.Atoi(c.Query("days"))
	if err != nil || days <= 0 {
		days = h.cleanupDays
	}

	deleted := h.svc.Cleanup(c.Request.Context(), days)
	c.JSON(http.StatusOK, model.CleanupResponse{
		Success:      true,
		DeletedCount: deleted,
		Days:         days,
	})
}

// Actions godoc
// @Summary List executed actions for an incident
// @Tags incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {array} model.ActionExecutionRecord
// @Failure 400,500 {object} model.ErrorResponse
// @Router /api/incidents/{id}/actions [get]
func (h *IncidentHandler) Actions(c *gin.Context) {
	id, ok := incidentIDParam(c)
	if !ok {
		return
	}

	records, err := h.svc.ActionsForIncident(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

// Similar godoc
// @Summary Find similar past incidents
// @Description 임베딩 코사인 거리 기준으로 유사한 과거 incident를 조회합니다.
// @Tags incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Param limit query int false "Max rows (default 5)"
// @Success 200 {array} model.SimilarIncident
// @Failure 400,500,503 {object} model.ErrorResponse
// @Router /api/incidents/{id}/similar [get]
func (h *IncidentHandler) Similar(c *gin.Context) {
	if h.similar == nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "similarity search is not available"})
		return
	}

	id, ok := incidentIDParam(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	similar, err := h.similar.SimilarIncidents(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, similar)
}

func incidentIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid incident id"})
		return 0, false
	}
	return id, true
}
