package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aegisai/backend/internal/model"
	"github.com/gin-gonic/gin"
)

// statsService - 통계 서비스 인터페이스
type statsService interface {
	Statistics(ctx context.Context) (model.SystemStats, error)
	HourlyTrend(ctx context.Context, hours int) ([]model.HourlyTrend, error)
}

// agentStatsProvider - 에이전트 성능 지표 인터페이스
type agentStatsProvider interface {
	Stats() model.AgentStats
}

// StatsHandler - 시스템/에이전트 통계 핸들러
type StatsHandler struct {
	svc     statsService
	vision  agentStatsProvider
	planner agentStatsProvider
}

func NewStatsHandler(svc statsService, vision, planner agentStatsProvider) *StatsHandler {
	return &StatsHandler{svc: svc, vision: vision, planner: planner}
}

// Stats godoc
// @Summary System statistics
// @Tags stats
// @Produce json
// @Success 200 {object} model.StatsResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/stats [get]
func (h *StatsHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Statistics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, model.StatsResponse{
		SystemStats:  stats,
		SystemStatus: "operational",
	})
}

// Trend godoc
// @Summary Hourly incident trend
// @Tags stats
// @Produce json
// @Param hours query int false "Window in hours (default 24, max 168)"
// @Success 200 {array} model.HourlyTrend
// @Failure 500 {object} model.ErrorResponse
// @Router /api/stats/trend [get]
func (h *StatsHandler) Trend(c *gin.Context) {
	hours, _ := strconv.Atoi(c.Query("hours"))

	trend, err := h.svc.HourlyTrend(c.Request.Context(), hours)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, trend)
}

// AgentStats godoc
// @Summary Agent performance metrics
// @Tags stats
// @Produce json
// @Success 200 {object} model.AgentStatsResponse
// @Router /api/agents/stats [get]
func (h *StatsHandler) AgentStats(c *gin.Context) {
	c.JSON(http.StatusOK, model.AgentStatsResponse{
		VisionAgent:  h.vision.Stats(),
		PlannerAgent: h.planner.Stats(),
	})
}
