package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/aegisai/backend/internal/model"
	"github.com/gin-gonic/gin"
)

// dbPinger - 헬스체크용 DB 연결 확인 인터페이스
type dbPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler - liveness / readiness 엔드포인트
type HealthHandler struct {
	db          dbPinger
	visionReady bool
	version     string
}

func NewHealthHandler(db dbPinger, visionReady bool, version string) *HealthHandler {
	return &HealthHandler{db: db, visionReady: visionReady, version: version}
}

// Ping godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} model.PingResponse
// @Router /ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{Message: "pong"})
}

// Root godoc
// @Summary Service info
// @Tags health
// @Produce json
// @Success 200 {object} model.RootResponse
// @Router / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.RootResponse{
		Name:    "AegisAI Security Backend",
		Version: h.version,
		Status:  "operational",
	})
}

// Health godoc
// @Summary Component health check
// @Tags health
// @Produce json
// @Success 200 {object} model.HealthResponse
// @Router /api/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	components := map[string]string{}
	status := "healthy"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if h.db == nil {
		components["database"] = "unavailable"
		status = "degraded"
	} else if err := h.db.Ping(ctx); err != nil {
		components["database"] = "unhealthy"
		status = "degraded"
	} else {
		components["database"] = "healthy"
	}

	if h.visionReady {
		components["vision_agent"] = "healthy"
	} else {
		components["vision_agent"] = "unavailable"
		status = "degraded"
	}

	c.JSON(http.StatusOK, model.HealthResponse{
		Status:     status,
		Components: components,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}
