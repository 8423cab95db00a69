package handler

import (
	"context"
	"net/http"

	"github.com/aegisai/backend/internal/model"
	"github.com/gin-gonic/gin"
)

// analysisService - 파이프라인 서비스 인터페이스
type analysisService interface {
	Analyze(ctx context.Context, req model.AnalyzeRequest) model.AnalyzeResponse
}

// AnalyzeHandler - 프레임 분석 엔드포인트
type AnalyzeHandler struct {
	svc analysisService
}

func NewAnalyzeHandler(svc analysisService) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc}
}

// Analyze godoc
// @Summary Analyze a camera frame
// @Description base64 이미지 1장을 판정하고, incident면 대응 파이프라인까지 실행합니다.
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body model.AnalyzeRequest true "Frame payload"
// @Success 200 {object} model.AnalyzeResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /api/analyze [post]
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req model.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "image is required"})
		return
	}

	resp := h.svc.Analyze(c.Request.Context(), req)
	c.JSON(http.StatusOK, resp)
}
