package handler

import (
	"net/http"

	"github.com/aegisai/backend/internal/model"
	"github.com/aegisai/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login godoc
// @Summary Operator login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Login ID and password"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	token, expiresIn, err := h.svc.Login(req.LoginID, req.Password)
	if err != nil {
		switch err {
		case service.ErrUnauthorized:
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "unauthorized"})
		default:
			c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
		}
		return
	}

	c.JSON(http.StatusOK, model.LoginResponse{
		AccessToken: token,
		ExpiresIn:   expiresIn,
	})
}
