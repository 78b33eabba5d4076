package handler

import (
	"net/http"

	"lenormand-api/internal/adapter/http/dto"
	"lenormand-api/internal/adapter/http/middleware"
	"lenormand-api/internal/core/domain"
	"lenormand-api/internal/core/ports"
	"lenormand-api/pkg/apperror"
	"lenormand-api/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication and profile endpoints.
type AuthHandler struct {
	authSvc ports.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc ports.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// SendCode handles POST /api/auth/send-code.
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req dto.SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.authSvc.SendCode(c.Request.Context(), req.Phone)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SendCodeResponse{
		Message:  "Verification code sent",
		DemoCode: result.DemoCode,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.authSvc.Login(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LoginResponse{
		User:    result.User,
		Token:   result.Token,
		Message: "Login successful",
	})
}

// Me handles GET /api/auth/me. The auth middleware already loaded the user.
func (h *AuthHandler) Me(c *gin.Context) {
	user := c.MustGet(middleware.CtxUserKey).(*domain.User)
	response.OK(c, gin.H{"user": user})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.MustGet(middleware.CtxSessionToken).(string)
	if err := h.authSvc.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Logged out")
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	userID := currentUserID(c)
	user, err := h.authSvc.UpdateProfile(c.Request.Context(), userID, ports.ProfileUpdate{
		Username: req.Username,
		Avatar:   req.Avatar,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.UpdateProfileResponse{
		User:    user,
		Message: "Profile updated",
	})
}

// HealthCheck handles GET /api/health — deep health check verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		message := "All systems operational"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			message = "One or more dependencies are unavailable"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"message":      message,
			"dependencies": deps,
		})
	}
}
