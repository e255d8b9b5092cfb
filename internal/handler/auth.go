package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saglikasistani/backend/internal/service"
	"github.com/saglikasistani/backend/pkg/api"
)

// AuthHandler serves the account endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req api.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.auth.Signup(c.Request.Context(), req.Name, req.Email, req.Password, req.Language)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse(result))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse(result))
}

func (h *AuthHandler) SocialLogin(c *gin.Context) {
	var req api.SocialLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.auth.SocialLogin(c.Request.Context(), req.Provider, req.SubjectID, req.Email, req.Name, c.GetHeader("Accept-Language"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse(result))
}

func (h *AuthHandler) GuestLogin(c *gin.Context) {
	var req api.GuestLoginRequest
	// Body is optional for guest entry.
	_ = c.ShouldBindJSON(&req)

	result, err := h.auth.GuestLogin(c.Request.Context(), req.Language)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse(result))
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req api.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.OKResponse{Success: true})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req api.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.OKResponse{Success: true})
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID := currentUserID(c)

	err := h.auth.DeleteAccount(c.Request.Context(), userID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.OKResponse{Success: true})
}

func authResponse(result *service.AuthResult) api.AuthResponse {
	return api.AuthResponse{
		Success:  true,
		Token:    result.Token,
		UserID:   result.User.ID,
		UserName: result.User.Name,
		UserType: string(result.User.Type),
	}
}
