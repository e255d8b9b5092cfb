// Package handler holds the gin handlers for the HTTP surface.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saglikasistani/backend/internal/middleware"
	"github.com/saglikasistani/backend/internal/repository"
	"github.com/saglikasistani/backend/internal/service"
	"github.com/saglikasistani/backend/pkg/api"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, api.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func respondValidationError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, api.CodeValidationError, err.Error())
}

// respondServiceError maps the service layer's sentinel errors onto
// HTTP statuses. Anything unmapped is an internal error and the
// underlying message stays out of the response.
func respondServiceError(c *gin.Context, err error) {
	switch err {
	case repository.ErrNotFound:
		respondError(c, http.StatusNotFound, api.CodeNotFound, "resource not found")
	case service.ErrInvalidLogin:
		respondError(c, http.StatusUnauthorized, api.CodeUnauthorized, "invalid email or password")
	case service.ErrEmailTaken:
		respondError(c, http.StatusConflict, api.CodeValidationError, "email already registered")
	case service.ErrGuestForbidden:
		respondError(c, http.StatusForbidden, api.CodeUnauthorized, "not available for guest accounts")
	case service.ErrMessageLimitReached:
		respondError(c, http.StatusTooManyRequests, api.CodeLimitReached, "daily message limit reached")
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, api.CodeInternalError, "internal server error")
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}
