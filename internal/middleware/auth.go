package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saglikasistani/backend/internal/token"
	"github.com/saglikasistani/backend/pkg/api"
	"github.com/saglikasistani/backend/pkg/model"
)

// Context keys set by Auth for downstream handlers.
const (
	ContextUserID   = "user_id"
	ContextUserType = "user_type"
)

// Auth validates the Bearer token and puts the caller's identity on the
// request context.
func Auth(tokens token.Maker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserType, claims.UserType)
		c.Next()
	}
}

// RegisteredOnly rejects guest accounts. It must run after Auth.
func RegisteredOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserType) == string(model.UserTypeGuest) {
			c.AbortWithStatusJSON(http.StatusForbidden, api.ErrorResponse{
				Code:    api.CodeUnauthorized,
				Message: "not available for guest accounts",
			})
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{
		Code:    api.CodeUnauthorized,
		Message: message,
	})
}
