package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/identops/identity-server/internal/logger"
	"github.com/identops/identity-server/internal/model"
)

// AdminService verifies that a bearer token belongs to the administrator.
type AdminService interface {
	Authorize(ctx context.Context, token string) (uuid.UUID, error)
}

// Authorize gates admin-only routes. It resolves the Authorization header,
// checks the token against the admin guard, and injects the user ID into
// the request context.
type Authorize struct {
	adminService   AdminService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthorize creates a new Authorize middleware instance.
func NewAuthorize(adminService AdminService, contextManager model.ContextManager, logger *logger.Logger) *Authorize {
	return &Authorize{adminService: adminService, contextManager: contextManager, logger: logger}
}

// Handle enforces the admin guard before the route handler runs.
func (m *Authorize) Handle(c *gin.Context) {
	tokenString := bearerToken(c.GetHeader("Authorization"))
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
		return
	}

	userID, err := m.adminService.Authorize(c.Request.Context(), tokenString)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidCredentials):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization token"})
		case errors.Is(err, model.ErrNotAuthorized):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		default:
			m.logger.Error("Authorize middleware: guard check failed",
				"error", err.Error())
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	ctx := m.contextManager.SetUserIDToContext(c.Request.Context(), userID)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
