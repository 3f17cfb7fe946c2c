package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/identops/identity-server/internal/logger"
	"github.com/identops/identity-server/internal/model"
	"github.com/identops/identity-server/internal/service"
)

// RegistrationService defines account creation operations.
type RegistrationService interface {
	Register(ctx context.Context, params service.RegisterParams) (model.User, string, error)
}

// AdminAuthService defines the administrator login operation.
type AdminAuthService interface {
	Login(ctx context.Context, email, password string) (string, time.Time, error)
}

// Auth handles HTTP endpoints for registration and admin login.
type Auth struct {
	registration RegistrationService
	admin        AdminAuthService
	logger       *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(registration RegistrationService, admin AdminAuthService, logger *logger.Logger) *Auth {
	return &Auth{
		registration: registration,
		admin:        admin,
		logger:       logger,
	}
}

type registerRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	ProfileImage string `json:"profile_image"`
}

type registerResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Register creates an account and returns its bearer token.
func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.logger.Debug("Auth handler: processing registration request",
		"email", req.Email)

	user, token, err := h.registration.Register(c.Request.Context(), service.RegisterParams{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		h.logger.Error("Auth handler: registration failed",
			"email", req.Email,
			"error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("Auth handler: registration completed",
		"user_id", user.ID)

	c.JSON(http.StatusCreated, registerResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type adminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminLogin authenticates the administrator and returns a one-hour
// session token.
func (h *Auth) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, expiresAt, err := h.admin.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("Auth handler: admin login failed")
		handleError(c, err)
		return
	}

	h.logger.Info("Auth handler: admin login completed")

	c.JSON(http.StatusOK, adminLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
