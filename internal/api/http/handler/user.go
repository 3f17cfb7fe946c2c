package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/identops/identity-server/internal/logger"
	"github.com/identops/identity-server/internal/model"
	"github.com/identops/identity-server/internal/service"
)

// UsersService defines account administration operations.
type UsersService interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id uuid.UUID) (model.User, error)
	Update(ctx context.Context, id uuid.UUID, patch model.UserPatch) (model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetProfileImage(ctx context.Context, id uuid.UUID, filename string, reader io.Reader) (model.User, error)
}

// AdminRegistrationService defines account creation on behalf of an
// administrator.
type AdminRegistrationService interface {
	RegisterByAdmin(ctx context.Context, params service.RegisterParams) (model.User, string, error)
}

// User handles admin-gated HTTP endpoints for account administration.
type User struct {
	users        UsersService
	registration AdminRegistrationService
	logger       *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(users UsersService, registration AdminRegistrationService, logger *logger.Logger) *User {
	return &User{
		users:        users,
		registration: registration,
		logger:       logger,
	}
}

type userResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toUserResponse(user model.User) userResponse {
	return userResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// List returns all registered accounts.
func (h *User) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logger.Error("User handler: list failed",
			"error", err.Error())
		handleError(c, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toUserResponse(user))
	}

	c.JSON(http.StatusOK, gin.H{"users": resp})
}

// Create registers an account on behalf of the administrator and emails
// the credentials to the new user.
func (h *User) Create(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, token, err := h.registration.RegisterByAdmin(c.Request.Context(), service.RegisterParams{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		h.logger.Error("User handler: create failed",
			"email", req.Email,
			"error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("User handler: user created",
		"user_id", user.ID)

	c.JSON(http.StatusCreated, registerResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

type updateRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email" binding:"omitempty,email"`
	ProfileImage *string `json:"profile_image"`
}

// Update applies a partial update to an account.
func (h *User) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, model.UserPatch{
		Name:         req.Name,
		Email:        req.Email,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		h.logger.Error("User handler: update failed",
			"user_id", id,
			"error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// Delete removes an account.
func (h *User) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("User handler: delete failed",
			"user_id", id,
			"error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

// UploadAvatar stores a profile image for an account.
func (h *User) UploadAvatar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing avatar file"})
		return
	}
	defer file.Close()

	user, err := h.users.SetProfileImage(c.Request.Context(), id, header.Filename, file)
	if err != nil {
		h.logger.Error("User handler: avatar upload failed",
			"user_id", id,
			"error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}
