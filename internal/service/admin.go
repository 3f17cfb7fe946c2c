package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/identops/identity-server/internal/logger"
	"github.com/identops/identity-server/internal/model"
)

const (
	adminName   = "admin"
	adminAvatar = "/static/avatars/admin.png"
)

// Admin handles the self-provisioning administrator account: idempotent
// bootstrap, login, and the authorization guard for admin-only operations.
// The administrator is a single configured identity recognized by email.
type Admin struct {
	users         model.UserStore
	hasher        model.Hasher
	tokens        model.TokenIssuer
	adminEmail    string
	adminPassword string
	logger        *logger.Logger
}

// NewAdmin constructs an Admin service bound to the configured
// administrator email and bootstrap password.
func NewAdmin(
	users model.UserStore,
	hasher model.Hasher,
	tokens model.TokenIssuer,
	adminEmail string,
	adminPassword string,
	logger *logger.Logger,
) *Admin {
	return &Admin{
		users:         users,
		hasher:        hasher,
		tokens:        tokens,
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
		logger:        logger,
	}
}

// Login provisions the administrator account if it does not exist yet,
// verifies the presented credentials, and mints a one-hour admin session
// token keyed by the presented password. Wrong email and wrong password
// both fail with ErrInvalidCredentials.
func (a *Admin) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	admin, err := a.ensureAdmin(ctx)
	if err != nil {
		return "", time.Time{}, err
	}

	if email != admin.Email {
		a.logger.Info("Admin service: login with unknown email")
		return "", time.Time{}, model.ErrInvalidCredentials
	}

	if !a.hasher.Verify(password, admin.PasswordHash) {
		a.logger.Info("Admin service: login with wrong password",
			"user_id", admin.ID)
		return "", time.Time{}, model.ErrInvalidCredentials
	}

	tokenString, expiresAt, err := a.tokens.IssueAdminSession(admin.ID, password)
	if err != nil {
		a.logger.Error("Admin service: failed to issue admin session token",
			"user_id", admin.ID,
			"error", err.Error())
		return "", time.Time{}, fmt.Errorf("%w: failed to issue admin session token: %w", model.ErrInternal, err)
	}

	a.logger.Info("Admin service: login completed",
		"user_id", admin.ID)

	return tokenString, expiresAt, nil
}

// Authorize resolves a standard bearer token and requires that it belongs
// to the administrator account. A token of any other account fails with
// ErrNotAuthorized.
func (a *Admin) Authorize(ctx context.Context, tokenString string) (uuid.UUID, error) {
	userID, err := a.tokens.Parse(tokenString)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", model.ErrInvalidCredentials, err)
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return uuid.Nil, model.ErrNotAuthorized
		}
		a.logger.Error("Admin service: failed to get user by id",
			"user_id", userID,
			"error", err.Error())
		return uuid.Nil, fmt.Errorf("%w: failed to get user by id: %w", model.ErrInternal, err)
	}

	if !a.isAdmin(user) {
		a.logger.Info("Admin service: non-admin token rejected",
			"user_id", user.ID)
		return uuid.Nil, model.ErrNotAuthorized
	}

	return user.ID, nil
}

// ensureAdmin creates the administrator account on first use. Repeated
// calls create nothing. A concurrent bootstrap losing the insert race
// resolves by re-reading the winner's row.
func (a *Admin) ensureAdmin(ctx context.Context) (model.User, error) {
	admin, err := a.users.GetByEmail(ctx, a.adminEmail)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Admin service: failed to get admin account",
			"error", err.Error())
		return model.User{}, fmt.Errorf("%w: failed to get admin account: %w", model.ErrBootstrapFailed, err)
	}

	passwordHash, err := a.hasher.Hash(a.adminPassword)
	if err != nil {
		a.logger.Error("Admin service: failed to hash bootstrap password",
			"error", err.Error())
		return model.User{}, fmt.Errorf("%w: %w", model.ErrBootstrapFailed, err)
	}

	now := time.Now()
	created, err := a.users.Create(ctx, model.User{
		ID:           uuid.New(),
		Name:         adminName,
		Email:        a.adminEmail,
		ProfileImage: adminAvatar,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return a.rereadAdmin(ctx)
		}
		a.logger.Error("Admin service: failed to create admin account",
			"error", err.Error())
		return model.User{}, fmt.Errorf("%w: failed to create admin account: %w", model.ErrBootstrapFailed, err)
	}

	a.logger.Info("Admin service: admin account provisioned",
		"user_id", created.ID)

	return created, nil
}

func (a *Admin) rereadAdmin(ctx context.Context) (model.User, error) {
	admin, err := a.users.GetByEmail(ctx, a.adminEmail)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: failed to get admin account after conflict: %w", model.ErrBootstrapFailed, err)
	}
	return admin, nil
}

func (a *Admin) isAdmin(user model.User) bool {
	return user.Email == a.adminEmail
}
