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

// RegisterParams carries the registration request fields.
type RegisterParams struct {
	Name         string
	Email        string
	Password     string
	ProfileImage string
}

// Registration handles account creation and the credential notification
// sent when an administrator registers a user.
type Registration struct {
	users    model.UserStore
	hasher   model.Hasher
	tokens   model.TokenIssuer
	notifier model.Notifier
	logger   *logger.Logger
}

// NewRegistration constructs a Registration service.
func NewRegistration(
	users model.UserStore,
	hasher model.Hasher,
	tokens model.TokenIssuer,
	notifier model.Notifier,
	logger *logger.Logger,
) *Registration {
	return &Registration{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
	}
}

// Register creates an account for a fresh email and mints a standard token
// whose claims resolve to the new account. A taken email fails with
// ErrEmailTaken and performs no write. The existence check and the insert
// are not atomic: the store's uniqueness constraint backstops concurrent
// registrations, and its conflict error is reported as ErrEmailTaken too.
func (r *Registration) Register(ctx context.Context, params RegisterParams) (model.User, string, error) {
	r.logger.Debug("Registration service: starting registration",
		"email", params.Email)

	_, err := r.users.GetByEmail(ctx, params.Email)
	if err == nil {
		r.logger.Info("Registration service: email already registered",
			"email", params.Email)
		return model.User{}, "", model.ErrEmailTaken
	}
	if !errors.Is(err, model.ErrNotFound) {
		r.logger.Error("Registration service: failed to get user by email",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, "", fmt.Errorf("%w: failed to get user by email: %w", model.ErrInternal, err)
	}

	passwordHash, err := r.hasher.Hash(params.Password)
	if err != nil {
		r.logger.Error("Registration service: failed to hash password",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, "", err
	}

	now := time.Now()
	user := model.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		ProfileImage: params.ProfileImage,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := r.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return model.User{}, "", model.ErrEmailTaken
		}
		r.logger.Error("Registration service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, "", fmt.Errorf("%w: failed to create user: %w", model.ErrInternal, err)
	}

	tokenString, err := r.tokens.IssueStandard(saved.ID)
	if err != nil {
		r.logger.Error("Registration service: failed to issue token",
			"user_id", saved.ID,
			"error", err.Error())
		return model.User{}, "", fmt.Errorf("%w: failed to issue token: %w", model.ErrInternal, err)
	}

	r.logger.Info("Registration service: registration completed",
		"user_id", saved.ID,
		"email", saved.Email)

	return saved, tokenString, nil
}

// RegisterByAdmin creates an account on behalf of an administrator and
// emails the credentials to the new user. The response does not wait for
// delivery: the account is committed first and a failed send is only
// logged.
func (r *Registration) RegisterByAdmin(ctx context.Context, params RegisterParams) (model.User, string, error) {
	user, tokenString, err := r.Register(ctx, params)
	if err != nil {
		return model.User{}, "", err
	}

	notifyCtx := context.WithoutCancel(ctx)
	go r.notifyCredentials(notifyCtx, user, params.Password)

	return user, tokenString, nil
}

func (r *Registration) notifyCredentials(ctx context.Context, user model.User, password string) {
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>An account has been created for you.</p><p>Email: %s<br>Password: %s</p><p>Please sign in and change your password.</p>",
		user.Name, user.Email, password,
	)

	if err := r.notifier.Send(ctx, user.Email, "Your account credentials", body); err != nil {
		r.logger.Error("Registration service: failed to send credential notification",
			"user_id", user.ID,
			"email", user.Email,
			"error", err.Error())
		return
	}

	r.logger.Info("Registration service: credential notification sent",
		"user_id", user.ID,
		"email", user.Email)
}
