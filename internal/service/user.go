package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/identops/identity-server/internal/logger"
	"github.com/identops/identity-server/internal/model"
)

// Users handles administration of registered accounts: listing, partial
// updates, deletion, and profile image management.
type Users struct {
	users   model.UserStore
	storage model.Storage
	logger  *logger.Logger
}

// NewUsers constructs a Users service.
func NewUsers(users model.UserStore, storage model.Storage, logger *logger.Logger) *Users {
	return &Users{
		users:   users,
		storage: storage,
		logger:  logger,
	}
}

// List returns all registered accounts.
func (u *Users) List(ctx context.Context) ([]model.User, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		u.logger.Error("Users service: failed to list users",
			"error", err.Error())
		return nil, fmt.Errorf("%w: failed to list users: %w", model.ErrInternal, err)
	}
	return users, nil
}

// Get returns a single account by id.
func (u *Users) Get(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := u.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		u.logger.Error("Users service: failed to get user",
			"user_id", id,
			"error", err.Error())
		return model.User{}, fmt.Errorf("%w: failed to get user: %w", model.ErrInternal, err)
	}
	return user, nil
}

// Update applies a partial update. Changing the email re-checks uniqueness
// through the store's constraint and reports a conflict as ErrEmailTaken.
func (u *Users) Update(ctx context.Context, id uuid.UUID, patch model.UserPatch) (model.User, error) {
	user, err := u.users.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrEmailTaken) {
			return model.User{}, err
		}
		u.logger.Error("Users service: failed to update user",
			"user_id", id,
			"error", err.Error())
		return model.User{}, fmt.Errorf("%w: failed to update user: %w", model.ErrInternal, err)
	}

	u.logger.Info("Users service: user updated",
		"user_id", id)

	return user, nil
}

// Delete removes an account and best-effort deletes its stored profile
// image. A missing account fails with ErrNotFound; a failed image cleanup
// is only logged.
func (u *Users) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := u.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("%w: failed to get user: %w", model.ErrInternal, err)
	}

	if err := u.users.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		u.logger.Error("Users service: failed to delete user",
			"user_id", id,
			"error", err.Error())
		return fmt.Errorf("%w: failed to delete user: %w", model.ErrInternal, err)
	}

	if key := user.ProfileImage; isStoredAvatar(key) {
		if err := u.storage.Delete(ctx, key); err != nil {
			u.logger.Error("Users service: failed to delete profile image",
				"user_id", id,
				"key", key,
				"error", err.Error())
		}
	}

	u.logger.Info("Users service: user deleted",
		"user_id", id)

	return nil
}

// SetProfileImage uploads an avatar to object storage and points the
// account's profile image at the stored object.
func (u *Users) SetProfileImage(ctx context.Context, id uuid.UUID, filename string, reader io.Reader) (model.User, error) {
	if _, err := u.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("%w: failed to get user: %w", model.ErrInternal, err)
	}

	key := avatarKey(id, filename)
	if err := u.storage.Upload(ctx, key, reader); err != nil {
		u.logger.Error("Users service: failed to upload profile image",
			"user_id", id,
			"key", key,
			"error", err.Error())
		return model.User{}, fmt.Errorf("%w: failed to upload profile image: %w", model.ErrInternal, err)
	}

	user, err := u.Update(ctx, id, model.UserPatch{ProfileImage: &key})
	if err != nil {
		return model.User{}, err
	}

	u.logger.Info("Users service: profile image updated",
		"user_id", id,
		"key", key)

	return user, nil
}

func avatarKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("avatars/%s%s", id, path.Ext(filename))
}

// isStoredAvatar distinguishes object storage keys from externally hosted
// profile image URIs, which are left alone on delete.
func isStoredAvatar(key string) bool {
	return strings.HasPrefix(key, "avatars/")
}
