package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, id uuid.UUID, patch UserPatch) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]User, error)
}

// User represents a registered account with its stored credential hash.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	ProfileImage string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// UserPatch describes a partial update of a user. Nil fields are left
// unchanged.
type UserPatch struct {
	Name         *string
	Email        *string
	ProfileImage *string
}
