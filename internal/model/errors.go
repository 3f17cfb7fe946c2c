package model

import "errors"

var (
	// ErrNotFound is returned when a requested user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when an email is already registered.
	ErrEmailTaken = errors.New("email already taken")
	// ErrInvalidCredentials is returned on any email/password mismatch
	// without revealing which field was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthorized is returned when an authenticated user lacks
	// administrative access.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrBootstrapFailed is returned when the admin account could not be
	// provisioned.
	ErrBootstrapFailed = errors.New("admin bootstrap failed")
	// ErrHashingFailed is returned on a password hashing fault.
	ErrHashingFailed = errors.New("password hashing failed")
	// ErrInternal is returned for unexpected collaborator faults.
	ErrInternal = errors.New("internal error")
)
