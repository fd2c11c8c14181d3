package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that the account was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates that an account with this email already
	// exists. Uniqueness is enforced by the datastore index, not by
	// application-level checks, so concurrent registrations cannot both
	// succeed.
	ErrEmailTaken = errors.New("email already registered")

	// ErrProfileNotFound indicates that no profile row exists for the user
	ErrProfileNotFound = errors.New("profile not found")
)
