package storage

import (
	"context"
	"time"

	"github.com/skripsit/backend/internal/models"
)

// UserStorage defines the interface for account persistence.
type UserStorage interface {
	// CreateUser creates a new account.
	// Returns ErrEmailTaken if the email is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves an account by normalized email.
	// Returns ErrUserNotFound if no account exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves an account by ID.
	// Returns ErrUserNotFound if no account exists.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// SetResetToken stores a password reset token and its expiry for the
	// account with the given email. Returns ErrUserNotFound if no account
	// exists.
	SetResetToken(ctx context.Context, email, token string, expiresAt time.Time) error

	// ListUsers returns all accounts newest first, with the has_profile
	// flag populated. Encrypted profile contents are never included.
	ListUsers(ctx context.Context) ([]*models.UserSummary, error)

	// GetUserSummary returns the admin-listing projection of one account.
	// Returns ErrUserNotFound if no account exists.
	GetUserSummary(ctx context.Context, userID string) (*models.UserSummary, error)
}
