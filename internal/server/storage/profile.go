package storage

import (
	"context"

	"github.com/skripsit/backend/internal/models"
)

// ProfileStorage defines the interface for encrypted profile persistence.
type ProfileStorage interface {
	// GetProfile retrieves the profile row for a user.
	// Returns ErrProfileNotFound if the profile was never completed.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)

	// CompleteProfile upserts the profile row and flips the parent
	// account status to verified in a single transaction. Returns
	// ErrUserNotFound if the account does not exist.
	CompleteProfile(ctx context.Context, profile *models.Profile) error
}
