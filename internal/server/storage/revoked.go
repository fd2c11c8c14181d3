package storage

import (
	"context"
	"time"
)

// RevocationStore tracks session token IDs invalidated by logout. Entries
// only need to live until the token's natural expiry.
type RevocationStore interface {
	// Revoke records a token ID as invalid until expiresAt.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error

	// IsRevoked reports whether the token ID has been revoked. Expired
	// entries count as not revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// DeleteExpired removes entries whose expiry has passed.
	// Returns the number of deleted entries.
	DeleteExpired(ctx context.Context) (int, error)
}
