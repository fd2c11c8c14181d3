package sqlite

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/skripsit/backend/internal/models"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)

	return s, func() {
		require.NoError(t, s.Close())
	}
}

func newTestUser(t *testing.T, email string) *models.User {
	t.Helper()

	now := time.Now()
	return &models.User{
		ID:           uuid.New().String(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: hex.EncodeToString(make([]byte, 16)),
		PasswordSalt: hex.EncodeToString(make([]byte, 16)),
		Role:         models.RoleUser,
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
