package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skripsit/backend/internal/models"
	"github.com/skripsit/backend/internal/server/storage"
)

func testProfile(userID string) *models.Profile {
	return &models.Profile{
		UserID:            userID,
		EncryptedFullName: "11:22:33",
		EncryptedNIK:      "44:55:66",
		EncryptedPhone:    "77:88:99",
		EncryptedAddress:  "aa:bb:cc",
	}
}

func TestProfileStorage_CompleteAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := newTestUser(t, "alice@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	require.NoError(t, s.CompleteProfile(ctx, testProfile(user.ID)))

	got, err := s.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "11:22:33", got.EncryptedFullName)
	assert.Equal(t, "44:55:66", got.EncryptedNIK)
	assert.True(t, got.IsVerified)

	// Account status flips in the same transaction.
	account, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, account.Status)
}

func TestProfileStorage_UpsertReplacesFields(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := newTestUser(t, "alice@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	require.NoError(t, s.CompleteProfile(ctx, testProfile(user.ID)))

	updated := testProfile(user.ID)
	updated.EncryptedPhone = "de:ad:be"
	require.NoError(t, s.CompleteProfile(ctx, updated))

	got, err := s.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "de:ad:be", got.EncryptedPhone)

	// Still exactly one row.
	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.True(t, users[0].HasProfile)
}

func TestProfileStorage_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := newTestUser(t, "alice@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	_, err := s.GetProfile(ctx, user.ID)
	assert.ErrorIs(t, err, storage.ErrProfileNotFound)
}

func TestProfileStorage_UnknownUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	err := s.CompleteProfile(ctx, testProfile("no-such-user"))
	assert.Error(t, err)
}
