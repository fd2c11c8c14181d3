package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(context.Background(), filepath.Join(t.TempDir(), "revoked.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func TestStore_RevokeAndCheck(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	revoked, err := store.IsRevoked(ctx, "unknown-token")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "token-1", time.Now().Add(time.Hour)))

	revoked, err = store.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestStore_ExpiredEntryNotRevoked(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Revoke(ctx, "old-token", time.Now().Add(-time.Minute)))

	revoked, err := store.IsRevoked(ctx, "old-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestStore_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Revoke(ctx, "live", time.Now().Add(time.Hour)))
	require.NoError(t, store.Revoke(ctx, "dead-1", time.Now().Add(-time.Hour)))
	require.NoError(t, store.Revoke(ctx, "dead-2", time.Now().Add(-time.Second)))

	deleted, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	revoked, err := store.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)

	deleted, err = store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
