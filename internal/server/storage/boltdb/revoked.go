package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var bucketRevoked = []byte("revoked")

// Store implements the session revocation list on BoltDB. Keys are JWT IDs,
// values record the token expiry so entries can be swept once the token
// would have died anyway.
type Store struct {
	db *bbolt.DB
}

type revokedEntry struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// New opens (or creates) the revocation database at dbPath.
func New(ctx context.Context, dbPath string) (*Store, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	store := &Store{db: db}

	if err := store.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return store, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRevoked); err != nil {
			return fmt.Errorf("failed to create revoked bucket: %w", err)
		}
		return nil
	})
}

// Revoke records a token ID as invalid until expiresAt.
func (s *Store) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRevoked)
		if bucket == nil {
			return fmt.Errorf("revoked bucket not found")
		}

		data, err := json.Marshal(revokedEntry{ExpiresAt: expiresAt})
		if err != nil {
			return fmt.Errorf("failed to marshal revocation entry: %w", err)
		}

		if err := bucket.Put([]byte(tokenID), data); err != nil {
			return fmt.Errorf("failed to save revocation entry: %w", err)
		}

		return nil
	})
}

// IsRevoked reports whether the token ID is on the revocation list.
func (s *Store) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var revoked bool

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRevoked)
		if bucket == nil {
			return fmt.Errorf("revoked bucket not found")
		}

		data := bucket.Get([]byte(tokenID))
		if data == nil {
			return nil
		}

		var entry revokedEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return fmt.Errorf("failed to unmarshal revocation entry: %w", err)
		}

		// An expired entry means the token is dead regardless.
		revoked = time.Now().Before(entry.ExpiresAt)
		return nil
	})

	if err != nil {
		return false, err
	}

	return revoked, nil
}

// DeleteExpired removes entries whose token expiry has passed.
func (s *Store) DeleteExpired(ctx context.Context) (int, error) {
	deleted := 0

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRevoked)
		if bucket == nil {
			return fmt.Errorf("revoked bucket not found")
		}

		now := time.Now()
		cursor := bucket.Cursor()

		var stale [][]byte
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var entry revokedEntry
			if err := json.Unmarshal(v, &entry); err != nil || !now.Before(entry.ExpiresAt) {
				key := make([]byte, len(k))
				copy(key, k)
				stale = append(stale, key)
			}
		}

		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return fmt.Errorf("failed to delete revocation entry: %w", err)
			}
			deleted++
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return deleted, nil
}
