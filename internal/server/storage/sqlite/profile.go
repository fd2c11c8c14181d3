package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/skripsit/backend/internal/models"
	"github.com/skripsit/backend/internal/server/storage"
)

// GetProfile retrieves the encrypted profile row for a user.
func (s *Storage) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT user_id, encrypted_fullname, encrypted_nik, encrypted_phone,
		       encrypted_address, is_verified, created_at, updated_at
		FROM profiles
		WHERE user_id = ?
	`

	p := &models.Profile{}
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.EncryptedFullName,
		&p.EncryptedNIK,
		&p.EncryptedPhone,
		&p.EncryptedAddress,
		&p.IsVerified,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return p, nil
}

// CompleteProfile upserts the profile row and flips the account status to
// verified. Both writes happen in one transaction so a crash cannot leave a
// verified profile on a pending account or vice versa.
func (s *Storage) CompleteProfile(ctx context.Context, profile *models.Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	now := time.Now()

	upsert := `
		INSERT INTO profiles (user_id, encrypted_fullname, encrypted_nik,
		                      encrypted_phone, encrypted_address, is_verified,
		                      created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			encrypted_fullname = excluded.encrypted_fullname,
			encrypted_nik      = excluded.encrypted_nik,
			encrypted_phone    = excluded.encrypted_phone,
			encrypted_address  = excluded.encrypted_address,
			is_verified        = 1,
			updated_at         = excluded.updated_at
	`

	if _, err := tx.ExecContext(ctx, upsert,
		profile.UserID,
		profile.EncryptedFullName,
		profile.EncryptedNIK,
		profile.EncryptedPhone,
		profile.EncryptedAddress,
		now,
		now,
	); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE users SET status = ?, updated_at = ? WHERE id = ?`,
		models.StatusVerified, now, profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrUserNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit profile: %w", err)
	}

	return nil
}
