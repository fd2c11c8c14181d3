package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/skripsit/backend/internal/models"
	"github.com/skripsit/backend/internal/server/storage"
)

// CreateUser inserts a new account. Email uniqueness rides the datastore
// index so concurrent registrations for the same email serialize there.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, password_salt, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.PasswordSalt,
		user.Role,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return storage.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves an account by normalized email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

// GetUserByID retrieves an account by ID.
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.getUser(ctx, "id = ?", userID)
}

func (s *Storage) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, password_salt, role, status,
		       reset_token, reset_expires_at, created_at, updated_at
		FROM users
		WHERE ` + where

	user := &models.User{}
	var resetToken sql.NullString
	var resetExpires sql.NullTime

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.PasswordSalt,
		&user.Role,
		&user.Status,
		&resetToken,
		&resetExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if resetToken.Valid {
		user.ResetToken = resetToken.String
	}
	if resetExpires.Valid {
		user.ResetExpiresAt = &resetExpires.Time
	}

	return user, nil
}

// SetResetToken stores a password reset token against the account.
func (s *Storage) SetResetToken(ctx context.Context, email, token string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET reset_token = ?, reset_expires_at = ?, updated_at = ?
		WHERE email = ?
	`

	result, err := s.db.ExecContext(ctx, query, token, expiresAt, time.Now(), email)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

const summaryColumns = `
	u.id,
	u.email,
	u.role,
	u.status,
	u.created_at,
	CASE WHEN p.user_id IS NOT NULL THEN 1 ELSE 0 END AS has_profile
`

// ListUsers returns the admin listing, newest accounts first.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.UserSummary, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		ORDER BY u.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.UserSummary
	for rows.Next() {
		u := &models.UserSummary{}
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.Status, &u.CreatedAt, &u.HasProfile); err != nil {
			return nil, fmt.Errorf("failed to scan user summary: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// GetUserSummary returns the admin projection of a single account.
func (s *Storage) GetUserSummary(ctx context.Context, userID string) (*models.UserSummary, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.id = ?
	`

	u := &models.UserSummary{}
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&u.ID, &u.Email, &u.Role, &u.Status, &u.CreatedAt, &u.HasProfile,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user summary: %w", err)
	}

	return u, nil
}
