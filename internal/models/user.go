package models

import "time"

// Account roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account statuses. StatusVerified is set when the profile is completed;
// the users.status column is the single source of truth for verification.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
)

// User is an account row. PasswordHash and PasswordSalt are hex-encoded;
// together they are the credential the PII field keys are derived from.
type User struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	PasswordSalt   string     `json:"-"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	ResetToken     string     `json:"-"`
	ResetExpiresAt *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Profile holds the encrypted PII fields for one account (1:1 by user ID).
// Each field is an independently encrypted value in the
// hex(iv):hex(ct):hex(mac) encoding; empty string means absent.
type Profile struct {
	UserID            string    `json:"user_id"`
	EncryptedFullName string    `json:"encrypted_fullname"`
	EncryptedNIK      string    `json:"encrypted_nik"`
	EncryptedPhone    string    `json:"encrypted_phone"`
	EncryptedAddress  string    `json:"encrypted_address"`
	IsVerified        bool      `json:"is_verified"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UserSummary is the admin-listing projection of an account. It exposes
// whether a profile exists but never its contents.
type UserSummary struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	HasProfile bool      `json:"has_profile"`
}

// Principal is the authenticated identity attached to a request by the auth
// middleware after session verification.
type Principal struct {
	UserID         string
	Name           string
	Email          string
	Role           string
	TokenID        string
	TokenExpiresAt time.Time
}

// IsAdmin reports whether the principal may access admin endpoints.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
