package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

const (
	// MaxEmailLen caps stored email length.
	MaxEmailLen = 254
	// MinPasswordLen is the minimum accepted password length.
	MinPasswordLen = 8
)

// NormalizeEmail lowercases and trims an email address. Lookup and
// uniqueness are case-insensitive, so every email is normalized once at the
// boundary before it reaches storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that the address is non-empty and parseable.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address")
	}

	return nil
}

// ValidatePassword checks the minimum requirements for an account password.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	return nil
}

// ValidateName checks the display name supplied at registration.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) > 128 {
		return fmt.Errorf("name must not exceed 128 characters")
	}
	return nil
}
