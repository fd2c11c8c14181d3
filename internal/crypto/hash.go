package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. The 16-byte output doubles as key material input for
// the HKDF step in keys.go, so HashSize must stay at AES-128 key length.
const (
	// HashSize is the credential hash length in bytes.
	HashSize = 16
	// SaltSize is the per-account salt length in bytes.
	SaltSize = 16
	// argonTime is the Argon2id time cost (iterations).
	argonTime = 3
	// argonMemory is the Argon2id memory cost in KiB (2^16).
	argonMemory = 64 * 1024
	// argonThreads is the Argon2id parallelism degree.
	argonThreads = 1
)

// ErrHashing indicates the hashing primitive could not run with the given
// inputs. It is never accompanied by a fallback hash value.
var ErrHashing = errors.New("password hashing failed")

// NewSalt returns a cryptographically random per-account salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// HashPassword derives the 16-byte credential hash from a plaintext password
// and a per-account salt using Argon2id. The result is deterministic for a
// given (password, salt) pair.
func HashPassword(password string, salt []byte) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", ErrHashing)
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrHashing, SaltSize, len(salt))
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, HashSize)
	if len(hash) != HashSize {
		return nil, fmt.Errorf("%w: unexpected hash length %d", ErrHashing, len(hash))
	}
	return hash, nil
}

// VerifyPassword re-derives the hash for the submitted password and compares
// it to the stored hash in constant time.
func VerifyPassword(password string, salt, storedHash []byte) (bool, error) {
	if len(storedHash) != HashSize {
		return false, fmt.Errorf("%w: stored hash must be %d bytes, got %d", ErrHashing, HashSize, len(storedHash))
	}

	computed, err := HashPassword(password, salt)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(computed, storedHash) == 1, nil
}
