package crypto

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Field key custody: the stored credential (password hash + account salt) is
// the only key material. The verification hash is never used as an AES key
// directly; HKDF-SHA256 expands it into independent encryption and MAC keys,
// so both are reconstructible whenever the server holds the credential row
// and nothing else needs to be stored.
const (
	infoFieldEncryption = "pii-encrypt"
	infoFieldMAC        = "pii-mac"
)

// FieldKeys holds the derived keys protecting a user's PII fields.
type FieldKeys struct {
	Encryption []byte // AES-128 key, 16 bytes
	MAC        []byte // HMAC-SHA256 key, 32 bytes
}

// DeriveFieldKeys derives the field encryption and MAC keys from a stored
// credential. Pure function of (passwordHash, salt); the same credential
// always yields the same keys.
func DeriveFieldKeys(passwordHash, salt []byte) (*FieldKeys, error) {
	if len(passwordHash) != HashSize {
		return nil, fmt.Errorf("password hash must be %d bytes, got %d", HashSize, len(passwordHash))
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}

	encKey, err := expand(passwordHash, salt, infoFieldEncryption, KeySize)
	if err != nil {
		return nil, fmt.Errorf("derive encryption key: %w", err)
	}
	macKey, err := expand(passwordHash, salt, infoFieldMAC, MACKeySize)
	if err != nil {
		return nil, fmt.Errorf("derive mac key: %w", err)
	}

	return &FieldKeys{Encryption: encKey, MAC: macKey}, nil
}

func expand(secret, salt []byte, info string, n int) ([]byte, error) {
	key := make([]byte, n)
	r := hkdf.New(sha256.New, secret, salt, []byte(info))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}
