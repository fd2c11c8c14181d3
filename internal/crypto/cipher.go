package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"
)

// Field values are encrypted with AES-128-CBC and PKCS7 padding, then
// authenticated with HMAC-SHA256 over iv||ciphertext (encrypt-then-MAC).
// The at-rest encoding is hex(iv) ":" hex(ciphertext) ":" hex(mac).

const (
	// KeySize is the AES-128 field encryption key length.
	KeySize = 16
	// MACKeySize is the HMAC-SHA256 key length.
	MACKeySize = 32

	blockSize = aes.BlockSize
	macSize   = sha256.Size
	separator = ":"
)

var (
	// ErrMalformedCiphertext indicates the encoded value does not parse
	// (missing separators, bad hex, impossible lengths).
	ErrMalformedCiphertext = errors.New("malformed encrypted value")

	// ErrIntegrity indicates the MAC did not verify: wrong key or the
	// stored value was tampered with or corrupted.
	ErrIntegrity = errors.New("encrypted value failed integrity check")

	// ErrDecryption indicates the padding was invalid after decryption.
	ErrDecryption = errors.New("decryption failed")
)

// EncryptField encrypts a plaintext field value under encKey and
// authenticates it under macKey. A fresh random IV is generated per call, so
// two encryptions of the same plaintext never produce the same output.
func EncryptField(plaintext string, encKey, macKey []byte) (string, error) {
	block, mac, err := newPrimitives(encKey, macKey)
	if err != nil {
		return "", err
	}

	iv := make([]byte, blockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext))
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)

	mac.Write(iv)
	mac.Write(ct)
	tag := mac.Sum(nil)

	return hex.EncodeToString(iv) + separator +
		hex.EncodeToString(ct) + separator +
		hex.EncodeToString(tag), nil
}

// DecryptField reverses EncryptField. The MAC is verified before any
// decryption happens; a wrong key or a corrupted value fails with
// ErrIntegrity rather than yielding garbage plaintext.
func DecryptField(encoded string, encKey, macKey []byte) (string, error) {
	block, mac, err := newPrimitives(encKey, macKey)
	if err != nil {
		return "", err
	}

	iv, ct, tag, err := decodeField(encoded)
	if err != nil {
		return "", err
	}

	mac.Write(iv)
	mac.Write(ct)
	if !hmac.Equal(tag, mac.Sum(nil)) {
		return "", ErrIntegrity
	}

	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ct)

	unpadded, err := pkcs7Unpad(plain)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func newPrimitives(encKey, macKey []byte) (cipher.Block, hash.Hash, error) {
	if len(encKey) != KeySize {
		return nil, nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(encKey))
	}
	if len(macKey) != MACKeySize {
		return nil, nil, fmt.Errorf("mac key must be %d bytes, got %d", MACKeySize, len(macKey))
	}
	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, nil, fmt.Errorf("create cipher: %w", err)
	}
	return block, hmac.New(sha256.New, macKey), nil
}

func decodeField(encoded string) (iv, ct, tag []byte, err error) {
	parts := strings.Split(encoded, separator)
	if len(parts) != 3 {
		return nil, nil, nil, ErrMalformedCiphertext
	}

	if iv, err = hex.DecodeString(parts[0]); err != nil || len(iv) != blockSize {
		return nil, nil, nil, ErrMalformedCiphertext
	}
	if ct, err = hex.DecodeString(parts[1]); err != nil || len(ct) == 0 || len(ct)%blockSize != 0 {
		return nil, nil, nil, ErrMalformedCiphertext
	}
	if tag, err = hex.DecodeString(parts[2]); err != nil || len(tag) != macSize {
		return nil, nil, nil, ErrMalformedCiphertext
	}
	return iv, ct, tag, nil
}

// pkcs7Pad appends 1..blockSize padding bytes, each holding the pad length.
func pkcs7Pad(b []byte) []byte {
	n := blockSize - len(b)%blockSize
	padded := make([]byte, len(b)+n)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// pkcs7Unpad validates every padding byte, not just the last one. The check
// runs in constant time over the claimed pad length.
func pkcs7Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, ErrDecryption
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, ErrDecryption
	}
	var bad byte
	for _, c := range b[len(b)-n:] {
		bad |= c ^ byte(n)
	}
	if bad != 0 {
		return nil, ErrDecryption
	}
	return b[:len(b)-n], nil
}
