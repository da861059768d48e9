package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	KeySize    = 32    // AES-256 key size
	IVSize     = 12    // GCM nonce size
	TagSize    = 16    // GCM authentication tag size
	Iterations = 10000 // PBKDF2 iterations used by the 2FAS backup format
)

var (
	ErrInvalidParameter = errors.New("invalid cipher parameter")
	ErrDecryptionFailed = errors.New("decryption failed (wrong password?)")
	ErrEncryptionFailed = errors.New("encryption failed")
)

// DeriveKey derives a 256-bit encryption key from a password and salt
// using PBKDF2-HMAC-SHA256. Same (password, salt) always yields the same key.
func DeriveKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, Iterations, KeySize, sha256.New)
}

// checkParams validates the inputs shared by Encrypt and Decrypt.
func checkParams(password, salt, iv []byte) error {
	if len(password) == 0 || len(salt) == 0 {
		return ErrInvalidParameter
	}
	if len(iv) != IVSize {
		return ErrInvalidParameter
	}
	return nil
}

// Decrypt decrypts ciphertext using AES-256-GCM with a key derived from
// password and salt. The authentication tag is verified as part of
// decryption; on any mismatch no plaintext is returned.
func Decrypt(cipherText, password, salt, iv, tag []byte) ([]byte, error) {
	if err := checkParams(password, salt, iv); err != nil {
		return nil, err
	}
	if len(tag) != TagSize {
		return nil, ErrInvalidParameter
	}

	key := DeriveKey(password, salt)
	defer ClearBytes(key)

	gcm, err := newGCM(key)
	if err != nil {
		return nil, ErrInvalidParameter
	}

	// GCM expects the tag appended to the ciphertext
	sealed := make([]byte, 0, len(cipherText)+len(tag))
	sealed = append(sealed, cipherText...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// Encrypt encrypts plaintext using AES-256-GCM with a key derived from
// password and salt. Returns the ciphertext and the 16-byte authentication
// tag separately. IV uniqueness per (password, salt) is the caller's
// responsibility.
func Encrypt(plaintext, password, salt, iv []byte) (cipherText, tag []byte, err error) {
	if err := checkParams(password, salt, iv); err != nil {
		return nil, nil, err
	}

	key := DeriveKey(password, salt)
	defer ClearBytes(key)

	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, ErrEncryptionFailed
	}

	sealed := gcm.Seal(nil, iv, plaintext, nil)
	n := len(sealed) - TagSize

	return sealed[:n], sealed[n:], nil
}

// newGCM builds the AEAD; the raw error is mapped per call site so a
// construction failure during decrypt is not reported as an encryption
// failure.
func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
