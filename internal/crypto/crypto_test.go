package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	password := []byte("correct horse battery staple")
	salt := []byte("some-salt-bytes")
	iv := bytes.Repeat([]byte{0x42}, IVSize)
	plaintext := []byte(`[{"name":"example.com"}]`)

	cipherText, tag, err := Encrypt(plaintext, password, salt, iv)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if len(tag) != TagSize {
		t.Fatalf("Expected %d-byte tag, got %d", TagSize, len(tag))
	}
	if len(cipherText) != len(plaintext) {
		t.Fatalf("GCM is unpadded, expected %d ciphertext bytes, got %d", len(plaintext), len(cipherText))
	}

	decrypted, err := Decrypt(cipherText, password, salt, iv, tag)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("Round trip mismatch: got %q, want %q", decrypted, plaintext)
	}
}

func TestDecryptTamperSensitivity(t *testing.T) {
	password := []byte("password")
	salt := []byte("salt")
	iv := bytes.Repeat([]byte{0x01}, IVSize)
	plaintext := []byte("attack at dawn")

	cipherText, tag, err := Encrypt(plaintext, password, salt, iv)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	flip := func(b []byte, i int) []byte {
		out := append([]byte(nil), b...)
		out[i] ^= 0x01
		return out
	}

	cases := []struct {
		name                           string
		cipherText, salt, iv, tag, pwd []byte
	}{
		{"ciphertext bit", flip(cipherText, 0), salt, iv, tag, password},
		{"tag bit", cipherText, salt, iv, flip(tag, TagSize-1), password},
		{"salt bit", cipherText, flip(salt, 0), iv, tag, password},
		{"iv bit", cipherText, salt, flip(iv, 3), tag, password},
		{"wrong password", cipherText, salt, iv, tag, []byte("Password")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decrypt(tc.cipherText, tc.pwd, tc.salt, tc.iv, tc.tag)
			if !errors.Is(err, ErrDecryptionFailed) {
				t.Fatalf("Expected ErrDecryptionFailed, got %v", err)
			}
			if got != nil {
				t.Errorf("No plaintext must be returned on auth failure, got %d bytes", len(got))
			}
		})
	}
}

func TestDeriveKeyDeterminism(t *testing.T) {
	password := []byte("password")
	salt := []byte("salt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	if len(key1) != KeySize {
		t.Fatalf("Expected %d-byte key, got %d", KeySize, len(key1))
	}
	if !bytes.Equal(key1, key2) {
		t.Error("Same password and salt must derive the same key")
	}

	other := DeriveKey([]byte("Password"), salt)
	if bytes.Equal(key1, other) {
		t.Error("Different password must derive a different key")
	}

	other = DeriveKey(password, []byte("pepper"))
	if bytes.Equal(key1, other) {
		t.Error("Different salt must derive a different key")
	}
}

func TestEncryptInvalidParameters(t *testing.T) {
	iv := bytes.Repeat([]byte{0x01}, IVSize)

	cases := []struct {
		name                string
		password, salt, ivv []byte
	}{
		{"empty password", nil, []byte("salt"), iv},
		{"empty salt", []byte("pw"), nil, iv},
		{"empty iv", []byte("pw"), []byte("salt"), nil},
		{"short iv", []byte("pw"), []byte("salt"), iv[:IVSize-1]},
		{"long iv", []byte("pw"), []byte("salt"), bytes.Repeat([]byte{0x01}, IVSize+1)},
		{"everything empty", nil, nil, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := Encrypt([]byte("data"), tc.password, tc.salt, tc.ivv); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("Encrypt: expected ErrInvalidParameter, got %v", err)
			}
			tag := bytes.Repeat([]byte{0x00}, TagSize)
			if _, err := Decrypt([]byte("data"), tc.password, tc.salt, tc.ivv, tag); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("Decrypt: expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestDecryptShortTag(t *testing.T) {
	iv := bytes.Repeat([]byte{0x01}, IVSize)
	_, err := Decrypt([]byte("data"), []byte("pw"), []byte("salt"), iv, []byte("short"))
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for short tag, got %v", err)
	}
}

func TestEncryptEmptyPlaintext(t *testing.T) {
	// Empty plaintext is a valid AEAD input; only key material is checked
	iv := bytes.Repeat([]byte{0x01}, IVSize)
	cipherText, tag, err := Encrypt(nil, []byte("pw"), []byte("salt"), iv)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if len(cipherText) != 0 {
		t.Errorf("Expected empty ciphertext, got %d bytes", len(cipherText))
	}

	decrypted, err := Decrypt(cipherText, []byte("pw"), []byte("salt"), iv, tag)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if len(decrypted) != 0 {
		t.Errorf("Expected empty plaintext, got %d bytes", len(decrypted))
	}
}

func TestNewGCMKeySize(t *testing.T) {
	if _, err := newGCM(make([]byte, 17)); err == nil {
		t.Error("Expected error for a 17-byte key")
	}
	if _, err := newGCM(make([]byte, KeySize)); err != nil {
		t.Errorf("Unexpected error for a %d-byte key: %v", KeySize, err)
	}
}

func TestClearBytes(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	ClearBytes(b)
	if !bytes.Equal(b, []byte{0, 0, 0, 0}) {
		t.Errorf("ClearBytes left data behind: %v", b)
	}
}
