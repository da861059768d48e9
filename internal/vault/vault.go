package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/avasiliev/tfadump/internal/crypto"
)

var (
	ErrInvalidBackup  = errors.New("invalid backup file")
	ErrNotServiceList = errors.New("decrypted data is not a service list")
)

// Decrypt unwraps a raw backup document with the given password and returns
// the decrypted service-list plaintext. The plaintext is validated to be a
// JSON array of services before it is returned; a caller never sees
// partially decrypted or unvalidated bytes.
func Decrypt(rawBackup, password []byte) ([]byte, error) {
	backup, err := ParseBackup(rawBackup)
	if err != nil {
		return nil, err
	}

	env, err := ExtractFields(backup.ServicesEncrypted)
	if err != nil {
		return nil, err
	}

	cipherText, tag, err := SplitCipherText(env.CipherWithTag)
	if err != nil {
		return nil, err
	}

	plaintext, err := crypto.Decrypt(cipherText, password, env.Salt, env.IV, tag)
	if err != nil {
		return nil, err
	}

	if _, err := DecodeServices(plaintext); err != nil {
		return nil, err
	}

	return plaintext, nil
}

// DecryptServices is Decrypt plus decoding into the service list.
func DecryptServices(rawBackup, password []byte) ([]Service, error) {
	plaintext, err := Decrypt(rawBackup, password)
	if err != nil {
		return nil, err
	}
	return DecodeServices(plaintext)
}

// Fingerprint returns a short stable identifier for a backup, derived from
// its KDF salt. Used as the keyring account name so a cached password stays
// attached to the backup even if the file is moved or renamed.
func Fingerprint(rawBackup []byte) (string, error) {
	backup, err := ParseBackup(rawBackup)
	if err != nil {
		return "", err
	}
	env, err := ExtractFields(backup.ServicesEncrypted)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(env.Salt)
	return hex.EncodeToString(sum[:8]), nil
}
