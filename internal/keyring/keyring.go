package keyring

import (
	"github.com/zalando/go-keyring"
)

const serviceName = "tfadump"

// SavePassword stores a backup password in the OS keyring
func SavePassword(fingerprint string, password string) error {
	return keyring.Set(serviceName, fingerprint, password)
}

// GetPassword retrieves a backup password from the OS keyring
func GetPassword(fingerprint string) (string, error) {
	return keyring.Get(serviceName, fingerprint)
}

// DeletePassword removes a backup password from the OS keyring
func DeletePassword(fingerprint string) error {
	return keyring.Delete(serviceName, fingerprint)
}

// HasPassword checks if a password is stored in the keyring
func HasPassword(fingerprint string) bool {
	_, err := keyring.Get(serviceName, fingerprint)
	return err == nil
}
