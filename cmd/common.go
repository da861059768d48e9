package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avasiliev/tfadump/internal/crypto"
	"github.com/avasiliev/tfadump/internal/keyring"
	"github.com/avasiliev/tfadump/internal/vault"
)

// ReadBackupOrExit reads a backup file, exiting with a message on failure
func ReadBackupOrExit(path string) []byte {
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %s\n", path, err)
		os.Exit(1)
	}
	return raw
}

// GetBackupPassword retrieves the password for a backup: environment
// variable first, then the OS keyring (keyed by the backup fingerprint),
// then an interactive prompt.
// The caller is responsible for calling crypto.ClearBytes on the result.
func GetBackupPassword(rawBackup []byte, prompt string) ([]byte, error) {
	if password := vault.GetPasswordFromEnv(); password != nil {
		return password, nil
	}

	if fingerprint, err := vault.Fingerprint(rawBackup); err == nil {
		if stored, err := keyring.GetPassword(fingerprint); err == nil {
			return []byte(stored), nil
		}
	}

	password, err := vault.ReadPassword(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// GetBackupPasswordOrExit is like GetBackupPassword but exits on error
func GetBackupPasswordOrExit(rawBackup []byte, prompt string) []byte {
	password, err := GetBackupPassword(rawBackup, prompt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return password
}

// DefaultArchivePath returns the archive location used when -archive is not
// given
func DefaultArchivePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tfadump.db"
	}
	return filepath.Join(home, ".tfadump.db")
}

// HandleError handles common errors consistently
func HandleError(err error) {
	switch {
	case errors.Is(err, vault.ErrInvalidBackup):
		fmt.Fprintf(os.Stderr, "Error: invalid backup file\n")
	case errors.Is(err, crypto.ErrDecryptionFailed):
		fmt.Fprintf(os.Stderr, "Error: decryption failed (wrong password?)\n")
	case errors.Is(err, vault.ErrWrongPassword):
		fmt.Fprintf(os.Stderr, "Error: wrong password\n")
	case errors.Is(err, vault.ErrNotServiceList):
		fmt.Fprintf(os.Stderr, "Error: decrypted data is not a service list\n")
	case errors.Is(err, vault.ErrNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: archive not initialized\n")
		fmt.Fprintf(os.Stderr, "Run 'tfadump import' first\n")
	case errors.Is(err, crypto.ErrInvalidParameter):
		fmt.Fprintf(os.Stderr, "Error: invalid cipher parameter\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
