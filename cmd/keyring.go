package cmd

import (
	"fmt"
	"os"

	"github.com/avasiliev/tfadump/internal/crypto"
	"github.com/avasiliev/tfadump/internal/keyring"
	"github.com/avasiliev/tfadump/internal/vault"
)

// KeyringSave verifies the backup password and stores it in the OS keyring
func KeyringSave(path string) {
	raw := ReadBackupOrExit(path)

	fingerprint, err := vault.Fingerprint(raw)
	if err != nil {
		HandleError(err)
	}

	password, err := vault.ReadPassword("Enter backup password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	// Verify against the reference field before caching anything
	backup, err := vault.ParseBackup(raw)
	if err != nil {
		HandleError(err)
	}
	if err := vault.VerifyReference(backup, password); err != nil {
		HandleError(err)
	}

	if err := keyring.SavePassword(fingerprint, string(password)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Password saved to keyring")
}

// KeyringDelete removes the backup password from the OS keyring
func KeyringDelete(path string) {
	raw := ReadBackupOrExit(path)

	fingerprint, err := vault.Fingerprint(raw)
	if err != nil {
		HandleError(err)
	}

	if err := keyring.DeletePassword(fingerprint); err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	fmt.Println("Password removed from keyring")
}

// KeyringStatus checks if a password is stored for this backup
func KeyringStatus(path string) {
	raw := ReadBackupOrExit(path)

	fingerprint, err := vault.Fingerprint(raw)
	if err != nil {
		HandleError(err)
	}

	if keyring.HasPassword(fingerprint) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
}
