package cmd

import (
	"fmt"
	"os"

	"github.com/avasiliev/tfadump/internal/crypto"
	"github.com/avasiliev/tfadump/internal/vault"
)

// Import decrypts a backup and merges its accounts into the local archive.
// The archive is protected by the same password as the imported backup.
func Import(backupPath, archivePath string) {
	raw := ReadBackupOrExit(backupPath)

	password := GetBackupPasswordOrExit(raw, "Enter backup password: ")
	defer crypto.ClearBytes(password)

	services, err := vault.DecryptServices(raw, password)
	if err != nil {
		HandleError(err)
	}

	archive, err := vault.OpenArchive(archivePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer archive.Close()

	written, err := archive.Import(services, password)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("imported %d accounts into %s\n", written, archivePath)
}
