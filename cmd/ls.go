package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/avasiliev/tfadump/internal/crypto"
	"github.com/avasiliev/tfadump/internal/format"
	"github.com/avasiliev/tfadump/internal/vault"
)

// List shows the accounts stored in the local archive. Names come from the
// public index; the full table requires the archive password.
func List(archivePath string, full bool) {
	archive, err := vault.OpenArchive(archivePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer archive.Close()

	if !full {
		names, err := archive.List()
		if err != nil {
			HandleError(err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	password := vault.GetPasswordFromEnv()
	if password == nil {
		password, err = vault.ReadPassword("Enter archive password: ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	}
	defer crypto.ClearBytes(password)

	services, err := archive.Services(password)
	if err != nil {
		HandleError(err)
	}

	info, err := archive.Info()
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("%d accounts, PBKDF2 iterations %d, modified %s\n\n",
		info.Accounts, info.Iterations, info.Modified.Format(time.RFC3339))

	if err := format.Render(os.Stdout, services, format.ModePretty); err != nil {
		HandleError(err)
	}
}
