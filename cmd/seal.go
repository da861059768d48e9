package cmd

import (
	"fmt"
	"os"

	"github.com/avasiliev/tfadump/internal/crypto"
	"github.com/avasiliev/tfadump/internal/vault"
)

// Seal encrypts a plaintext services JSON file into a .2fas backup
func Seal(inPath, outPath string) {
	plaintext, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %s\n", inPath, err)
		os.Exit(1)
	}

	services, err := vault.DecodeServices(plaintext)
	if err != nil {
		HandleError(err)
	}

	var password []byte
	if password = vault.GetPasswordFromEnv(); password == nil {
		password, err = vault.ReadPasswordConfirm()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	}
	defer crypto.ClearBytes(password)

	backup, err := vault.Seal(services, password)
	if err != nil {
		HandleError(err)
	}

	if err := os.WriteFile(outPath, backup, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot write %s: %s\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("sealed %d accounts into %s\n", len(services), outPath)
}
