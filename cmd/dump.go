package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/avasiliev/tfadump/internal/crypto"
	"github.com/avasiliev/tfadump/internal/format"
	"github.com/avasiliev/tfadump/internal/vault"
)

// Dump decrypts a backup file and renders its accounts to stdout or outPath
func Dump(path, output, outPath string) {
	mode, err := format.ParseMode(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	raw := ReadBackupOrExit(path)

	password := GetBackupPasswordOrExit(raw, "Enter backup password: ")
	defer crypto.ClearBytes(password)

	services, err := vault.DecryptServices(raw, password)
	if err != nil {
		HandleError(err)
	}

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot write %s: %s\n", outPath, err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := format.Render(w, services, mode); err != nil {
		HandleError(err)
	}
}
