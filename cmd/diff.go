package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/avasiliev/tfadump/internal/crypto"
	"github.com/avasiliev/tfadump/internal/format"
	"github.com/avasiliev/tfadump/internal/vault"
)

// Diff decrypts two backups and prints a diff of their account tables
func Diff(pathA, pathB string) {
	renderedA := renderForDiff(pathA)
	renderedB := renderForDiff(pathB)

	if renderedA == renderedB {
		fmt.Println("backups are identical")
		return
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(renderedA, renderedB, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	fmt.Print(dmp.DiffPrettyText(diffs))
}

func renderForDiff(path string) string {
	raw := ReadBackupOrExit(path)

	password := GetBackupPasswordOrExit(raw, fmt.Sprintf("Password for %s: ", path))
	defer crypto.ClearBytes(password)

	services, err := vault.DecryptServices(raw, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: ", path)
		HandleError(err)
	}

	var buf bytes.Buffer
	if err := format.Render(&buf, services, format.ModePretty); err != nil {
		HandleError(err)
	}
	return buf.String()
}
