package vault

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/avasiliev/tfadump/internal/crypto"
)

func testServices() []Service {
	return []Service{
		{
			Name:   "example.com",
			Secret: "JBSWY3DPEHPK3PXP",
			OTP:    OTP{Issuer: "example.com", Digits: 6, Period: 30, Algorithm: "SHA1", TokenType: "TOTP"},
		},
		{
			Name:   "github.com",
			Secret: "NBSWY3DPO5XXE3DE",
			OTP:    OTP{Issuer: "GitHub", Digits: 6, Period: 30, Algorithm: "SHA1", TokenType: "TOTP"},
		},
	}
}

func TestArchiveImportAndList(t *testing.T) {
	dir := t.TempDir()
	archive, err := OpenArchive(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	defer archive.Close()

	password := []byte("test123")

	written, err := archive.Import(testServices(), password)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if written != 2 {
		t.Errorf("Expected 2 written records, got %d", written)
	}

	names, err := archive.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("Expected 2 names, got %v", names)
	}
	// Index iterates in key order
	if names[0] != "example.com" || names[1] != "github.com" {
		t.Errorf("Unexpected names: %v", names)
	}

	services, err := archive.Services(password)
	if err != nil {
		t.Fatalf("Services failed: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("Expected 2 services, got %d", len(services))
	}
	if services[0].Secret != "JBSWY3DPEHPK3PXP" {
		t.Errorf("Decrypted record mismatch: %+v", services[0])
	}
}

func TestArchiveWrongPassword(t *testing.T) {
	dir := t.TempDir()
	archive, err := OpenArchive(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	defer archive.Close()

	if _, err := archive.Import(testServices(), []byte("first")); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if _, err := archive.Import(testServices(), []byte("second")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Import: expected ErrWrongPassword, got %v", err)
	}
	if _, err := archive.Services([]byte("second")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Services: expected ErrWrongPassword, got %v", err)
	}
}

func TestArchiveImportOverwrites(t *testing.T) {
	dir := t.TempDir()
	archive, err := OpenArchive(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	defer archive.Close()

	password := []byte("test123")
	if _, err := archive.Import(testServices(), password); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	updated := testServices()[:1]
	updated[0].Secret = "GEZDGNBVGY3TQOJQ"
	if _, err := archive.Import(updated, password); err != nil {
		t.Fatalf("Second import failed: %v", err)
	}

	names, err := archive.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("Re-import must not duplicate records, got %v", names)
	}

	services, err := archive.Services(password)
	if err != nil {
		t.Fatalf("Services failed: %v", err)
	}
	for _, svc := range services {
		if svc.Name == "example.com" && svc.Secret != "GEZDGNBVGY3TQOJQ" {
			t.Errorf("Record was not overwritten: %+v", svc)
		}
	}
}

func TestArchiveInfo(t *testing.T) {
	dir := t.TempDir()
	archive, err := OpenArchive(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	defer archive.Close()

	if _, err := archive.Info(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Info on fresh archive: expected ErrNotInitialized, got %v", err)
	}

	if _, err := archive.Import(testServices(), []byte("test123")); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	info, err := archive.Info()
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if info.Accounts != 2 {
		t.Errorf("Accounts: got %d, want 2", info.Accounts)
	}
	if info.Iterations != crypto.Iterations {
		t.Errorf("Iterations: got %d, want %d", info.Iterations, crypto.Iterations)
	}
	if info.Modified.IsZero() {
		t.Error("Modified must be set after import")
	}
}

func TestArchiveListUninitialized(t *testing.T) {
	dir := t.TempDir()
	archive, err := OpenArchive(filepath.Join(dir, "empty.db"))
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	defer archive.Close()

	if _, err := archive.List(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}
