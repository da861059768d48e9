package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avasiliev/tfadump/internal/crypto"
	"github.com/avasiliev/tfadump/internal/storage"
)

const (
	archiveSaltSize    = 32
	passwordCheckValue = "tfadump-password-check"
)

var (
	ErrWrongPassword  = errors.New("wrong password")
	ErrNotInitialized = errors.New("archive not initialized")
)

// Archive is a local, password-protected store of imported accounts.
// Records are encrypted with the same engine as the backups themselves,
// under a per-archive salt.
type Archive struct {
	store *storage.Store
}

// OpenArchive opens or creates the archive database at path.
func OpenArchive(path string) (*Archive, error) {
	store, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	return &Archive{store: store}, nil
}

// Close releases the underlying database.
func (a *Archive) Close() error {
	return a.store.Close()
}

// Import merges services into the archive, initializing it on first use.
// Existing records with the same name are overwritten. Returns the number
// of records written.
func (a *Archive) Import(services []Service, password []byte) (int, error) {
	salt, err := a.ensureInitialized(password)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, svc := range services {
		plaintext, err := json.Marshal(svc)
		if err != nil {
			return written, fmt.Errorf("marshal account %q: %w", svc.Name, err)
		}
		blob, err := sealBlob(plaintext, password, salt)
		crypto.ClearBytes(plaintext)
		if err != nil {
			return written, err
		}
		if err := a.store.PutAccount(svc.Name, blob); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// ArchiveInfo summarizes an archive for status display.
type ArchiveInfo struct {
	Accounts   int
	Iterations uint32
	Modified   time.Time
}

// Info returns the archive summary without requiring the password.
func (a *Archive) Info() (*ArchiveInfo, error) {
	initialized, err := a.store.IsInitialized()
	if err != nil {
		return nil, err
	}
	if !initialized {
		return nil, ErrNotInitialized
	}

	names, err := a.store.ListAccounts()
	if err != nil {
		return nil, err
	}
	iterations, err := a.store.GetIterations()
	if err != nil {
		return nil, err
	}
	modified, err := a.store.GetModified()
	if err != nil {
		return nil, err
	}

	return &ArchiveInfo{
		Accounts:   len(names),
		Iterations: iterations,
		Modified:   modified,
	}, nil
}

// List returns the account names in the archive without requiring the
// password.
func (a *Archive) List() ([]string, error) {
	initialized, err := a.store.IsInitialized()
	if err != nil {
		return nil, err
	}
	if !initialized {
		return nil, ErrNotInitialized
	}
	return a.store.ListAccounts()
}

// Services decrypts and returns every account in the archive.
func (a *Archive) Services(password []byte) ([]Service, error) {
	salt, err := a.verifyPassword(password)
	if err != nil {
		return nil, err
	}

	names, err := a.store.ListAccounts()
	if err != nil {
		return nil, err
	}

	services := make([]Service, 0, len(names))
	for _, name := range names {
		blob, err := a.store.GetAccount(name)
		if err != nil {
			return nil, err
		}
		plaintext, err := openBlob(blob, password, salt)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", name, err)
		}
		var svc Service
		err = json.Unmarshal(plaintext, &svc)
		crypto.ClearBytes(plaintext)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", name, ErrNotServiceList)
		}
		services = append(services, svc)
	}
	return services, nil
}

// ensureInitialized initializes a fresh archive with the given password, or
// verifies the password against an existing one. Returns the archive salt.
func (a *Archive) ensureInitialized(password []byte) ([]byte, error) {
	initialized, err := a.store.IsInitialized()
	if err != nil {
		return nil, err
	}
	if initialized {
		return a.verifyPassword(password)
	}

	if len(password) == 0 {
		return nil, crypto.ErrInvalidParameter
	}
	if err := a.store.Initialize(); err != nil {
		return nil, err
	}

	salt, err := crypto.GenerateRandom(archiveSaltSize)
	if err != nil {
		return nil, err
	}
	if err := a.store.SetSalt(salt); err != nil {
		return nil, err
	}
	if err := a.store.SetIterations(crypto.Iterations); err != nil {
		return nil, err
	}

	checksum, err := sealBlob([]byte(passwordCheckValue), password, salt)
	if err != nil {
		return nil, err
	}
	if err := a.store.SetChecksum(checksum); err != nil {
		return nil, err
	}

	return salt, nil
}

// verifyPassword checks the password against the stored checksum and
// returns the archive salt on success.
func (a *Archive) verifyPassword(password []byte) ([]byte, error) {
	initialized, err := a.store.IsInitialized()
	if err != nil {
		return nil, err
	}
	if !initialized {
		return nil, ErrNotInitialized
	}

	salt, err := a.store.GetSalt()
	if err != nil {
		return nil, err
	}
	checksum, err := a.store.GetChecksum()
	if err != nil {
		return nil, err
	}

	plaintext, err := openBlob(checksum, password, salt)
	if err != nil {
		return nil, ErrWrongPassword
	}
	defer crypto.ClearBytes(plaintext)

	if !crypto.ConstantTimeCompare(plaintext, []byte(passwordCheckValue)) {
		return nil, ErrWrongPassword
	}
	return salt, nil
}

// sealBlob encrypts plaintext into the archive record format iv||ct||tag.
func sealBlob(plaintext, password, salt []byte) ([]byte, error) {
	iv, err := crypto.GenerateRandom(crypto.IVSize)
	if err != nil {
		return nil, err
	}
	cipherText, tag, err := crypto.Encrypt(plaintext, password, salt, iv)
	if err != nil {
		return nil, err
	}

	blob := make([]byte, 0, len(iv)+len(cipherText)+len(tag))
	blob = append(blob, iv...)
	blob = append(blob, cipherText...)
	blob = append(blob, tag...)
	return blob, nil
}

// openBlob decrypts an archive record in the iv||ct||tag format.
func openBlob(blob, password, salt []byte) ([]byte, error) {
	if len(blob) < crypto.IVSize+crypto.TagSize {
		return nil, crypto.ErrInvalidParameter
	}
	iv := blob[:crypto.IVSize]
	n := len(blob) - crypto.TagSize
	return crypto.Decrypt(blob[crypto.IVSize:n], password, salt, iv, blob[n:])
}
