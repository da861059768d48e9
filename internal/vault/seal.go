package vault

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/avasiliev/tfadump/internal/crypto"
)

const (
	backupSchemaVersion = 4
	backupAppOrigin     = "android"
	backupAppVersion    = "4.0.9"
	backupAppCode       = 40009

	// saltSize is the salt length the 2FAS apps generate for new backups.
	// Decryption accepts any length; this only governs what Seal emits.
	saltSize = 256
)

// referencePlaintext is the fixed, non-secret string the 2FAS apps encrypt
// next to the services so a password can be verified without touching the
// account list itself.
const referencePlaintext = "tRViSsLKzd86Hprh4ceC2OP7xazn4rrt4xhfEUbOjxLX8Rc3mkI" +
	"SXE0lWbmnWfggogbBJhtYgpK6fMl1D6mtsy92R3HkdGfwuXbzLebqVFJsR7IZ2w58t938iym" +
	"wG4826aST7DMqZdirLkplRHJk4E8uTZuKdEV3V84utzoaQF5DLd5nhIZbmpjuzceHBQE6WT1" +
	"3O5o9qDL4pzL3kuNDogNqedrb4NnDs6jhw63hf9HVHoNyB8rRK4bRl5smKmzDgw"

// Seal encrypts a service list into a complete password-protected backup
// document, generating a fresh salt and IVs.
func Seal(services []Service, password []byte) ([]byte, error) {
	salt, err := crypto.GenerateRandom(saltSize)
	if err != nil {
		return nil, err
	}
	iv, err := crypto.GenerateRandom(crypto.IVSize)
	if err != nil {
		return nil, err
	}
	refIV, err := crypto.GenerateRandom(crypto.IVSize)
	if err != nil {
		return nil, err
	}
	return SealWith(services, password, salt, iv, refIV)
}

// SealWith is Seal with caller-supplied salt and IVs. The two IVs must be
// distinct: services and reference are encrypted under the same derived key.
func SealWith(services []Service, password, salt, iv, refIV []byte) ([]byte, error) {
	plaintext, err := json.Marshal(services)
	if err != nil {
		return nil, fmt.Errorf("marshal services: %w", err)
	}

	cipherText, tag, err := crypto.Encrypt(plaintext, password, salt, iv)
	if err != nil {
		return nil, err
	}

	refCipher, refTag, err := crypto.Encrypt([]byte(referencePlaintext), password, salt, refIV)
	if err != nil {
		return nil, err
	}

	backup := Backup{
		Services:          []Service{},
		Groups:            []json.RawMessage{},
		UpdatedAt:         time.Now().UnixMilli(),
		SchemaVersion:     backupSchemaVersion,
		AppVersionCode:    backupAppCode,
		AppVersionName:    backupAppVersion,
		AppOrigin:         backupAppOrigin,
		ServicesEncrypted: AssembleEnvelope(append(cipherText, tag...), salt, iv),
		Reference:         AssembleEnvelope(append(refCipher, refTag...), salt, refIV),
	}

	out, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	return out, nil
}

// VerifyReference checks a password against the backup's reference field
// without decrypting the service list.
func VerifyReference(backup *Backup, password []byte) error {
	env, err := ExtractFields(backup.Reference)
	if err != nil {
		return err
	}
	cipherText, tag, err := SplitCipherText(env.CipherWithTag)
	if err != nil {
		return err
	}
	plaintext, err := crypto.Decrypt(cipherText, password, env.Salt, env.IV, tag)
	if err != nil {
		return err
	}
	if !crypto.ConstantTimeCompare(plaintext, []byte(referencePlaintext)) {
		return crypto.ErrDecryptionFailed
	}
	return nil
}
