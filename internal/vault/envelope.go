package vault

import (
	"encoding/base64"
	"strings"

	"github.com/avasiliev/tfadump/internal/crypto"
)

// Envelope holds the three decoded fields of a servicesEncrypted value.
type Envelope struct {
	CipherWithTag []byte // ciphertext with the 16-byte GCM tag appended
	Salt          []byte // PBKDF2 salt
	IV            []byte // GCM nonce
}

// ExtractFields splits a servicesEncrypted (or reference) value of the form
//
//	BASE64(ciphertext || tag) ":" BASE64(salt) ":" BASE64(iv)
//
// into its decoded parts. Exactly three colon-delimited fields are required.
func ExtractFields(encrypted string) (*Envelope, error) {
	// Limit 4 so a surplus colon shows up as a fourth part instead of
	// silently extending the last field.
	parts := strings.SplitN(encrypted, ":", 4)
	if len(parts) != 3 {
		return nil, ErrInvalidBackup
	}

	decoded := make([][]byte, 3)
	for i, part := range parts {
		// The decoder silently skips \r and \n even in strict mode; the
		// format allows no embedded line breaks, so reject them ourselves.
		if strings.ContainsAny(part, "\r\n") {
			return nil, ErrInvalidBackup
		}
		b, err := base64.StdEncoding.Strict().DecodeString(part)
		if err != nil {
			return nil, ErrInvalidBackup
		}
		decoded[i] = b
	}

	return &Envelope{
		CipherWithTag: decoded[0],
		Salt:          decoded[1],
		IV:            decoded[2],
	}, nil
}

// SplitCipherText splits a decoded ciphertext blob into the ciphertext and
// the trailing 16-byte authentication tag. The blob must be strictly longer
// than the tag, otherwise there is no ciphertext to decrypt.
func SplitCipherText(blob []byte) (cipherText, tag []byte, err error) {
	if len(blob) <= crypto.TagSize {
		return nil, nil, ErrInvalidBackup
	}
	n := len(blob) - crypto.TagSize
	return blob[:n], blob[n:], nil
}

// AssembleEnvelope is the inverse of ExtractFields.
func AssembleEnvelope(cipherWithTag, salt, iv []byte) string {
	enc := base64.StdEncoding.EncodeToString
	return enc(cipherWithTag) + ":" + enc(salt) + ":" + enc(iv)
}
