// Package crypto implements the cipher used by 2FAS backup files.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from password via PBKDF2
//   - 12-byte IV supplied by the caller (stored in the backup envelope)
//   - 16-byte authentication tag, no associated data
//
// Key derivation uses PBKDF2-HMAC-SHA256 with 10,000 iterations, matching
// the 2FAS mobile apps. Derived keys are zeroed before a call returns.
package crypto
