// Package vault understands the 2FAS backup container: the JSON document,
// the colon-delimited base64 envelope inside servicesEncrypted, and the
// decrypt/seal pipelines built on top of the cipher in internal/crypto.
//
// The only wire-level contract is the envelope field:
//
//	BASE64(ciphertext || tag) ":" BASE64(salt) ":" BASE64(iv)
//
// Exactly two colons, three base64 fields, tag trailing the ciphertext.
package vault
