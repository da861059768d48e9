// Package storage persists the local account archive in a single BBolt
// file. KDF parameters and the account name index are stored unencrypted;
// account records are opaque encrypted blobs owned by the vault package.
package storage
