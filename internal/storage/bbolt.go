package storage

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	ConfigBucket   = []byte("config")   // KDF params (salt, iterations), timestamps - unencrypted
	IndexBucket    = []byte("index")    // Public account name list for ls - unencrypted
	AccountsBucket = []byte("accounts") // Encrypted account records
)

// Config keys
var (
	ConfigVersion  = []byte("version")
	ConfigCreated  = []byte("created")
	ConfigModified = []byte("modified")
	ConfigSalt     = []byte("salt")
	ConfigIters    = []byte("iterations")
	ConfigChecksum = []byte("checksum")
)

// Store provides BBolt-based storage for the local account archive
type Store struct {
	db *bolt.DB
}

// Open opens or creates an archive database
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Initialize creates the bucket structure for a new archive
func (s *Store) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, IndexBucket, AccountsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if err := config.Put(ConfigVersion, []byte("1")); err != nil {
			return err
		}

		now := time.Now()
		created, _ := now.MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		return config.Put(ConfigModified, created)
	})
}

// IsInitialized checks if the database has been initialized
func (s *Store) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config != nil && config.Get(ConfigVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// SetSalt stores the KDF salt
func (s *Store) SetSalt(salt []byte) error {
	return s.putConfig(ConfigSalt, salt)
}

// GetSalt retrieves the KDF salt
func (s *Store) GetSalt() ([]byte, error) {
	return s.getConfig(ConfigSalt)
}

// SetChecksum stores the encrypted password-verification checksum
func (s *Store) SetChecksum(blob []byte) error {
	return s.putConfig(ConfigChecksum, blob)
}

// GetChecksum retrieves the encrypted password-verification checksum
func (s *Store) GetChecksum() ([]byte, error) {
	return s.getConfig(ConfigChecksum)
}

// SetIterations stores the KDF iterations
func (s *Store) SetIterations(iterations uint32) error {
	iters := make([]byte, 4)
	binary.BigEndian.PutUint32(iters, iterations)
	return s.putConfig(ConfigIters, iters)
}

// GetIterations retrieves the KDF iterations
func (s *Store) GetIterations() (uint32, error) {
	iters, err := s.getConfig(ConfigIters)
	if err != nil {
		return 0, err
	}
	if len(iters) != 4 {
		return 0, fmt.Errorf("iterations malformed")
	}
	return binary.BigEndian.Uint32(iters), nil
}

// PutAccount stores an encrypted account record and registers its name in
// the public index
func (s *Store) PutAccount(name string, blob []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		accounts := tx.Bucket(AccountsBucket)
		if accounts == nil {
			return fmt.Errorf("accounts bucket not found")
		}
		if err := accounts.Put([]byte(name), blob); err != nil {
			return err
		}

		index := tx.Bucket(IndexBucket)
		if index == nil {
			return fmt.Errorf("index bucket not found")
		}
		now, _ := time.Now().MarshalBinary()
		if err := index.Put([]byte(name), now); err != nil {
			return err
		}

		config := tx.Bucket(ConfigBucket)
		modified, _ := time.Now().MarshalBinary()
		return config.Put(ConfigModified, modified)
	})
}

// GetAccount retrieves an encrypted account record
func (s *Store) GetAccount(name string) ([]byte, error) {
	var blob []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		accounts := tx.Bucket(AccountsBucket)
		if accounts == nil {
			return fmt.Errorf("accounts bucket not found")
		}
		v := accounts.Get([]byte(name))
		if v == nil {
			return fmt.Errorf("account %q not found", name)
		}
		blob = append([]byte(nil), v...)
		return nil
	})
	return blob, err
}

// ListAccounts returns the names in the public index, in key order
func (s *Store) ListAccounts() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		index := tx.Bucket(IndexBucket)
		if index == nil {
			return fmt.Errorf("index bucket not found")
		}
		return index.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// GetModified retrieves the last modified timestamp
func (s *Store) GetModified() (time.Time, error) {
	var modified time.Time
	data, err := s.getConfig(ConfigModified)
	if err != nil {
		return modified, err
	}
	err = modified.UnmarshalBinary(data)
	return modified, err
}

func (s *Store) putConfig(key, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		return config.Put(key, value)
	})
}

func (s *Store) getConfig(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		v := config.Get(key)
		if v == nil {
			return fmt.Errorf("config key %s not found", key)
		}
		// Make a copy since the slice is only valid during the transaction
		value = append([]byte(nil), v...)
		return nil
	})
	return value, err
}
