package storage

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/illarion/sealtext/internal/crypto"
)

// Bucket names
var (
	ConfigBucket    = []byte("config")    // Version, timestamps, store ID, check - unencrypted
	IndexBucket     = []byte("index")     // Public entry list for ls - unencrypted
	EnvelopesBucket = []byte("envelopes") // Envelope text per entry
)

// Config keys
var (
	ConfigVersion  = []byte("version")
	ConfigCreated  = []byte("created")
	ConfigModified = []byte("modified")
	ConfigStoreID  = []byte("store_id")
	ConfigCheck    = []byte("check")
)

var ErrNotFound = errors.New("entry not found")

// Storage provides BBolt-based storage for envelopes
type Storage struct {
	db *bolt.DB
}

// IndexEntry describes a stored envelope
type IndexEntry struct {
	Name     string    `json:"name"`
	Size     int       `json:"size"` // Envelope length in characters
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

// Open opens or creates a store database
func Open(path string) (*Storage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.db.Path()
}

// Initialize creates the bucket structure for a new store
func (s *Storage) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, IndexBucket, EnvelopesBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if err := config.Put(ConfigVersion, []byte("1")); err != nil {
			return err
		}

		created, _ := time.Now().MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		return config.Put(ConfigModified, created)
	})
}

// IsInitialized checks if the database has been initialized
func (s *Storage) IsInitialized() (bool, error) {
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

// SetCheck stores the password check envelope
func (s *Storage) SetCheck(envelope string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(ConfigBucket).Put(ConfigCheck, []byte(envelope))
	})
}

// GetCheck retrieves the password check envelope
func (s *Storage) GetCheck() (string, error) {
	var check string
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigCheck)
		if data == nil {
			return fmt.Errorf("password check not found")
		}
		check = string(data)
		return nil
	})
	return check, err
}

// GetCreated retrieves the store creation timestamp
func (s *Storage) GetCreated() (time.Time, error) {
	return s.getTime(ConfigCreated)
}

// GetModified retrieves the last modified timestamp
func (s *Storage) GetModified() (time.Time, error) {
	return s.getTime(ConfigModified)
}

func (s *Storage) getTime(key []byte) (time.Time, error) {
	var t time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(key)
		if data == nil {
			return fmt.Errorf("%s not found", key)
		}
		return t.UnmarshalBinary(data)
	})
	return t, err
}

func touch(tx *bolt.Tx, now time.Time) error {
	modified, _ := now.MarshalBinary()
	return tx.Bucket(ConfigBucket).Put(ConfigModified, modified)
}

// GetStoreID retrieves the store ID from config bucket
func (s *Storage) GetStoreID() (string, error) {
	var storeID string
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigStoreID)
		if data == nil {
			return fmt.Errorf("store_id not found")
		}
		storeID = string(data)
		return nil
	})
	return storeID, err
}

// GetOrCreateStoreID retrieves existing store ID or generates a new one
func (s *Storage) GetOrCreateStoreID() (string, error) {
	storeID, err := s.GetStoreID()
	if err == nil {
		return storeID, nil
	}

	b, err := crypto.GenerateRandom(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate store ID: %w", err)
	}
	storeID = hex.EncodeToString(b)

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(ConfigBucket).Put(ConfigStoreID, []byte(storeID))
	})
	if err != nil {
		return "", err
	}

	return storeID, nil
}

// PutEnvelope stores an envelope and its index entry in one transaction
func (s *Storage) PutEnvelope(name, envelope string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		now := time.Now()
		if err := putEntry(tx, name, envelope, now); err != nil {
			return err
		}
		return touch(tx, now)
	})
}

func putEntry(tx *bolt.Tx, name, envelope string, now time.Time) error {
	index := tx.Bucket(IndexBucket)

	entry := IndexEntry{
		Name:     name,
		Size:     len(envelope),
		Created:  now,
		Modified: now,
	}
	if data := index.Get([]byte(name)); data != nil {
		var prev IndexEntry
		if err := json.Unmarshal(data, &prev); err == nil {
			entry.Created = prev.Created
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := index.Put([]byte(name), data); err != nil {
		return err
	}
	return tx.Bucket(EnvelopesBucket).Put([]byte(name), []byte(envelope))
}

// GetEnvelope retrieves the envelope stored under name
func (s *Storage) GetEnvelope(name string) (string, error) {
	var envelope string
	err := s.db.View(func(tx *bolt.Tx) error {
		envelopes := tx.Bucket(EnvelopesBucket)
		if envelopes == nil {
			return fmt.Errorf("envelopes bucket not found")
		}
		data := envelopes.Get([]byte(name))
		if data == nil {
			return ErrNotFound
		}
		envelope = string(data)
		return nil
	})
	return envelope, err
}

// DeleteEnvelope removes an envelope and its index entry
func (s *Storage) DeleteEnvelope(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(EnvelopesBucket).Get([]byte(name)) == nil {
			return ErrNotFound
		}
		if err := tx.Bucket(EnvelopesBucket).Delete([]byte(name)); err != nil {
			return err
		}
		if err := tx.Bucket(IndexBucket).Delete([]byte(name)); err != nil {
			return err
		}
		return touch(tx, time.Now())
	})
}

// GetIndex returns all index entries sorted by name
func (s *Storage) GetIndex() ([]IndexEntry, error) {
	var entries []IndexEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		index := tx.Bucket(IndexBucket)
		if index == nil {
			return fmt.Errorf("index bucket not found")
		}
		return index.ForEach(func(k, v []byte) error {
			var entry IndexEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			entries = append(entries, entry)
			return nil
		})
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, err
}

// ForEachEnvelope calls fn for every stored envelope
func (s *Storage) ForEachEnvelope(fn func(name, envelope string) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		envelopes := tx.Bucket(EnvelopesBucket)
		if envelopes == nil {
			return fmt.Errorf("envelopes bucket not found")
		}
		return envelopes.ForEach(func(k, v []byte) error {
			return fn(string(k), string(v))
		})
	})
}

// ReplaceAll rewrites the given envelopes and the password check atomically
func (s *Storage) ReplaceAll(envelopes map[string]string, check string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		now := time.Now()
		for name, envelope := range envelopes {
			if err := putEntry(tx, name, envelope, now); err != nil {
				return fmt.Errorf("failed to store %s: %w", name, err)
			}
		}
		if err := tx.Bucket(ConfigBucket).Put(ConfigCheck, []byte(check)); err != nil {
			return err
		}
		return touch(tx, now)
	})
}

// Compact creates a compacted copy of the database, removing unused space.
// This is useful after deleting entries to reclaim disk space.
func (s *Storage) Compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	err = s.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})

	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	s.db, err = bolt.Open(srcPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}

	return nil
}
