package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/illarion/sealtext/internal/crypto"
	"github.com/illarion/sealtext/internal/envelope"
	"github.com/illarion/sealtext/internal/storage"
)

const (
	MaxNameLength       = 255
	passwordCheckString = "sealtext-password-check"
)

var (
	ErrNotInitialized = errors.New("store not initialized")
	ErrAlreadyExists  = errors.New("store already exists")
	ErrWrongPassword  = errors.New("wrong password")
	ErrNotFound       = errors.New("entry not found")
	ErrInvalidName    = errors.New("invalid entry name")
)

// Store manages named envelopes in a single database file
type Store struct {
	path string
}

// StatusInfo summarizes a store without requiring its password
type StatusInfo struct {
	Path     string
	Entries  int
	Size     int
	Created  time.Time
	Modified time.Time
}

// New creates a new Store for the database at path
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// open opens an existing, initialized store
func (s *Store) open() (*storage.Storage, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, ErrNotInitialized
	}

	db, err := storage.Open(s.path)
	if err != nil {
		return nil, err
	}

	initialized, err := db.IsInitialized()
	if err != nil || !initialized {
		db.Close()
		return nil, ErrNotInitialized
	}
	return db, nil
}

// Init initializes a new store protected by password
func (s *Store) Init(password []byte) error {
	if _, err := os.Stat(s.path); err == nil {
		return ErrAlreadyExists
	}

	check, err := envelope.Seal([]byte(passwordCheckString), password)
	if err != nil {
		return fmt.Errorf("failed to create password check: %w", err)
	}

	db, err := storage.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.SetCheck(check); err != nil {
		return fmt.Errorf("failed to store password check: %w", err)
	}

	return nil
}

// verify checks password against the stored check envelope
func verify(db *storage.Storage, password []byte) error {
	check, err := db.GetCheck()
	if err != nil {
		return fmt.Errorf("failed to read password check: %w", err)
	}

	data, err := envelope.Open(check, password)
	if err != nil {
		if errors.Is(err, envelope.ErrInvalidArgument) {
			return err
		}
		return ErrWrongPassword
	}
	defer crypto.ClearBytes(data)

	if !crypto.ConstantTimeCompare(data, []byte(passwordCheckString)) {
		return ErrWrongPassword
	}
	return nil
}

// VerifyPassword checks if the password is correct for this store
func (s *Store) VerifyPassword(password []byte) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	return verify(db, password)
}

func validateName(name string) error {
	if name == "" || len(name) > MaxNameLength {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}

// Put seals value under the store password and saves it as name
func (s *Store) Put(name string, value, password []byte) error {
	if err := validateName(name); err != nil {
		return err
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := verify(db, password); err != nil {
		return err
	}

	env, err := envelope.Seal(value, password)
	if err != nil {
		return err
	}

	if err := db.PutEnvelope(name, env); err != nil {
		return fmt.Errorf("failed to store %s: %w", name, err)
	}
	return nil
}

// Get opens the envelope stored as name.
// The caller should clear the result with crypto.ClearBytes when done.
func (s *Store) Get(name string, password []byte) ([]byte, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := verify(db, password); err != nil {
		return nil, err
	}

	env, err := db.GetEnvelope(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}

	value, err := envelope.Open(env, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return value, nil
}

// Export returns the raw envelope stored as name
func (s *Store) Export(name string) (string, error) {
	db, err := s.open()
	if err != nil {
		return "", err
	}
	defer db.Close()

	env, err := db.GetEnvelope(name)
	if errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return env, err
}

// Remove deletes the named entries and returns the names actually removed
func (s *Store) Remove(ctx context.Context, names []string, password []byte) ([]string, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := verify(db, password); err != nil {
		return nil, err
	}

	var removed []string
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := db.DeleteEnvelope(name); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return removed, fmt.Errorf("failed to remove %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}

// List returns the index of stored entries
func (s *Store) List(ctx context.Context) ([]storage.IndexEntry, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return db.GetIndex()
}

// Status reports store metadata
func (s *Store) Status(ctx context.Context) (*StatusInfo, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	entries, err := db.GetIndex()
	if err != nil {
		return nil, err
	}

	info := &StatusInfo{
		Path:    s.path,
		Entries: len(entries),
	}
	for _, e := range entries {
		info.Size += e.Size
	}

	if info.Created, err = db.GetCreated(); err != nil {
		return nil, err
	}
	if info.Modified, err = db.GetModified(); err != nil {
		return nil, err
	}
	return info, ctx.Err()
}

// ChangePassword re-seals every entry under newPassword.
// All entries and the password check are replaced in one transaction.
func (s *Store) ChangePassword(ctx context.Context, currentPassword, newPassword []byte) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := verify(db, currentPassword); err != nil {
		return err
	}

	resealed := make(map[string]string)
	err = db.ForEachEnvelope(func(name, env string) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		value, err := envelope.Open(env, currentPassword)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer crypto.ClearBytes(value)

		sealed, err := envelope.Seal(value, newPassword)
		if err != nil {
			return fmt.Errorf("failed to seal %s: %w", name, err)
		}
		resealed[name] = sealed
		return nil
	})
	if err != nil {
		return err
	}

	check, err := envelope.Seal([]byte(passwordCheckString), newPassword)
	if err != nil {
		return fmt.Errorf("failed to create password check: %w", err)
	}

	return db.ReplaceAll(resealed, check)
}

// Compact compacts the database to reclaim unused space.
// This is useful after removing entries from the store.
func (s *Store) Compact() error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Compact()
}

// GetStoreID retrieves the store ID used as the keyring account
func (s *Store) GetStoreID() (string, error) {
	db, err := s.open()
	if err != nil {
		return "", err
	}
	defer db.Close()

	return db.GetStoreID()
}

// GetOrCreateStoreID retrieves existing store ID or generates a new one
func (s *Store) GetOrCreateStoreID() (string, error) {
	db, err := s.open()
	if err != nil {
		return "", err
	}
	defer db.Close()

	return db.GetOrCreateStoreID()
}
