// Package keyring caches envelope store passwords in the OS keyring.
// Entries are keyed by the store ID, so moving a store file keeps its entry.
package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const serviceName = "sealtext"

var ErrNotStored = keyring.ErrNotFound

// SavePassword stores a password in the OS keyring
func SavePassword(storeID string, password string) error {
	return keyring.Set(serviceName, storeID, password)
}

// GetPassword retrieves a password from the OS keyring
func GetPassword(storeID string) (string, error) {
	return keyring.Get(serviceName, storeID)
}

// DeletePassword removes a password from the OS keyring
func DeletePassword(storeID string) error {
	return keyring.Delete(serviceName, storeID)
}

// HasPassword checks if a password is stored in the keyring
func HasPassword(storeID string) bool {
	_, err := keyring.Get(serviceName, storeID)
	return err == nil
}

// IsNotStored reports whether err means no password was stored
func IsNotStored(err error) bool {
	return errors.Is(err, ErrNotStored)
}
