package cmd

import (
	"fmt"

	"github.com/illarion/sealtext/internal/core"
	"github.com/illarion/sealtext/internal/crypto"
	"github.com/illarion/sealtext/internal/keyring"
)

func keyringSave(storeID string, password []byte) error {
	return keyring.SavePassword(storeID, string(password))
}

// KeyringSave saves the store password to the OS keyring
func KeyringSave() error {
	store := openStore()

	password, err := core.ReadPassword("Enter password: ")
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)

	// Verify password is correct
	if err := store.VerifyPassword(password); err != nil {
		return err
	}

	// Get store ID (create if not exists)
	storeID, err := store.GetOrCreateStoreID()
	if err != nil {
		return err
	}

	if err := keyringSave(storeID, password); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}

	success("Password saved to keyring")
	return nil
}

// KeyringDelete removes the store password from the OS keyring
func KeyringDelete() error {
	storeID, err := openStore().GetStoreID()
	if err != nil {
		fmt.Fprintln(stdout, "No password stored in keyring")
		return nil
	}

	if err := keyring.DeletePassword(storeID); err != nil {
		fmt.Fprintln(stdout, "No password stored in keyring")
		return nil
	}

	fmt.Fprintln(stdout, "Password removed from keyring")
	return nil
}

// KeyringStatus checks if a password is stored in the keyring
func KeyringStatus() error {
	storeID, err := openStore().GetStoreID()
	if err != nil {
		fmt.Fprintln(stdout, "Password: not stored")
		return nil
	}

	if keyring.HasPassword(storeID) {
		fmt.Fprintln(stdout, "Password: stored in keyring")
	} else {
		fmt.Fprintln(stdout, "Password: not stored")
	}
	return nil
}
