package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/illarion/sealtext/internal/core"
	"github.com/illarion/sealtext/internal/crypto"
	"github.com/illarion/sealtext/internal/git"
)

func openStore() *core.Store {
	return core.New(cfg.Store)
}

// storePassword resolves the password for an existing store
func storePassword(store *core.Store) ([]byte, PasswordSource, error) {
	storeID, _ := store.GetStoreID()
	return GetPasswordWithRetry("Enter password: ", storeID, store.VerifyPassword)
}

// offerKeyring offers to remember a password that was typed in
func offerKeyring(store *core.Store, password []byte, source PasswordSource) {
	if source != SourcePrompt {
		return
	}
	storeID, err := store.GetOrCreateStoreID()
	if err != nil {
		return
	}
	OfferToSavePassword(storeID, password)
}

// Init creates a new envelope store
func Init() error {
	store := openStore()

	password, _, err := GetNewPassword("")
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)

	if err := store.Init(password); err != nil {
		return err
	}

	success("Initialized %s", store.Path())
	return nil
}

// Put seals text and stores it under name
func Put(name, text string) error {
	text, err := readInput(text)
	if err != nil {
		return err
	}

	store := openStore()
	password, source, err := storePassword(store)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)

	value := []byte(text)
	defer crypto.ClearBytes(value)

	if err := store.Put(name, value, password); err != nil {
		return err
	}
	log.Debugf("stored %s in %s", name, store.Path())

	success("Stored %s", name)
	offerKeyring(store, password, source)
	return nil
}

// Get prints the decrypted value stored under name
func Get(name string) error {
	store := openStore()
	password, source, err := storePassword(store)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)

	value, err := store.Get(name, password)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(value)

	fmt.Fprintln(stdout, string(value))
	offerKeyring(store, password, source)
	return nil
}

// Export prints the raw envelope stored under name
func Export(name string) error {
	env, err := openStore().Export(name)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, env)
	return nil
}

// Remove deletes entries from the store
func Remove(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("rm requires at least one name\nUsage: sealtext rm <name> [name...]")
	}

	store := openStore()
	password, _, err := storePassword(store)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)

	removed, err := store.Remove(ctx, names, password)
	for _, name := range removed {
		fmt.Fprintf(stdout, "removed: %s\n", name)
	}
	if err != nil {
		return err
	}
	if len(removed) < len(names) {
		fmt.Fprintf(stdout, "not found: %d names\n", len(names)-len(removed))
	}
	if len(removed) == 0 {
		return nil
	}

	// Compact database to reclaim space
	if err := store.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}
	return nil
}

// List shows stored entries; no password is required
func List(ctx context.Context) error {
	store := openStore()

	if _, err := os.Stat(store.Path()); os.IsNotExist(err) {
		fmt.Fprintf(stdout, "No store found at %s\n", store.Path())
		fmt.Fprintln(stdout, "Run 'sealtext init' to create one")
		return nil
	}

	status, err := store.Status(ctx)
	if err != nil {
		return err
	}
	entries, err := store.List(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Store: %s\n", status.Path)
	fmt.Fprintf(stdout, "Entries: %d (%s of envelopes)\n", status.Entries, formatSize(int64(status.Size)))
	fmt.Fprintf(stdout, "Modified: %s\n", status.Modified.Format(time.RFC3339))
	fmt.Fprintln(stdout)

	if len(entries) == 0 {
		fmt.Fprintln(stdout, "  (none)")
	}
	for _, e := range entries {
		fmt.Fprintf(stdout, "  %-30s %8s  %s\n", e.Name, formatSize(int64(e.Size)), e.Modified.Format(time.RFC3339))
	}

	fmt.Fprint(stdout, git.FormatStoreStatus(git.CheckStore(store.Path())))
	return nil
}

// Passwd re-seals every entry under a new password
func Passwd(ctx context.Context) error {
	store := openStore()
	storeID, _ := store.GetStoreID()

	currentPassword, _, err := GetPasswordWithRetry("Enter current password: ", storeID, store.VerifyPassword)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(currentPassword)

	newPassword, err := core.ReadPasswordConfirm()
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(newPassword)

	if err := store.ChangePassword(ctx, currentPassword, newPassword); err != nil {
		return err
	}

	// Always try to update keyring if store ID exists
	if cfg.Keyring && storeID != "" {
		if err := keyringSave(storeID, newPassword); err == nil {
			fmt.Fprintln(stdout, "Keyring updated with new password")
		}
	}

	// Compact database after rewriting all data
	if err := store.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}

	success("Password changed")
	return nil
}

// Compact compacts the store database to reclaim unused space
func Compact() error {
	store := openStore()

	info, err := os.Stat(store.Path())
	if err != nil {
		return core.ErrNotInitialized
	}
	sizeBefore := info.Size()

	if err := store.Compact(); err != nil {
		return err
	}

	info, err = os.Stat(store.Path())
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(info.Size()))
	return nil
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
