package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/illarion/sealtext/internal/envelope"
)

func newTestStore(t *testing.T, password []byte) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), ".sealtext"))
	if err := store.Init(password); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return store
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	store := New(filepath.Join(dir, ".sealtext"))
	password := []byte("test123")

	if err := store.Init(password); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	// Test init again (should fail)
	if err := store.Init(password); err != ErrAlreadyExists {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}

	if _, err := os.Stat(store.Path()); err != nil {
		t.Errorf("Store file should exist: %v", err)
	}

	if err := store.VerifyPassword(password); err != nil {
		t.Errorf("VerifyPassword failed: %v", err)
	}
}

func TestInit_EmptyPassword(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), ".sealtext"))

	err := store.Init(nil)
	if !errors.Is(err, envelope.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
	if _, statErr := os.Stat(store.Path()); !os.IsNotExist(statErr) {
		t.Error("Store file should not be created")
	}
}

func TestNotInitialized(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), ".sealtext"))

	if err := store.VerifyPassword([]byte("x")); err != ErrNotInitialized {
		t.Errorf("VerifyPassword: expected ErrNotInitialized, got %v", err)
	}
	if _, err := store.List(context.Background()); err != ErrNotInitialized {
		t.Errorf("List: expected ErrNotInitialized, got %v", err)
	}
	if err := store.Put("a", []byte("b"), []byte("x")); err != ErrNotInitialized {
		t.Errorf("Put: expected ErrNotInitialized, got %v", err)
	}
}

func TestPutGet(t *testing.T) {
	password := []byte("test123")
	store := newTestStore(t, password)

	if err := store.Put("db-password", []byte("hunter2"), password); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	value, err := store.Get("db-password", password)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != "hunter2" {
		t.Errorf("Value mismatch: got %q", value)
	}

	if _, err := store.Get("missing", password); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPut_Overwrite(t *testing.T) {
	password := []byte("test123")
	store := newTestStore(t, password)

	store.Put("k", []byte("v1"), password)
	if err := store.Put("k", []byte("v2"), password); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	value, err := store.Get("k", password)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != "v2" {
		t.Errorf("Expected v2, got %q", value)
	}

	entries, _ := store.List(context.Background())
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(entries))
	}
}

func TestPut_InvalidName(t *testing.T) {
	password := []byte("test123")
	store := newTestStore(t, password)

	for _, name := range []string{"", "tab\tname", string(make([]byte, MaxNameLength+1))} {
		if err := store.Put(name, []byte("v"), password); !errors.Is(err, ErrInvalidName) {
			t.Errorf("name %q: expected ErrInvalidName, got %v", name, err)
		}
	}
}

func TestPut_InvalidUTF8(t *testing.T) {
	password := []byte("test123")
	store := newTestStore(t, password)

	err := store.Put("latin1", []byte("caf\xe9"), password)
	if !errors.Is(err, envelope.ErrInvalidArgument) {
		t.Fatalf("Expected ErrInvalidArgument, got %v", err)
	}

	if _, err := store.Get("latin1", password); !errors.Is(err, ErrNotFound) {
		t.Errorf("Rejected value should not be stored, got %v", err)
	}

	// the store must still be re-keyable
	newPassword := []byte("new")
	if err := store.ChangePassword(context.Background(), password, newPassword); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if err := store.VerifyPassword(newPassword); err != nil {
		t.Errorf("VerifyPassword with new password failed: %v", err)
	}
}

func TestWrongPassword(t *testing.T) {
	password := []byte("correct")
	store := newTestStore(t, password)
	store.Put("k", []byte("v"), password)

	wrong := []byte("incorrect")
	if err := store.VerifyPassword(wrong); err != ErrWrongPassword {
		t.Errorf("VerifyPassword: expected ErrWrongPassword, got %v", err)
	}
	if _, err := store.Get("k", wrong); err != ErrWrongPassword {
		t.Errorf("Get: expected ErrWrongPassword, got %v", err)
	}
	if err := store.Put("k2", []byte("v"), wrong); err != ErrWrongPassword {
		t.Errorf("Put: expected ErrWrongPassword, got %v", err)
	}
	if _, err := store.Remove(context.Background(), []string{"k"}, wrong); err != ErrWrongPassword {
		t.Errorf("Remove: expected ErrWrongPassword, got %v", err)
	}
}

func TestExportDecryptsStandalone(t *testing.T) {
	password := []byte("test123")
	store := newTestStore(t, password)
	store.Put("token", []byte("abc-def"), password)

	env, err := store.Export("token")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	got, err := envelope.Decrypt(env, "test123")
	if err != nil {
		t.Fatalf("Decrypt of exported envelope failed: %v", err)
	}
	if got != "abc-def" {
		t.Errorf("Expected abc-def, got %q", got)
	}

	if _, err := store.Export("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	password := []byte("test123")
	store := newTestStore(t, password)
	store.Put("a", []byte("1"), password)
	store.Put("b", []byte("2"), password)

	removed, err := store.Remove(context.Background(), []string{"a", "missing"}, password)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(removed) != 1 || removed[0] != "a" {
		t.Errorf("Unexpected removed list: %v", removed)
	}

	entries, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "b" {
		t.Errorf("Unexpected entries: %+v", entries)
	}

	if err := store.Compact(); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}
	if _, err := store.Get("b", password); err != nil {
		t.Errorf("Get after compact failed: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	oldPassword := []byte("old")
	newPassword := []byte("new")
	store := newTestStore(t, oldPassword)
	store.Put("a", []byte("alpha"), oldPassword)
	store.Put("b", []byte("beta"), oldPassword)

	if err := store.ChangePassword(context.Background(), []byte("bad"), newPassword); err != ErrWrongPassword {
		t.Errorf("Expected ErrWrongPassword, got %v", err)
	}

	if err := store.ChangePassword(context.Background(), oldPassword, newPassword); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if err := store.VerifyPassword(oldPassword); err != ErrWrongPassword {
		t.Errorf("Old password should be rejected, got %v", err)
	}

	for name, want := range map[string]string{"a": "alpha", "b": "beta"} {
		got, err := store.Get(name, newPassword)
		if err != nil {
			t.Fatalf("Get %s failed: %v", name, err)
		}
		if string(got) != want {
			t.Errorf("%s: got %q, want %q", name, got, want)
		}

		env, _ := store.Export(name)
		if _, err := envelope.Decrypt(env, "old"); err == nil {
			t.Errorf("%s should not decrypt with the old password", name)
		}
	}
}

func TestChangePassword_Cancelled(t *testing.T) {
	password := []byte("old")
	store := newTestStore(t, password)
	store.Put("a", []byte("alpha"), password)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.ChangePassword(ctx, password, []byte("new")); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if err := store.VerifyPassword(password); err != nil {
		t.Errorf("Old password should still work: %v", err)
	}
}

func TestStatus(t *testing.T) {
	password := []byte("test123")
	store := newTestStore(t, password)
	store.Put("a", []byte("1"), password)
	store.Put("b", []byte("2"), password)

	status, err := store.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Entries != 2 {
		t.Errorf("Expected 2 entries, got %d", status.Entries)
	}
	if status.Size <= 0 {
		t.Errorf("Expected positive size, got %d", status.Size)
	}
	if status.Modified.Before(status.Created) {
		t.Error("Modified should not precede created")
	}
}

func TestStoreID(t *testing.T) {
	store := newTestStore(t, []byte("pw"))

	if _, err := store.GetStoreID(); err == nil {
		t.Error("Expected error before store ID exists")
	}
	id, err := store.GetOrCreateStoreID()
	if err != nil {
		t.Fatalf("GetOrCreateStoreID failed: %v", err)
	}
	got, err := store.GetStoreID()
	if err != nil || got != id {
		t.Errorf("GetStoreID: got %q, %v; want %q", got, err, id)
	}
}
