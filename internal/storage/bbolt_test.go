package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.sealtext")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}
	return db
}

func TestOpenAndInitialize(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.sealtext")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	initialized, err := db.IsInitialized()
	if err != nil {
		t.Fatalf("Failed to check initialization: %v", err)
	}
	if initialized {
		t.Error("Fresh database should not be initialized")
	}

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	initialized, err = db.IsInitialized()
	if err != nil {
		t.Fatalf("Failed to check initialization: %v", err)
	}
	if !initialized {
		t.Error("Database should be initialized")
	}

	created, err := db.GetCreated()
	if err != nil {
		t.Fatalf("Failed to get created: %v", err)
	}
	if time.Since(created) > time.Minute {
		t.Errorf("Unexpected created time %v", created)
	}
}

func TestCheck(t *testing.T) {
	db := openTest(t)

	if _, err := db.GetCheck(); err == nil {
		t.Error("Expected error before check is set")
	}

	if err := db.SetCheck("check-envelope"); err != nil {
		t.Fatalf("Failed to set check: %v", err)
	}
	got, err := db.GetCheck()
	if err != nil {
		t.Fatalf("Failed to get check: %v", err)
	}
	if got != "check-envelope" {
		t.Errorf("Check mismatch: got %s", got)
	}
}

func TestEnvelopeOperations(t *testing.T) {
	db := openTest(t)

	if err := db.PutEnvelope("api-key", "ZW52ZWxvcGU="); err != nil {
		t.Fatalf("Failed to put envelope: %v", err)
	}

	got, err := db.GetEnvelope("api-key")
	if err != nil {
		t.Fatalf("Failed to get envelope: %v", err)
	}
	if got != "ZW52ZWxvcGU=" {
		t.Errorf("Envelope mismatch: got %s", got)
	}

	entries, err := db.GetIndex()
	if err != nil {
		t.Fatalf("Failed to get index: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Name != "api-key" || entries[0].Size != len("ZW52ZWxvcGU=") {
		t.Errorf("Unexpected entry: %+v", entries[0])
	}

	if _, err := db.GetEnvelope("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := db.DeleteEnvelope("api-key"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if err := db.DeleteEnvelope("api-key"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}

	entries, err = db.GetIndex()
	if err != nil {
		t.Fatalf("Failed to get index: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty index, got %d", len(entries))
	}
}

func TestPutEnvelope_KeepsCreated(t *testing.T) {
	db := openTest(t)

	if err := db.PutEnvelope("a", "one"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	first, _ := db.GetIndex()

	time.Sleep(10 * time.Millisecond)
	if err := db.PutEnvelope("a", "two-longer"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	second, _ := db.GetIndex()

	if !second[0].Created.Equal(first[0].Created) {
		t.Errorf("Created changed: %v -> %v", first[0].Created, second[0].Created)
	}
	if !second[0].Modified.After(first[0].Modified) {
		t.Error("Modified should advance")
	}
	if second[0].Size != len("two-longer") {
		t.Errorf("Size not updated: %d", second[0].Size)
	}
}

func TestGetIndex_Sorted(t *testing.T) {
	db := openTest(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := db.PutEnvelope(name, "x"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	entries, err := db.GetIndex()
	if err != nil {
		t.Fatalf("GetIndex failed: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, e := range entries {
		if e.Name != want[i] {
			t.Errorf("entry %d: got %s, want %s", i, e.Name, want[i])
		}
	}
}

func TestReplaceAll(t *testing.T) {
	db := openTest(t)
	db.PutEnvelope("a", "old-a")
	db.PutEnvelope("b", "old-b")

	if err := db.ReplaceAll(map[string]string{"a": "new-a", "b": "new-b"}, "new-check"); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	seen := map[string]string{}
	err := db.ForEachEnvelope(func(name, envelope string) error {
		seen[name] = envelope
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachEnvelope failed: %v", err)
	}
	if seen["a"] != "new-a" || seen["b"] != "new-b" {
		t.Errorf("Unexpected envelopes: %v", seen)
	}

	check, _ := db.GetCheck()
	if check != "new-check" {
		t.Errorf("Check not replaced: %s", check)
	}
}

func TestStoreID(t *testing.T) {
	db := openTest(t)

	if _, err := db.GetStoreID(); err == nil {
		t.Error("Expected error before ID is created")
	}

	id, err := db.GetOrCreateStoreID()
	if err != nil {
		t.Fatalf("GetOrCreateStoreID failed: %v", err)
	}
	if len(id) != 32 {
		t.Errorf("Expected 32 hex chars, got %d", len(id))
	}

	again, err := db.GetOrCreateStoreID()
	if err != nil {
		t.Fatalf("GetOrCreateStoreID failed: %v", err)
	}
	if again != id {
		t.Errorf("Store ID changed: %s -> %s", id, again)
	}
}

func TestCompact(t *testing.T) {
	db := openTest(t)

	for i := 0; i < 50; i++ {
		name := string(rune('a'+i%26)) + string(rune('a'+i/26))
		if err := db.PutEnvelope(name, "payload"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	if err := db.DeleteEnvelope("aa"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if err := db.Compact(); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}

	entries, err := db.GetIndex()
	if err != nil {
		t.Fatalf("GetIndex after compact failed: %v", err)
	}
	if len(entries) != 49 {
		t.Errorf("Expected 49 entries after compact, got %d", len(entries))
	}
	if _, err := db.GetEnvelope("ba"); err != nil {
		t.Errorf("Envelope lost in compact: %v", err)
	}
}
