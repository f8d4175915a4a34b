package access

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStoreMissingFileIsUnpaid(t *testing.T) {
	store := NewFileStore(t.TempDir())
	paid, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if paid {
		t.Fatal("expected unpaid for missing file")
	}
}

func TestGatePersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()

	gate, err := NewGate(NewFileStore(dir))
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	if gate.Paid() {
		t.Fatal("expected fresh gate to be unpaid")
	}
	if err := gate.Grant(); err != nil {
		t.Fatalf("Grant: %v", err)
	}
	if !gate.Paid() {
		t.Fatal("expected gate to be paid after grant")
	}

	// Reinitializing from the same store must observe the persisted flag
	// without any payment flow.
	reloaded, err := NewGate(NewFileStore(dir))
	if err != nil {
		t.Fatalf("NewGate (reload): %v", err)
	}
	if !reloaded.Paid() {
		t.Fatal("expected reloaded gate to be paid")
	}
}

func TestGrantIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	gate, err := NewGate(NewFileStore(dir))
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := gate.Grant(); err != nil {
			t.Fatalf("Grant #%d: %v", i+1, err)
		}
	}
	if !gate.Paid() {
		t.Fatal("expected paid gate")
	}
}

func TestSaveWritesAccessKey(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	if err := store.Save(true); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, stateFile))
	if err != nil {
		t.Fatalf("read state file: %v", err)
	}
	if !strings.Contains(string(data), `"safemedia_access": "true"`) {
		t.Fatalf("unexpected state payload %q", string(data))
	}
}

func TestLoadRejectsCorruptState(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, stateFile), []byte("{nope"), 0o600); err != nil {
		t.Fatalf("write corrupt state: %v", err)
	}
	if _, err := NewFileStore(dir).Load(); err == nil {
		t.Fatal("expected decode error")
	}
}

type failingStore struct{}

func (failingStore) Load() (bool, error) { return false, nil }
func (failingStore) Save(bool) error     { return errors.New("disk full") }

func TestGrantSurfacesStoreFailure(t *testing.T) {
	gate, err := NewGate(failingStore{})
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	if err := gate.Grant(); err == nil {
		t.Fatal("expected grant failure")
	}
	if gate.Paid() {
		t.Fatal("gate must stay unpaid when persistence fails")
	}
}
