// Package access owns the paid/unpaid boundary controlling whether analysis
// features are reachable. The flag lives in client-local storage with no
// server-side verification; keeping it behind the Store interface lets a
// verifying implementation replace the file store without touching callers.
package access

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// AccessKey is the persisted flag name. The stored value is the literal
// string "true"; anything else reads as unpaid.
const AccessKey = "safemedia_access"

const stateFile = "access.json"

// Store abstracts persistence for the access flag.
type Store interface {
	Load() (bool, error)
	Save(paid bool) error
}

// FileStore keeps the flag in a JSON file on disk.
type FileStore struct {
	path string
}

// NewFileStore builds a FileStore rooted in the provided state directory.
func NewFileStore(stateDir string) *FileStore {
	return &FileStore{path: filepath.Join(stateDir, stateFile)}
}

// Load reads the access flag. A missing file resolves to unpaid.
func (s *FileStore) Load() (bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read access state: %w", err)
	}

	var state map[string]string
	if err := json.Unmarshal(data, &state); err != nil {
		return false, fmt.Errorf("decode access state: %w", err)
	}
	return state[AccessKey] == "true", nil
}

// Save persists the access flag with restricted permissions.
func (s *FileStore) Save(paid bool) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("ensure state directory: %w", err)
	}

	value := "false"
	if paid {
		value = "true"
	}
	data, err := json.MarshalIndent(map[string]string{AccessKey: value}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode access state: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write access state: %w", err)
	}
	return nil
}

// Gate is the in-memory view of the access flag, initialized from the store
// at startup. Once granted, access never resets within the running session.
type Gate struct {
	mu    sync.Mutex
	store Store
	paid  bool
}

// NewGate loads the persisted flag and wraps it.
func NewGate(store Store) (*Gate, error) {
	paid, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Gate{store: store, paid: paid}, nil
}

// Paid reports whether analysis features are unlocked.
func (g *Gate) Paid() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paid
}

// Grant unlocks access and persists the flag. Granting an already-paid gate
// is a no-op, so reprocessing a payment indicator cannot double-write.
func (g *Gate) Grant() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paid {
		return nil
	}
	if err := g.store.Save(true); err != nil {
		return err
	}
	g.paid = true
	return nil
}
