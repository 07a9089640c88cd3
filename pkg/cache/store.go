// Package cache persists the synchronized license catalog as a single JSON
// snapshot. Readers tolerate a missing file (empty catalog); the writer
// replaces the snapshot atomically so a crashed or cancelled refresh can
// never leave a partially written catalog behind.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goliatone/go-licensekit/pkg/catalog"
)

const snapshotFilename = "catalog.json"

// DefaultPath returns the per-user default snapshot location.
func DefaultPath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cache: resolve user cache dir: %w", err)
	}
	return filepath.Join(base, "licensekit", snapshotFilename), nil
}

// Store is a single-writer/multi-reader catalog snapshot holder. Load and
// Snapshot may run concurrently with a refresh; Replace briefly takes the
// writer side while swapping in the new snapshot.
type Store struct {
	path string

	mu      sync.RWMutex
	current *catalog.Catalog
}

// New constructs a Store for the given snapshot path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted snapshot into memory and returns it. A missing or
// empty file is an empty catalog, not an error.
func (s *Store) Load() (catalog.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		empty := catalog.Catalog{Entries: map[catalog.SpdxID]catalog.LicenseEntry{}}
		s.current = &empty
		return empty, nil
	}
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("cache: read snapshot: %w", err)
	}
	if len(data) == 0 {
		empty := catalog.Catalog{Entries: map[catalog.SpdxID]catalog.LicenseEntry{}}
		s.current = &empty
		return empty, nil
	}

	var snapshot catalog.Catalog
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return catalog.Catalog{}, fmt.Errorf("cache: decode snapshot %s: %w", s.path, err)
	}
	if snapshot.Entries == nil {
		snapshot.Entries = map[catalog.SpdxID]catalog.LicenseEntry{}
	}
	s.current = &snapshot
	return snapshot, nil
}

// Snapshot returns the last committed catalog, loading it on first use.
func (s *Store) Snapshot() (catalog.Catalog, error) {
	s.mu.RLock()
	cached := s.current
	s.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}
	return s.Load()
}

// Replace persists the new snapshot with write-new-then-rename semantics and
// commits it as the current in-memory catalog. The caller must pass a fully
// assembled snapshot; partial writes are impossible by construction.
func (s *Store) Replace(snapshot catalog.Catalog) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return &catalog.WriteError{Path: s.path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &catalog.WriteError{Path: s.path, Err: err}
	}
	if err := atomicWrite(s.path, data, 0o644); err != nil {
		return &catalog.WriteError{Path: s.path, Err: err}
	}

	s.mu.Lock()
	s.current = &snapshot
	s.mu.Unlock()
	return nil
}

// atomicWrite writes content to a temp file in the destination directory and
// renames it over the target.
func atomicWrite(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
