// Package prefs persists default placeholder values between runs. The record
// lives apart from the license catalog: sync never touches it, and only
// explicit set/clear operations mutate it.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-licensekit/pkg/catalog"
)

const prefsFilename = "placeholders.json"

// SavableKeys are the placeholder keys a preference may be stored under.
// year is deliberately absent: it is computed, never remembered.
var SavableKeys = []string{"email", "fullname", "project", "projecturl"}

// DefaultPath returns the per-user default preferences location.
func DefaultPath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("prefs: resolve user cache dir: %w", err)
	}
	return filepath.Join(base, "licensekit", prefsFilename), nil
}

// Savable reports whether key may carry a saved preference.
func Savable(key string) bool {
	for _, allowed := range SavableKeys {
		if key == allowed {
			return true
		}
	}
	return false
}

// Store reads and writes the placeholder preference record. Each mutation
// loads, applies, and atomically rewrites the whole record, so concurrent
// CLI invocations never observe a torn file.
type Store struct {
	path string
}

// New constructs a Store for the given record path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the record location.
func (s *Store) Path() string {
	return s.path
}

// All returns every saved preference. A missing record is an empty map.
func (s *Store) All() (map[string]string, error) {
	return s.load()
}

// Get returns the saved value for key, with ok reporting presence.
func (s *Store) Get(key string) (string, bool, error) {
	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set stores value under key. Keys outside SavableKeys are rejected with a
// ValidationError so typos do not silently pollute the record.
func (s *Store) Set(key, value string) error {
	key = strings.TrimSpace(key)
	if !Savable(key) {
		return &catalog.ValidationError{
			Reason: fmt.Sprintf("placeholder key %q is not savable; valid keys: %s",
				key, strings.Join(SavableKeys, ", ")),
		}
	}

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

// Clear removes the named keys, or every preference when keys is empty. It
// returns the keys actually removed, sorted.
func (s *Store) Clear(keys ...string) ([]string, error) {
	values, err := s.load()
	if err != nil {
		return nil, err
	}

	var removed []string
	if len(keys) == 0 {
		for key := range values {
			removed = append(removed, key)
		}
		values = map[string]string{}
	} else {
		for _, key := range keys {
			if _, ok := values[key]; ok {
				delete(values, key)
				removed = append(removed, key)
			}
		}
	}
	sort.Strings(removed)

	if len(removed) == 0 {
		return nil, nil
	}
	return removed, s.save(values)
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("prefs: read record: %w", err)
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("prefs: decode record %s: %w", s.path, err)
	}
	return values, nil
}

func (s *Store) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return &catalog.WriteError{Path: s.path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &catalog.WriteError{Path: s.path, Err: err}
	}
	if err := atomicWrite(s.path, data, 0o644); err != nil {
		return &catalog.WriteError{Path: s.path, Err: err}
	}
	return nil
}

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
