package cache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-licensekit/pkg/cache"
	"github.com/goliatone/go-licensekit/pkg/catalog"
)

func testSnapshot() catalog.Catalog {
	return catalog.Catalog{
		Fingerprint: "fp-1",
		Entries: map[catalog.SpdxID]catalog.LicenseEntry{
			"mit": {
				ID:          "mit",
				Display:     "MIT",
				Title:       "MIT License",
				ContentHash: "sha-mit",
				RawText:     "Copyright (c) [year] [fullname]",
				LastSynced:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			},
		},
	}
}

func TestLoadMissingFileIsEmptyCatalog(t *testing.T) {
	store := cache.New(filepath.Join(t.TempDir(), "catalog.json"))

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if got.Fingerprint != "" || len(got.Entries) != 0 {
		t.Errorf("Load() = %+v, want empty catalog", got)
	}
	if got.Entries == nil {
		t.Error("Entries map is nil, want empty map")
	}
}

func TestReplaceThenLoadRoundtrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.json")
	store := cache.New(path)

	want := testSnapshot()
	if err := store.Replace(want); err != nil {
		t.Fatalf("Replace(): %v", err)
	}

	// A fresh store reading the same path sees the committed snapshot.
	got, err := cache.New(path).Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotServesCommittedState(t *testing.T) {
	store := cache.New(filepath.Join(t.TempDir(), "catalog.json"))

	if err := store.Replace(testSnapshot()); err != nil {
		t.Fatalf("Replace(): %v", err)
	}
	got, err := store.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot(): %v", err)
	}
	if got.Fingerprint != "fp-1" {
		t.Errorf("fingerprint = %q, want fp-1", got.Fingerprint)
	}
}

func TestReplaceLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := cache.New(filepath.Join(dir, "catalog.json"))

	if err := store.Replace(testSnapshot()); err != nil {
		t.Fatalf("Replace(): %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(): %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "catalog.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only catalog.json", names)
	}
}

func TestLoadCorruptSnapshotFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := cache.New(path).Load(); err == nil {
		t.Error("Load() succeeded on corrupt snapshot, want error")
	}
}
