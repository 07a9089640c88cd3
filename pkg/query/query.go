// Package query implements the read-only operations over the cached catalog:
// listing, comparison, discovery, and single-license lookups. Batch
// operations collect per-id errors and keep going; single-target lookups
// fail fast.
package query

import (
	"sort"

	"github.com/goliatone/go-licensekit/pkg/cache"
	"github.com/goliatone/go-licensekit/pkg/catalog"
)

// Engine serves queries against the last committed catalog snapshot.
type Engine struct {
	store *cache.Store
}

// New constructs an Engine over the given cache store.
func New(store *cache.Store) *Engine {
	return &Engine{store: store}
}

// List returns the entries for the requested ids in request order. Unknown
// or malformed ids are collected into missing without aborting the rest.
// With no ids it returns every cached entry sorted by id.
func (e *Engine) List(ids []string) (entries []catalog.LicenseEntry, missing []error, err error) {
	snapshot, err := e.store.Snapshot()
	if err != nil {
		return nil, nil, err
	}

	if len(ids) == 0 {
		for _, id := range snapshot.IDs() {
			entries = append(entries, snapshot.Entries[id])
		}
		return entries, nil, nil
	}

	for _, raw := range ids {
		id, parseErr := catalog.ParseSpdxID(raw)
		if parseErr != nil {
			missing = append(missing, parseErr)
			continue
		}
		entry, ok := snapshot.Entries[id]
		if !ok {
			missing = append(missing, &catalog.NotFoundError{ID: id})
			continue
		}
		entries = append(entries, entry)
	}
	return entries, missing, nil
}

// DetailedList selects the same entries as List; the detailed form differs
// in presentation, not selection.
func (e *Engine) DetailedList(ids []string) ([]catalog.LicenseEntry, []error, error) {
	return e.List(ids)
}

// Info returns a single entry. Unknown ids are fatal here: the caller asked
// for exactly one thing.
func (e *Engine) Info(rawID string) (catalog.LicenseEntry, error) {
	id, err := catalog.ParseSpdxID(rawID)
	if err != nil {
		return catalog.LicenseEntry{}, err
	}
	snapshot, err := e.store.Snapshot()
	if err != nil {
		return catalog.LicenseEntry{}, err
	}
	entry, ok := snapshot.Entries[id]
	if !ok {
		return catalog.LicenseEntry{}, &catalog.NotFoundError{ID: id}
	}
	return entry, nil
}

// Placeholders returns the placeholder specs for a single license, in
// first-occurrence order.
func (e *Engine) Placeholders(rawID string) ([]catalog.PlaceholderSpec, error) {
	entry, err := e.Info(rawID)
	if err != nil {
		return nil, err
	}
	return entry.Placeholders, nil
}

// Find returns the ids of every cached license whose rules contain all of
// require and none of disallow, sorted. Tags match across categories; an
// empty require matches everything. Overlapping require/disallow sets are a
// ValidationError rather than an empty answer, since the request contradicts
// itself.
func (e *Engine) Find(require, disallow []string) ([]catalog.SpdxID, error) {
	for _, tag := range require {
		for _, banned := range disallow {
			if tag == banned {
				return nil, &catalog.ValidationError{
					Reason: "tag " + tag + " is both required and disallowed",
				}
			}
		}
	}

	snapshot, err := e.store.Snapshot()
	if err != nil {
		return nil, err
	}

	var matches []catalog.SpdxID
	for id, entry := range snapshot.Entries {
		if matchesRules(entry, require, disallow) {
			matches = append(matches, id)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i] < matches[j] })
	return matches, nil
}

func matchesRules(entry catalog.LicenseEntry, require, disallow []string) bool {
	for _, tag := range require {
		if !entry.HasRule(tag) {
			return false
		}
	}
	for _, tag := range disallow {
		if entry.HasRule(tag) {
			return false
		}
	}
	return true
}
