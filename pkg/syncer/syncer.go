// Package syncer reconciles the local license catalog against the remote
// source. It is the only writer of the cache store: a refresh assembles a
// complete replacement snapshot and commits it atomically, so readers always
// observe either the previous catalog or the new one.
package syncer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-licensekit/internal/hash"
	"github.com/goliatone/go-licensekit/internal/parser"
	"github.com/goliatone/go-licensekit/pkg/cache"
	"github.com/goliatone/go-licensekit/pkg/catalog"
	"github.com/goliatone/go-licensekit/pkg/remote"
)

const defaultWorkers = 8

// Option customises the engine.
type Option func(*Engine)

// WithWorkers bounds the per-license fetch/parse parallelism.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithClock injects the timestamp source used for LastSynced. Tests use it
// to pin time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine drives refresh passes over a cache store.
type Engine struct {
	source  remote.Source
	store   *cache.Store
	workers int
	now     func() time.Time
}

// New constructs an Engine for the given remote source and cache store.
func New(source remote.Source, store *cache.Store, options ...Option) *Engine {
	e := &Engine{
		source:  source,
		store:   store,
		workers: defaultWorkers,
		now:     time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Refresh reconciles the cached catalog with the remote listing.
//
// With force false and an unchanged listing fingerprint it returns without a
// single per-license call. Otherwise changed licenses are fetched, verified
// against their declared hashes, re-parsed, and swapped in; unchanged ones
// are reused; ids gone from the listing are pruned. Per-license failures are
// collected into the report and the prior entry, if any, is carried forward
// so a transient failure does not evict working data.
//
// An unreachable listing degrades to the cached catalog when one exists and
// is fatal otherwise. The snapshot is committed only when the pass runs to
// completion; cancellation leaves the persisted catalog untouched.
func (e *Engine) Refresh(ctx context.Context, force bool) (Report, error) {
	var report Report

	prior, err := e.store.Load()
	if err != nil {
		// A corrupt snapshot should not brick the tool; rebuild from
		// scratch and say so.
		report.Warnings = append(report.Warnings, fmt.Sprintf("discarding unreadable cache: %v", err))
		prior = catalog.Catalog{Entries: map[catalog.SpdxID]catalog.LicenseEntry{}}
	}

	listing, err := e.source.Listing(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, ctxErr
		}
		fetchErr := &catalog.FetchError{Resource: "catalog listing", Err: err}
		if len(prior.Entries) == 0 {
			return report, fetchErr
		}
		report.Degraded = true
		report.Fingerprint = prior.Fingerprint
		report.Total = len(prior.Entries)
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("remote listing unreachable, serving cached catalog: %v", err))
		return report, nil
	}

	report.Fingerprint = hash.Fingerprint(listing.Flatten())
	report.Total = len(listing.Licenses)

	if !force && report.Fingerprint == prior.Fingerprint && prior.Fingerprint != "" {
		report.Unchanged = true
		report.Reused = len(prior.Entries)
		return report, nil
	}

	rules, fields := e.fetchMetadata(ctx, listing, &report)

	next := catalog.Catalog{
		Fingerprint: report.Fingerprint,
		Entries:     make(map[catalog.SpdxID]catalog.LicenseEntry, len(listing.Licenses)),
	}

	type outcome struct {
		entry catalog.LicenseEntry
		err   error
	}

	var mu sync.Mutex
	outcomes := make(map[catalog.SpdxID]outcome, len(listing.Licenses))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.workers)

	for rawID, declared := range listing.Licenses {
		declared := declared
		id := catalog.SpdxID(rawID)
		if existing, ok := prior.Entries[id]; ok && !force && existing.ContentHash == declared {
			next.Entries[id] = existing
			report.Reused++
			continue
		}

		group.Go(func() error {
			entry, err := e.fetchAndParse(groupCtx, id, declared, rules, fields)
			mu.Lock()
			outcomes[id] = outcome{entry: entry, err: err}
			mu.Unlock()
			// Per-license failures never cancel the group.
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	for id, got := range outcomes {
		if got.err != nil {
			report.Failures = append(report.Failures, Failure{ID: id, Err: got.err})
			if existing, ok := prior.Entries[id]; ok {
				// Keep the stale entry so a transient failure does not
				// evict working data.
				next.Entries[id] = existing
				report.Reused++
			}
			continue
		}
		next.Entries[id] = got.entry
		report.Fetched++
	}
	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].ID < report.Failures[j].ID
	})

	for id := range prior.Entries {
		if _, stillListed := listing.Licenses[string(id)]; !stillListed {
			report.Pruned++
		}
	}

	if len(report.Failures) > 0 {
		// Leave the fingerprint uncommitted so the next refresh walks the
		// listing again and repairs the failed entries.
		next.Fingerprint = ""
	}

	if err := e.store.Replace(next); err != nil {
		return report, err
	}
	return report, nil
}

// fetchMetadata retrieves and decodes the rules and fields blobs. Both are
// advisory: a miss degrades labels and descriptions but never fails the
// refresh.
func (e *Engine) fetchMetadata(ctx context.Context, listing remote.Listing, report *Report) (parser.RulesData, []parser.FieldSource) {
	var rules parser.RulesData
	var fields []parser.FieldSource

	if _, ok := listing.Data[remote.DataRules]; ok {
		raw, err := e.source.FetchData(ctx, remote.DataRules)
		if err == nil {
			rules, err = parser.ParseRules(raw)
		}
		if err != nil {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("rules metadata unavailable, tags will lack labels: %v", err))
		}
	} else {
		report.Warnings = append(report.Warnings, "remote listing carries no rules metadata")
	}

	if _, ok := listing.Data[remote.DataFields]; ok {
		raw, err := e.source.FetchData(ctx, remote.DataFields)
		if err == nil {
			fields, err = parser.ParseFields(raw)
		}
		if err != nil {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("fields metadata unavailable, placeholders will lack descriptions: %v", err))
		}
	}

	return rules, fields
}

// fetchAndParse is one failure-isolated unit of refresh work: download the
// template, verify its digest against the listing's declared hash, and parse
// it into a replacement entry.
func (e *Engine) fetchAndParse(ctx context.Context, id catalog.SpdxID, declared string, rules parser.RulesData, fields []parser.FieldSource) (catalog.LicenseEntry, error) {
	raw, err := e.source.FetchLicense(ctx, string(id))
	if err != nil {
		return catalog.LicenseEntry{}, &catalog.FetchError{Resource: string(id), Err: err}
	}

	if got := hash.GitBlob(raw); got != declared {
		return catalog.LicenseEntry{}, &catalog.FetchError{
			Resource: string(id),
			Err:      fmt.Errorf("content hash mismatch: listing declares %s, payload digests to %s", declared, got),
		}
	}

	entry, err := parser.Parse(string(id)+".txt", raw, rules, fields)
	if err != nil {
		return catalog.LicenseEntry{}, err
	}
	if entry.ID != id {
		// The frontmatter may spell the id with different casing, but it
		// must normalize to the listing id or lookups would dangle.
		return catalog.LicenseEntry{}, &catalog.ParseError{
			Resource: string(id),
			Err:      fmt.Errorf("frontmatter spdx-id %q does not match listing id %q", entry.ID, id),
		}
	}

	entry.ContentHash = declared
	entry.LastSynced = e.now().UTC()
	return entry, nil
}
