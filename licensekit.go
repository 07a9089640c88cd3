// Package licensekit synchronizes the choosealicense.com template catalog
// into a local cache and answers queries against it: listing, comparison,
// rule-based discovery, and placeholder-filled license rendering.
package licensekit

import (
	"context"

	"github.com/goliatone/go-licensekit/pkg/cache"
	"github.com/goliatone/go-licensekit/pkg/catalog"
	"github.com/goliatone/go-licensekit/pkg/prefs"
	"github.com/goliatone/go-licensekit/pkg/query"
	"github.com/goliatone/go-licensekit/pkg/remote"
	"github.com/goliatone/go-licensekit/pkg/resolver"
	"github.com/goliatone/go-licensekit/pkg/syncer"
)

// Report aliases the refresh summary for callers of the root package.
type Report = syncer.Report

// Matrix aliases the comparison result.
type Matrix = query.Matrix

// Resolution aliases the placeholder resolution result.
type Resolution = resolver.Resolution

type Option func(*config)

type config struct {
	cachePath string
	prefsPath string
	source    remote.Source
	token     string
	workers   int
}

// WithCachePath overrides the default catalog cache location.
func WithCachePath(path string) Option {
	return func(cfg *config) {
		cfg.cachePath = path
	}
}

// WithPreferencesPath overrides the default saved-placeholder location.
func WithPreferencesPath(path string) Option {
	return func(cfg *config) {
		cfg.prefsPath = path
	}
}

// WithSource replaces the GitHub-backed catalog source, mainly for tests.
func WithSource(source remote.Source) Option {
	return func(cfg *config) {
		if source != nil {
			cfg.source = source
		}
	}
}

// WithToken authenticates GitHub requests to lift the anonymous rate limit.
func WithToken(token string) Option {
	return func(cfg *config) {
		cfg.token = token
	}
}

// WithWorkers bounds how many license fetches run concurrently during a
// refresh.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		cfg.workers = n
	}
}

// Client bundles the store, the sync engine, and the query engine behind a
// single entry point.
type Client struct {
	store   *cache.Store
	prefs   *prefs.Store
	engine  *syncer.Engine
	queries *query.Engine
}

// New builds a Client. Without options it caches under the user cache
// directory and syncs from github.com/github/choosealicense.com.
func New(options ...Option) (*Client, error) {
	var cfg config
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.cachePath == "" {
		path, err := cache.DefaultPath()
		if err != nil {
			return nil, err
		}
		cfg.cachePath = path
	}
	if cfg.prefsPath == "" {
		path, err := prefs.DefaultPath()
		if err != nil {
			return nil, err
		}
		cfg.prefsPath = path
	}
	if cfg.source == nil {
		cfg.source = remote.NewGitHub(remote.WithToken(cfg.token))
	}

	store := cache.New(cfg.cachePath)
	var engineOptions []syncer.Option
	if cfg.workers > 0 {
		engineOptions = append(engineOptions, syncer.WithWorkers(cfg.workers))
	}

	return &Client{
		store:   store,
		prefs:   prefs.New(cfg.prefsPath),
		engine:  syncer.New(cfg.source, store, engineOptions...),
		queries: query.New(store),
	}, nil
}

// Refresh synchronizes the cache against the remote catalog. With force set
// the listing fingerprint short-circuit is skipped and every license is
// re-fetched.
func (c *Client) Refresh(ctx context.Context, force bool) (Report, error) {
	return c.engine.Refresh(ctx, force)
}

// EnsureCatalog refreshes only when the cache holds no entries yet, so
// read-only commands work offline once a sync has happened.
func (c *Client) EnsureCatalog(ctx context.Context) (Report, error) {
	snapshot, err := c.store.Snapshot()
	if err != nil {
		return Report{}, err
	}
	if len(snapshot.Entries) > 0 {
		return Report{Unchanged: true, Total: len(snapshot.Entries)}, nil
	}
	return c.engine.Refresh(ctx, false)
}

// Queries exposes the read-only query engine.
func (c *Client) Queries() *query.Engine {
	return c.queries
}

// Preferences exposes the saved placeholder store.
func (c *Client) Preferences() *prefs.Store {
	return c.prefs
}

// Resolve computes placeholder values for a license, layering explicit
// values over saved preferences over built-in defaults.
func (c *Client) Resolve(id string, explicit map[string]string) (catalog.LicenseEntry, Resolution, error) {
	entry, err := c.queries.Info(id)
	if err != nil {
		return catalog.LicenseEntry{}, Resolution{}, err
	}
	saved, err := c.prefs.All()
	if err != nil {
		return catalog.LicenseEntry{}, Resolution{}, err
	}
	return entry, resolver.Resolve(entry, explicit, saved), nil
}

// Render resolves placeholders for a license and substitutes them into its
// body. Unfilled placeholders stay literal and are reported as warnings.
func (c *Client) Render(id string, explicit map[string]string) (string, []string, error) {
	entry, resolution, err := c.Resolve(id, explicit)
	if err != nil {
		return "", nil, err
	}
	text, warnings := resolver.Fill(entry, resolution)
	return text, warnings, nil
}
