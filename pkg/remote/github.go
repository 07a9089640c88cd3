package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultOwner   = "github"
	defaultRepo    = "choosealicense.com"
	defaultBranch  = "gh-pages"

	licensesPath = "_licenses"
	dataPath     = "_data"

	acceptHeader = "application/vnd.github.v3+json"
	userAgent    = "licensekit"

	defaultRequestTimeout = 15 * time.Second
)

// GitHubOption customises the GitHub source configuration.
type GitHubOption func(*GitHub)

// WithBaseURL overrides the API endpoint. Primarily for tests pointing at a
// local httptest server.
func WithBaseURL(raw string) GitHubOption {
	return func(g *GitHub) {
		g.baseURL = strings.TrimRight(raw, "/")
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client *http.Client) GitHubOption {
	return func(g *GitHub) {
		if client != nil {
			g.client = client
		}
	}
}

// WithToken sets the bearer token sent with API requests. Unauthenticated
// requests work but are rate limited aggressively by GitHub.
func WithToken(token string) GitHubOption {
	return func(g *GitHub) {
		g.token = strings.TrimSpace(token)
	}
}

// WithRepository points the source at a different content repository.
func WithRepository(owner, repo, branch string) GitHubOption {
	return func(g *GitHub) {
		if owner != "" {
			g.owner = owner
		}
		if repo != "" {
			g.repo = repo
		}
		if branch != "" {
			g.branch = branch
		}
	}
}

// WithRequestTimeout bounds each individual HTTP request.
func WithRequestTimeout(d time.Duration) GitHubOption {
	return func(g *GitHub) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithPolicy overrides the retry policy applied to every remote call.
func WithPolicy(policy Policy) GitHubOption {
	return func(g *GitHub) {
		g.policy = policy
	}
}

// GitHub reads the license catalog from a GitHub repository through the
// contents API. The declared content hashes are git blob SHAs, which the
// sync engine verifies against recomputed digests of the fetched bytes.
type GitHub struct {
	baseURL string
	owner   string
	repo    string
	branch  string
	token   string
	timeout time.Duration
	policy  Policy
	client  *http.Client

	mu           sync.Mutex
	downloadURLs map[string]string
}

// Ensure the implementation satisfies the source contract.
var _ Source = (*GitHub)(nil)

// NewGitHub constructs a GitHub source with defaults pointing at the
// choosealicense.com content repository.
func NewGitHub(options ...GitHubOption) *GitHub {
	g := &GitHub{
		baseURL:      defaultBaseURL,
		owner:        defaultOwner,
		repo:         defaultRepo,
		branch:       defaultBranch,
		timeout:      defaultRequestTimeout,
		policy:       DefaultPolicy,
		client:       &http.Client{},
		downloadURLs: make(map[string]string),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	return g
}

// contentsEntry is the subset of the contents API response the source needs.
type contentsEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	SHA         string `json:"sha"`
	DownloadURL string `json:"download_url"`
}

// Listing enumerates _licenses and _data with their declared blob SHAs.
// Download URLs are remembered so later fetches skip the directory round
// trip.
func (g *GitHub) Listing(ctx context.Context) (Listing, error) {
	licenses, err := g.listDir(ctx, licensesPath)
	if err != nil {
		return Listing{}, fmt.Errorf("remote: list %s: %w", licensesPath, err)
	}
	data, err := g.listDir(ctx, dataPath)
	if err != nil {
		return Listing{}, fmt.Errorf("remote: list %s: %w", dataPath, err)
	}

	listing := Listing{
		Licenses: make(map[string]string),
		Data:     make(map[string]string),
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.downloadURLs = make(map[string]string, len(licenses)+len(data))

	for _, entry := range licenses {
		if entry.Type != "file" || !strings.HasSuffix(entry.Name, ".txt") {
			continue
		}
		id := strings.ToLower(strings.TrimSuffix(entry.Name, ".txt"))
		listing.Licenses[id] = entry.SHA
		g.downloadURLs["license:"+id] = entry.DownloadURL
	}
	for _, entry := range data {
		if entry.Type != "file" || !strings.HasSuffix(entry.Name, ".yml") {
			continue
		}
		listing.Data[entry.Name] = entry.SHA
		g.downloadURLs["data:"+entry.Name] = entry.DownloadURL
	}

	return listing, nil
}

// FetchLicense downloads the raw bytes of one license template.
func (g *GitHub) FetchLicense(ctx context.Context, id string) ([]byte, error) {
	return g.fetch(ctx, "license:"+strings.ToLower(id))
}

// FetchData downloads the raw bytes of a metadata blob.
func (g *GitHub) FetchData(ctx context.Context, name string) ([]byte, error) {
	return g.fetch(ctx, "data:"+name)
}

func (g *GitHub) fetch(ctx context.Context, key string) ([]byte, error) {
	g.mu.Lock()
	downloadURL, ok := g.downloadURLs[key]
	g.mu.Unlock()

	if !ok {
		// A fetch before any listing (or after a listing rotation) warms
		// the URL table with one extra round trip.
		if _, err := g.Listing(ctx); err != nil {
			return nil, err
		}
		g.mu.Lock()
		downloadURL, ok = g.downloadURLs[key]
		g.mu.Unlock()
		if !ok {
			return nil, fmt.Errorf("remote: %s is not present in the listing", key)
		}
	}
	if downloadURL == "" {
		return nil, fmt.Errorf("remote: %s has no download URL", key)
	}

	var body []byte
	err := g.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		body, err = g.get(ctx, downloadURL, false)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("remote: fetch %s: %w", key, err)
	}
	return body, nil
}

func (g *GitHub) listDir(ctx context.Context, path string) ([]contentsEntry, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		g.baseURL, g.owner, g.repo, path, url.QueryEscape(g.branch))

	var body []byte
	err := g.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		body, err = g.get(ctx, endpoint, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	var entries []contentsEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode contents listing: %w", err)
	}
	return entries, nil
}

// get performs a single GET with the per-request timeout applied. API
// requests carry GitHub headers; raw download URLs do not need them.
func (g *GitHub) get(ctx context.Context, rawURL string, api bool) ([]byte, error) {
	reqCtx := ctx
	var cancel context.CancelFunc
	if g.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if api {
		req.Header.Set("Accept", acceptHeader)
	}
	if g.token != "" {
		req.Header.Set("Authorization", "token "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	return io.ReadAll(resp.Body)
}

// StatusError reports a non-2xx response from the remote source.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound
}
