// Package remote defines the contract for the remote license catalog and its
// GitHub-backed implementation. The sync engine is the only consumer; it sees
// a listing of resource names to declared content hashes plus an opaque fetch
// capability, and never the transport underneath.
package remote

import (
	"context"
)

// Well-known metadata blob names shared between the listing and FetchData.
const (
	DataRules  = "rules.yml"
	DataFields = "fields.yml"
)

// Listing is the remote catalog inventory: candidate license ids and metadata
// blob names, each mapped to the content hash the remote declares for it.
type Listing struct {
	// Licenses maps candidate SPDX ids (license filename stems) to the
	// declared hash of the underlying template file.
	Licenses map[string]string

	// Data maps metadata blob names (rules.yml, fields.yml) to their
	// declared hashes.
	Data map[string]string
}

// Flatten folds both namespaces into a single map suitable for
// fingerprinting, prefixing keys so a license can never collide with a
// metadata blob.
func (l Listing) Flatten() map[string]string {
	out := make(map[string]string, len(l.Licenses)+len(l.Data))
	for id, sum := range l.Licenses {
		out["license:"+id] = sum
	}
	for name, sum := range l.Data {
		out["data:"+name] = sum
	}
	return out
}

// Source is the remote catalog boundary. Implementations own transport,
// authentication, timeouts, and retries; callers own change detection and
// parsing.
type Source interface {
	// Listing enumerates the remote catalog with declared content hashes.
	Listing(ctx context.Context) (Listing, error)

	// FetchLicense returns the raw bytes of one license template by the
	// candidate id reported in the listing.
	FetchLicense(ctx context.Context, id string) ([]byte, error)

	// FetchData returns the raw bytes of a metadata blob by name.
	FetchData(ctx context.Context, name string) ([]byte, error)
}
