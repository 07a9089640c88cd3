// Package hash computes the two digests the sync engine relies on: the
// per-resource content hash and the catalog-level listing fingerprint.
package hash

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
)

// GitBlob returns the git blob digest of data, hex encoded. The remote
// listing advertises git blob SHAs for every resource, so recomputing this
// over fetched bytes verifies the payload matches what the listing declared.
// Git hashes "blob <len>\0" followed by the content.
func GitBlob(data []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(data))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint summarizes an id -> content hash listing into a single digest.
// Pairs are folded in sorted id order so the result is independent of map
// iteration, letting a refresh short-circuit when the remote listing is
// byte-for-byte unchanged.
func Fingerprint(listing map[string]string) string {
	ids := make([]string, 0, len(listing))
	for id := range listing {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	h := blake3.New()
	for _, id := range ids {
		fmt.Fprintf(h, "%s=%s\n", id, listing[id])
	}
	return hex.EncodeToString(h.Sum(nil))
}
