package syncer

import (
	"fmt"

	"github.com/goliatone/go-licensekit/pkg/catalog"
)

// Failure records one per-license unit that could not be fetched or parsed.
// Failures never abort the batch; they ride along in the report.
type Failure struct {
	ID  catalog.SpdxID
	Err error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %v", f.ID, f.Err)
}

// Report aggregates the outcome of one refresh pass.
type Report struct {
	// Fingerprint is the remote listing fingerprint observed this pass.
	Fingerprint string

	// Unchanged is set when the no-op fast path fired: the remote
	// fingerprint matched the cached one and nothing was fetched.
	Unchanged bool

	// Degraded is set when the remote listing was unreachable and the
	// engine fell back to the previously cached catalog.
	Degraded bool

	// Total is the number of license ids in the remote listing.
	Total int

	// Fetched counts licenses whose bytes were downloaded and re-parsed.
	Fetched int

	// Reused counts licenses kept as-is because their content hash was
	// unchanged.
	Reused int

	// Pruned counts cached licenses dropped because the remote listing no
	// longer names them.
	Pruned int

	// Failures holds the per-license errors captured during the pass.
	Failures []Failure

	// Warnings carries non-fatal degradations, such as missing rules
	// metadata.
	Warnings []string
}

// Changed reports whether the pass altered the persisted catalog.
func (r Report) Changed() bool {
	return !r.Unchanged && !r.Degraded && (r.Fetched > 0 || r.Pruned > 0)
}
