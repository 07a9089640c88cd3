package catalog

import (
	"fmt"
)

// NotFoundError reports a license id that was explicitly requested but is not
// present in the cached catalog.
type NotFoundError struct {
	ID SpdxID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("catalog: license %q not found in cache", e.ID)
}

// FetchError reports a remote resource that could not be retrieved, or whose
// bytes did not digest to the hash the listing declared for it.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("catalog: fetch %s failed", e.Resource)
	}
	return fmt.Sprintf("catalog: fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a malformed remote resource. During a refresh the
// affected entry is skipped and the batch continues.
type ParseError struct {
	Resource string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("catalog: parse %s failed", e.Resource)
	}
	return fmt.Sprintf("catalog: parse %s: %v", e.Resource, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WriteError reports a cache snapshot or output file that could not be
// persisted. Fatal for the triggering operation only.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("catalog: write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ValidationError reports a contradictory or malformed request, such as
// overlapping require/disallow tag sets.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "catalog: " + e.Reason
}
