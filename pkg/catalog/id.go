package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

// idPattern matches the characters SPDX allows in short identifiers
// (e.g. "MIT", "GPL-3.0", "Apache-2.0").
var idPattern = regexp.MustCompile(`^[A-Za-z0-9.\-+]+$`)

// SpdxID is a normalized SPDX short identifier. Catalog lookups are
// case-insensitive, so the canonical form is lowercase; Display holds the
// spelling the remote source uses.
type SpdxID string

// ParseSpdxID validates raw user input and returns the normalized id. It
// rejects strings that cannot possibly name a license so bad input fails at
// the boundary instead of producing silent cache misses.
func ParseSpdxID(raw string) (SpdxID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &ValidationError{Reason: "license id is empty"}
	}
	if !idPattern.MatchString(trimmed) {
		return "", &ValidationError{Reason: fmt.Sprintf("%q is not a valid SPDX id", raw)}
	}
	return SpdxID(strings.ToLower(trimmed)), nil
}

// MustSpdxID panics on invalid input. Useful for tests and fixtures.
func MustSpdxID(raw string) SpdxID {
	id, err := ParseSpdxID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

func (id SpdxID) String() string {
	return string(id)
}
