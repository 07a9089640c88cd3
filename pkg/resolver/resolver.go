// Package resolver picks final values for a license's placeholders and
// performs the substitution. The precedence is fixed: an explicit
// caller-supplied value wins over a saved preference, which wins over a
// computed built-in default; anything else stays unfilled. Unfilled
// placeholders are warnings, never errors — the literal token survives in
// the output.
package resolver

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-licensekit/pkg/catalog"
)

// Source tags where a resolved value came from.
type Source string

const (
	SourceExplicit   Source = "explicit"
	SourcePreference Source = "preference"
	SourceDefault    Source = "default"
	SourceUnfilled   Source = "unfilled"
)

// Value is the resolution outcome for one placeholder spec.
type Value struct {
	Spec   catalog.PlaceholderSpec
	Value  string
	Source Source
}

// Resolution holds the per-placeholder outcomes for one license entry, in
// the entry's first-occurrence order.
type Resolution struct {
	Values []Value
}

// Unfilled returns the specs that resolved to nothing.
func (r Resolution) Unfilled() []catalog.PlaceholderSpec {
	var out []catalog.PlaceholderSpec
	for _, v := range r.Values {
		if v.Source == SourceUnfilled {
			out = append(out, v.Spec)
		}
	}
	return out
}

// Lookup returns the resolution for the given canonical key.
func (r Resolution) Lookup(key string) (Value, bool) {
	for _, v := range r.Values {
		if v.Spec.Key == key {
			return v, true
		}
	}
	return Value{}, false
}

// Option customises resolution.
type Option func(*resolver)

// WithClock pins the time used for computed defaults. Tests use it.
func WithClock(now func() time.Time) Option {
	return func(r *resolver) {
		if now != nil {
			r.now = now
		}
	}
}

type resolver struct {
	now func() time.Time
}

// Resolve walks the entry's placeholders and picks a value for each:
// explicit value, then saved preference, then built-in default, then
// unfilled. Lookups key off the canonical placeholder key, so an explicit
// "fullname" also feeds "[name of copyright owner]".
func Resolve(entry catalog.LicenseEntry, explicit, preferences map[string]string, options ...Option) Resolution {
	r := &resolver{now: time.Now}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	resolution := Resolution{Values: make([]Value, 0, len(entry.Placeholders))}
	for _, spec := range entry.Placeholders {
		resolution.Values = append(resolution.Values, r.resolveOne(spec, explicit, preferences))
	}
	return resolution
}

func (r *resolver) resolveOne(spec catalog.PlaceholderSpec, explicit, preferences map[string]string) Value {
	if value, ok := explicit[spec.Key]; ok && value != "" {
		return Value{Spec: spec, Value: value, Source: SourceExplicit}
	}
	if value, ok := preferences[spec.Key]; ok && value != "" {
		return Value{Spec: spec, Value: value, Source: SourcePreference}
	}
	if value, ok := r.builtinDefault(spec.Key); ok {
		return Value{Spec: spec, Value: value, Source: SourceDefault}
	}
	return Value{Spec: spec, Source: SourceUnfilled}
}

// builtinDefault covers the fixed set of computed placeholder values. Only
// year-like fields have one.
func (r *resolver) builtinDefault(key string) (string, bool) {
	switch key {
	case "year":
		return strconv.Itoa(r.now().Year()), true
	}
	return "", false
}

// Fill substitutes every resolved placeholder occurrence in the entry's raw
// text. Matching is exact token identity: each occurrence of a resolved
// spec's literal bracketed token is replaced, nothing else. Unfilled tokens
// are left verbatim and reported back as warnings.
func Fill(entry catalog.LicenseEntry, resolution Resolution) (string, []string) {
	filled := entry.RawText
	var warnings []string

	for _, v := range resolution.Values {
		if v.Source == SourceUnfilled {
			warnings = append(warnings, fmt.Sprintf("placeholder %s left unfilled", v.Spec.Token))
			continue
		}
		filled = strings.ReplaceAll(filled, v.Spec.Token, v.Value)
	}
	return filled, warnings
}
