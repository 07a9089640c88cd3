// Package catalog defines the license catalog data model shared by the sync,
// query, and resolution layers: validated SPDX identifiers, immutable parsed
// license entries, rule tags, placeholder specs, and the error taxonomy the
// CLI maps to exit codes.
package catalog
