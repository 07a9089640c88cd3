package catalog

import (
	"sort"
	"time"
)

// Category classifies a rule tag.
type Category string

const (
	CategoryPermission Category = "permission"
	CategoryCondition  Category = "condition"
	CategoryLimitation Category = "limitation"
)

// Categories lists the rule categories in display order.
var Categories = []Category{CategoryPermission, CategoryCondition, CategoryLimitation}

// RuleTag is a named license attribute cross-referenced against the rules
// vocabulary. Label and Description come from the vocabulary; when a tag is
// absent from it the tag doubles as its own label.
type RuleTag struct {
	Tag         string   `json:"tag"`
	Category    Category `json:"category"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
}

// PlaceholderSpec describes one named blank in a license body, ordered by
// first occurrence. Token is the literal bracketed form found in the text
// (e.g. "[fullname]"); Key is the canonical lookup key it standardizes to.
type PlaceholderSpec struct {
	Token       string `json:"token"`
	Name        string `json:"name"`
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
}

// LicenseEntry is the immutable parsed form of one remote license template.
// A changed remote resource produces a replacement entry, never a mutation.
type LicenseEntry struct {
	ID          SpdxID `json:"id"`
	Display     string `json:"display"`
	Title       string `json:"title"`
	Nickname    string `json:"nickname,omitempty"`
	Description string `json:"description,omitempty"`
	Filename    string `json:"filename"`

	// ContentHash is the digest of the exact raw bytes fetched from the
	// remote source; any byte difference forces a re-parse.
	ContentHash string `json:"content_hash"`

	// RawText is the license body with frontmatter stripped.
	RawText string `json:"raw_text"`

	HowToApply string            `json:"how_to_apply,omitempty"`
	Note       string            `json:"note,omitempty"`
	UsedBy     map[string]string `json:"used_by,omitempty"`

	Placeholders []PlaceholderSpec `json:"placeholders,omitempty"`
	Rules        []RuleTag         `json:"rules,omitempty"`

	// SpecifiedCategories records which rule categories the license
	// metadata addressed at all. A tag missing from an addressed category
	// is explicitly absent; a tag in an unaddressed category is
	// unspecified.
	SpecifiedCategories []Category `json:"specified_categories,omitempty"`

	LastSynced time.Time `json:"last_synced"`
}

// HasRule reports whether the entry carries tag in any category.
func (e LicenseEntry) HasRule(tag string) bool {
	for _, r := range e.Rules {
		if r.Tag == tag {
			return true
		}
	}
	return false
}

// CategorySpecified reports whether the license metadata addressed the
// category, even with an empty list.
func (e LicenseEntry) CategorySpecified(c Category) bool {
	for _, got := range e.SpecifiedCategories {
		if got == c {
			return true
		}
	}
	return false
}

// RulesIn returns the entry's tags for one category, in metadata order.
func (e LicenseEntry) RulesIn(c Category) []RuleTag {
	var out []RuleTag
	for _, r := range e.Rules {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out
}

// Catalog is one committed snapshot of the synchronized license set.
// Fingerprint summarizes the full remote listing so a refresh can
// short-circuit when nothing changed.
type Catalog struct {
	Fingerprint string                  `json:"fingerprint"`
	Entries     map[SpdxID]LicenseEntry `json:"entries"`
}

// IDs returns the snapshot's license ids in sorted order.
func (c Catalog) IDs() []SpdxID {
	out := make([]SpdxID, 0, len(c.Entries))
	for id := range c.Entries {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
