// Package parser turns raw license template bytes plus rules/fields metadata
// into structured catalog entries. Parsing is pure: identical inputs always
// produce field-for-field identical entries.
package parser

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-licensekit/pkg/catalog"
)

// placeholderPattern matches bracketed tokens like "[year]" or "[fullname]".
var placeholderPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// standardKeys maps the lowercased placeholder names observed in license
// bodies to canonical lookup keys, so "[name of copyright owner]" and
// "[fullname]" both resolve through the fullname value.
var standardKeys = map[string]string{
	"fullname":                "fullname",
	"name of copyright owner": "fullname",
	"login":                   "fullname",
	"project":                 "project",
	"email":                   "email",
	"projecturl":              "projecturl",
	"year":                    "year",
	"yyyy":                    "year",
}

// frontMatter is the YAML header of a license template file.
type frontMatter struct {
	SpdxID      string            `yaml:"spdx-id"`
	Title       string            `yaml:"title"`
	Nickname    string            `yaml:"nickname"`
	Description string            `yaml:"description"`
	How         string            `yaml:"how"`
	Note        string            `yaml:"note"`
	Using       map[string]string `yaml:"using"`

	// Pointers distinguish a category the metadata addressed (possibly
	// with an empty list) from one it never mentioned.
	Permissions *[]string `yaml:"permissions"`
	Conditions  *[]string `yaml:"conditions"`
	Limitations *[]string `yaml:"limitations"`
}

// Parse derives a catalog entry from one raw license template. The caller
// stamps ContentHash and LastSynced; everything else is a deterministic
// function of the inputs.
func Parse(filename string, raw []byte, rules RulesData, fields []FieldSource) (catalog.LicenseEntry, error) {
	fm, body, err := splitFrontMatter(string(raw))
	if err != nil {
		return catalog.LicenseEntry{}, &catalog.ParseError{Resource: filename, Err: err}
	}

	display := strings.TrimSpace(fm.SpdxID)
	if display == "" {
		display = strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	}
	id, err := catalog.ParseSpdxID(display)
	if err != nil {
		return catalog.LicenseEntry{}, &catalog.ParseError{
			Resource: filename,
			Err:      fmt.Errorf("no usable SPDX id: %w", err),
		}
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = display
	}

	entry := catalog.LicenseEntry{
		ID:           id,
		Display:      display,
		Title:        title,
		Nickname:     strings.TrimSpace(fm.Nickname),
		Description:  strings.TrimSpace(fm.Description),
		Filename:     filename,
		RawText:      body,
		HowToApply:   strings.TrimSpace(fm.How),
		Note:         strings.TrimSpace(fm.Note),
		UsedBy:       fm.Using,
		Placeholders: scanPlaceholders(body, fields),
	}

	for _, spec := range []struct {
		category catalog.Category
		tags     *[]string
		sources  []RuleSource
	}{
		{catalog.CategoryPermission, fm.Permissions, rules.Permissions},
		{catalog.CategoryCondition, fm.Conditions, rules.Conditions},
		{catalog.CategoryLimitation, fm.Limitations, rules.Limitations},
	} {
		if spec.tags == nil {
			continue
		}
		entry.SpecifiedCategories = append(entry.SpecifiedCategories, spec.category)
		entry.Rules = append(entry.Rules, crossReference(*spec.tags, spec.category, spec.sources)...)
	}

	return entry, nil
}

// splitFrontMatter separates the YAML header from the license body. A file
// without a header is treated as all body.
func splitFrontMatter(content string) (frontMatter, string, error) {
	const delim = "---"

	var fm frontMatter
	if !strings.HasPrefix(content, delim) {
		return fm, strings.TrimSpace(content), nil
	}

	rest := content[len(delim):]
	end := strings.Index(rest, "\n"+delim)
	if end < 0 {
		return fm, "", fmt.Errorf("unterminated frontmatter block")
	}

	header := rest[:end]
	body := rest[end+len(delim)+1:]
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return frontMatter{}, "", fmt.Errorf("decode frontmatter: %w", err)
	}
	return fm, strings.TrimSpace(body), nil
}

// scanPlaceholders collects bracketed tokens in first-occurrence order,
// de-duplicating by token, and attaches descriptions from the fields
// metadata when one matches.
func scanPlaceholders(body string, fields []FieldSource) []catalog.PlaceholderSpec {
	var specs []catalog.PlaceholderSpec
	seen := make(map[string]struct{})

	for _, match := range placeholderPattern.FindAllStringSubmatch(body, -1) {
		token, name := match[0], strings.TrimSpace(match[1])
		if name == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}

		lower := strings.ToLower(name)
		key := standardKeys[lower]
		if key == "" {
			key = lower
		}

		specs = append(specs, catalog.PlaceholderSpec{
			Token:       token,
			Name:        name,
			Key:         key,
			Description: fieldDescription(fields, lower, key),
		})
	}
	return specs
}

// fieldDescription prefers a metadata entry matching the literal placeholder
// name, falling back to the canonical key. Absent descriptions are fine.
func fieldDescription(fields []FieldSource, name, key string) string {
	byKey := ""
	for _, field := range fields {
		switch strings.ToLower(field.Name) {
		case name:
			return field.Description
		case key:
			if byKey == "" {
				byKey = field.Description
			}
		}
	}
	return byKey
}

// crossReference resolves frontmatter tags against one category of the rules
// vocabulary. Tags missing from the vocabulary are kept with the tag as
// label; the category is still trusted from the license metadata.
func crossReference(tags []string, category catalog.Category, sources []RuleSource) []catalog.RuleTag {
	byTag := make(map[string]RuleSource, len(sources))
	for _, src := range sources {
		byTag[src.Tag] = src
	}

	var out []catalog.RuleTag
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		rule := catalog.RuleTag{Tag: tag, Category: category, Label: tag}
		if src, ok := byTag[tag]; ok {
			if src.Label != "" {
				rule.Label = src.Label
			}
			rule.Description = src.Description
		}
		out = append(out, rule)
	}
	return out
}
