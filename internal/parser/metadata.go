package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RuleSource is one vocabulary entry from rules.yml.
type RuleSource struct {
	Tag         string `yaml:"tag"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

// RulesData is the full rules vocabulary, categorized the way the metadata
// file categorizes it. Classification always comes from here, never from the
// license text.
type RulesData struct {
	Permissions []RuleSource `yaml:"permissions"`
	Conditions  []RuleSource `yaml:"conditions"`
	Limitations []RuleSource `yaml:"limitations"`
}

// FieldSource is one placeholder description from fields.yml.
type FieldSource struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ParseRules decodes the rules.yml vocabulary blob.
func ParseRules(raw []byte) (RulesData, error) {
	var data RulesData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return RulesData{}, fmt.Errorf("parser: decode rules metadata: %w", err)
	}
	return data, nil
}

// ParseFields decodes the fields.yml placeholder descriptions. The file is a
// top-level list, but a map with a "fields" key is tolerated.
func ParseFields(raw []byte) ([]FieldSource, error) {
	var fields []FieldSource
	if err := yaml.Unmarshal(raw, &fields); err == nil {
		return fields, nil
	}

	var wrapped struct {
		Fields []FieldSource `yaml:"fields"`
	}
	if err := yaml.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("parser: decode fields metadata: %w", err)
	}
	return wrapped.Fields, nil
}
