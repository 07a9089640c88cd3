package parser_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-licensekit/internal/parser"
	"github.com/goliatone/go-licensekit/pkg/catalog"
)

const mitTemplate = `---
title: MIT License
spdx-id: MIT
nickname: Expat
description: A short and simple permissive license.
how: Create a text file named LICENSE in the root of your source code.
permissions:
  - commercial-use
  - modifications
conditions:
  - include-copyright
limitations:
  - liability
  - warranty
using:
  Babel: https://github.com/babel/babel/blob/master/LICENSE
---

MIT License

Copyright (c) [year] [fullname]

Permission is hereby granted to any person obtaining a copy of [project]
to deal with [fullname] and [year] without restriction.
`

func testRules() parser.RulesData {
	return parser.RulesData{
		Permissions: []parser.RuleSource{
			{Tag: "commercial-use", Label: "Commercial use", Description: "May be used commercially."},
			{Tag: "modifications", Label: "Modification", Description: "May be modified."},
		},
		Conditions: []parser.RuleSource{
			{Tag: "include-copyright", Label: "License and copyright notice", Description: "Include the notice."},
		},
		Limitations: []parser.RuleSource{
			{Tag: "liability", Label: "Liability", Description: "No liability."},
			{Tag: "warranty", Label: "Warranty", Description: "No warranty."},
		},
	}
}

func testFields() []parser.FieldSource {
	return []parser.FieldSource{
		{Name: "fullname", Description: "The full name of the copyright holder"},
		{Name: "year", Description: "The current year"},
	}
}

func TestParseMIT(t *testing.T) {
	entry, err := parser.Parse("mit.txt", []byte(mitTemplate), testRules(), testFields())
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}

	if entry.ID != "mit" || entry.Display != "MIT" {
		t.Errorf("id = %q/%q, want mit/MIT", entry.ID, entry.Display)
	}
	if entry.Title != "MIT License" || entry.Nickname != "Expat" {
		t.Errorf("title/nickname = %q/%q", entry.Title, entry.Nickname)
	}
	if entry.UsedBy["Babel"] == "" {
		t.Error("using map not carried over")
	}

	wantPlaceholders := []catalog.PlaceholderSpec{
		{Token: "[year]", Name: "year", Key: "year", Description: "The current year"},
		{Token: "[fullname]", Name: "fullname", Key: "fullname", Description: "The full name of the copyright holder"},
		{Token: "[project]", Name: "project", Key: "project"},
	}
	if diff := cmp.Diff(wantPlaceholders, entry.Placeholders); diff != "" {
		t.Errorf("placeholders mismatch (-want +got):\n%s", diff)
	}

	wantRules := []catalog.RuleTag{
		{Tag: "commercial-use", Category: catalog.CategoryPermission, Label: "Commercial use", Description: "May be used commercially."},
		{Tag: "modifications", Category: catalog.CategoryPermission, Label: "Modification", Description: "May be modified."},
		{Tag: "include-copyright", Category: catalog.CategoryCondition, Label: "License and copyright notice", Description: "Include the notice."},
		{Tag: "liability", Category: catalog.CategoryLimitation, Label: "Liability", Description: "No liability."},
		{Tag: "warranty", Category: catalog.CategoryLimitation, Label: "Warranty", Description: "No warranty."},
	}
	if diff := cmp.Diff(wantRules, entry.Rules); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}

	wantCategories := []catalog.Category{
		catalog.CategoryPermission,
		catalog.CategoryCondition,
		catalog.CategoryLimitation,
	}
	if diff := cmp.Diff(wantCategories, entry.SpecifiedCategories); diff != "" {
		t.Errorf("specified categories mismatch (-want +got):\n%s", diff)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	first, err := parser.Parse("mit.txt", []byte(mitTemplate), testRules(), testFields())
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}
	second, err := parser.Parse("mit.txt", []byte(mitTemplate), testRules(), testFields())
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("parse is not deterministic (-first +second):\n%s", diff)
	}
}

func TestParseWithoutFrontmatter(t *testing.T) {
	entry, err := parser.Parse("bsd-2-clause.txt", []byte("Redistribution of [project] is permitted.\n"), parser.RulesData{}, nil)
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}
	if entry.ID != "bsd-2-clause" {
		t.Errorf("id = %q, want bsd-2-clause (from filename stem)", entry.ID)
	}
	if entry.Title != "bsd-2-clause" {
		t.Errorf("title = %q, want filename fallback", entry.Title)
	}
	if len(entry.SpecifiedCategories) != 0 {
		t.Errorf("specified categories = %v, want none", entry.SpecifiedCategories)
	}
	if len(entry.Placeholders) != 1 || entry.Placeholders[0].Token != "[project]" {
		t.Errorf("placeholders = %v, want [project]", entry.Placeholders)
	}
}

func TestParseRejectsUnusableFilename(t *testing.T) {
	_, err := parser.Parse("not a license!.txt", []byte("body\n"), parser.RulesData{}, nil)
	var perr *catalog.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse() error = %v, want ParseError", err)
	}
}

func TestParseUnknownRuleTagKept(t *testing.T) {
	raw := "---\nspdx-id: X11\npermissions:\n  - brand-new-tag\n---\nbody\n"
	entry, err := parser.Parse("x11.txt", []byte(raw), testRules(), nil)
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}
	want := []catalog.RuleTag{{Tag: "brand-new-tag", Category: catalog.CategoryPermission, Label: "brand-new-tag"}}
	if diff := cmp.Diff(want, entry.Rules); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaceholderStandardization(t *testing.T) {
	raw := "Copyright [yyyy] [name of copyright owner] and [login]\n"
	entry, err := parser.Parse("apache-2.0.txt", []byte(raw), parser.RulesData{}, nil)
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}

	keys := make([]string, 0, len(entry.Placeholders))
	for _, spec := range entry.Placeholders {
		keys = append(keys, spec.Key)
	}
	want := []string{"year", "fullname", "fullname"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("canonical keys mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRulesAndFields(t *testing.T) {
	rulesYAML := []byte(`
permissions:
  - tag: commercial-use
    label: Commercial use
    description: May be used commercially.
conditions: []
limitations:
  - tag: liability
    label: Liability
    description: No liability.
`)
	rules, err := parser.ParseRules(rulesYAML)
	if err != nil {
		t.Fatalf("ParseRules(): %v", err)
	}
	if len(rules.Permissions) != 1 || rules.Permissions[0].Tag != "commercial-use" {
		t.Errorf("permissions = %v", rules.Permissions)
	}

	fieldsYAML := []byte(`
- name: fullname
  description: The full name of the copyright holder
- name: year
  description: The current year
`)
	fields, err := parser.ParseFields(fieldsYAML)
	if err != nil {
		t.Fatalf("ParseFields(): %v", err)
	}
	if len(fields) != 2 || fields[1].Name != "year" {
		t.Errorf("fields = %v", fields)
	}
}
