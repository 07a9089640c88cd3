package catalog_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-licensekit/pkg/catalog"
)

func TestParseSpdxID(t *testing.T) {
	cases := []struct {
		raw     string
		want    catalog.SpdxID
		wantErr bool
	}{
		{raw: "MIT", want: "mit"},
		{raw: "  GPL-3.0  ", want: "gpl-3.0"},
		{raw: "Apache-2.0", want: "apache-2.0"},
		{raw: "GPL-2.0+", want: "gpl-2.0+"},
		{raw: "", wantErr: true},
		{raw: "not a license", wantErr: true},
		{raw: "what/ever", wantErr: true},
	}

	for _, tc := range cases {
		got, err := catalog.ParseSpdxID(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseSpdxID(%q) = %q, want error", tc.raw, got)
				continue
			}
			var verr *catalog.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("ParseSpdxID(%q) error = %v, want ValidationError", tc.raw, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSpdxID(%q): %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSpdxID(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestLicenseEntryRuleLookups(t *testing.T) {
	entry := catalog.LicenseEntry{
		ID: "mit",
		Rules: []catalog.RuleTag{
			{Tag: "commercial-use", Category: catalog.CategoryPermission, Label: "Commercial use"},
			{Tag: "include-copyright", Category: catalog.CategoryCondition, Label: "License and copyright notice"},
			{Tag: "liability", Category: catalog.CategoryLimitation, Label: "Liability"},
		},
		SpecifiedCategories: []catalog.Category{
			catalog.CategoryPermission,
			catalog.CategoryCondition,
		},
	}

	if !entry.HasRule("commercial-use") {
		t.Error("HasRule(commercial-use) = false, want true")
	}
	if entry.HasRule("patent-use") {
		t.Error("HasRule(patent-use) = true, want false")
	}

	if !entry.CategorySpecified(catalog.CategoryPermission) {
		t.Error("CategorySpecified(permission) = false, want true")
	}
	if entry.CategorySpecified(catalog.CategoryLimitation) {
		t.Error("CategorySpecified(limitation) = true, want false")
	}

	want := []catalog.RuleTag{
		{Tag: "include-copyright", Category: catalog.CategoryCondition, Label: "License and copyright notice"},
	}
	if diff := cmp.Diff(want, entry.RulesIn(catalog.CategoryCondition)); diff != "" {
		t.Errorf("RulesIn(condition) mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogIDsSorted(t *testing.T) {
	snapshot := catalog.Catalog{
		Entries: map[catalog.SpdxID]catalog.LicenseEntry{
			"mit":        {ID: "mit"},
			"apache-2.0": {ID: "apache-2.0"},
			"gpl-3.0":    {ID: "gpl-3.0"},
		},
	}

	want := []catalog.SpdxID{"apache-2.0", "gpl-3.0", "mit"}
	if diff := cmp.Diff(want, snapshot.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
}
