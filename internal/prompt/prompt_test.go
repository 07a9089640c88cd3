package prompt_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-licensekit/internal/prompt"
	"github.com/goliatone/go-licensekit/pkg/catalog"
	"github.com/goliatone/go-licensekit/pkg/resolver"
)

type scriptedDriver struct {
	answers map[string]string
	asked   []string
}

func (d *scriptedDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	return d.answers[cfg.Message], nil
}

func (d *scriptedDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return true, nil
}

func TestValuesAsksEachPlaceholderOnce(t *testing.T) {
	res := resolver.Resolution{Values: []resolver.Value{
		{Spec: catalog.PlaceholderSpec{Token: "[year]", Name: "year", Key: "year"}, Value: "2026", Source: resolver.SourceDefault},
		{Spec: catalog.PlaceholderSpec{Token: "[fullname]", Name: "fullname", Key: "fullname", Description: "Name of the copyright holder"}, Source: resolver.SourceUnfilled},
	}}
	driver := &scriptedDriver{answers: map[string]string{
		"year":                         "1999",
		"Name of the copyright holder": "Ada Lovelace",
	}}

	got, err := prompt.Values(context.Background(), driver, res)
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	want := map[string]string{"year": "1999", "fullname": "Ada Lovelace"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("answers mismatch (-want +got):\n%s", diff)
	}
	// descriptions take priority over bare names in the question text
	if diff := cmp.Diff([]string{"year", "Name of the copyright holder"}, driver.asked); diff != "" {
		t.Errorf("questions mismatch (-want +got):\n%s", diff)
	}
}

func TestValuesSkipsEmptyAnswers(t *testing.T) {
	res := resolver.Resolution{Values: []resolver.Value{
		{Spec: catalog.PlaceholderSpec{Token: "[project]", Name: "project", Key: "project"}, Source: resolver.SourceUnfilled},
	}}
	driver := &scriptedDriver{answers: map[string]string{}}

	got, err := prompt.Values(context.Background(), driver, res)
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("answers = %v, want empty", got)
	}
}
