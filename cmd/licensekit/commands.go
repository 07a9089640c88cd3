package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/goliatone/go-licensekit/internal/prompt"
	"github.com/goliatone/go-licensekit/pkg/catalog"
	"github.com/goliatone/go-licensekit/pkg/prefs"
	"github.com/goliatone/go-licensekit/pkg/resolver"
)

func (a *app) cmdList(ctx context.Context, args []string, detailed bool) (int, error) {
	if err := a.ensureCatalog(ctx); err != nil {
		return exitCode(err), err
	}
	list := a.client.Queries().List
	if detailed {
		list = a.client.Queries().DetailedList
	}
	entries, missing, err := list(args)
	if err != nil {
		return exitCode(err), err
	}
	if err := a.renderer.List(entries, detailed); err != nil {
		return exitFailure, err
	}
	for _, miss := range missing {
		fmt.Fprintf(a.stderr, "licensekit: %v\n", miss)
	}
	if len(missing) > 0 {
		return exitNotFound, nil
	}
	return exitOK, nil
}

func (a *app) cmdInfo(ctx context.Context, args []string) (int, error) {
	if len(args) != 1 {
		return exitUsage, fmt.Errorf("info: expected exactly one license id")
	}
	if err := a.ensureCatalog(ctx); err != nil {
		return exitCode(err), err
	}
	entry, err := a.client.Queries().Info(args[0])
	if err != nil {
		return exitCode(err), err
	}
	if err := a.renderer.Info(entry); err != nil {
		return exitFailure, err
	}
	return exitOK, nil
}

func (a *app) cmdPlaceholders(ctx context.Context, args []string) (int, error) {
	if len(args) != 1 {
		return exitUsage, fmt.Errorf("show-placeholders: expected exactly one license id")
	}
	if err := a.ensureCatalog(ctx); err != nil {
		return exitCode(err), err
	}
	entry, err := a.client.Queries().Info(args[0])
	if err != nil {
		return exitCode(err), err
	}
	if err := a.renderer.Placeholders(entry.ID, entry.Placeholders); err != nil {
		return exitFailure, err
	}
	return exitOK, nil
}

func (a *app) cmdCompare(ctx context.Context, args []string) (int, error) {
	if err := a.ensureCatalog(ctx); err != nil {
		return exitCode(err), err
	}
	matrix, err := a.client.Queries().Compare(args)
	if err != nil {
		return exitCode(err), err
	}
	if err := a.renderer.Compare(matrix); err != nil {
		return exitFailure, err
	}
	if len(matrix.Missing) > 0 {
		return exitNotFound, nil
	}
	return exitOK, nil
}

func (a *app) cmdFind(ctx context.Context, args []string) (int, error) {
	fs := pflag.NewFlagSet("find", pflag.ContinueOnError)
	fs.SetOutput(a.stderr)
	require := fs.StringSliceP("require", "r", nil, "rule tags the license must carry")
	disallow := fs.StringSliceP("disallow", "d", nil, "rule tags the license must not carry")
	if err := fs.Parse(args); err != nil {
		return exitUsage, nil
	}

	if err := a.ensureCatalog(ctx); err != nil {
		return exitCode(err), err
	}
	ids, err := a.client.Queries().Find(*require, *disallow)
	if err != nil {
		return exitCode(err), err
	}
	if err := a.renderer.Matches(ids); err != nil {
		return exitFailure, err
	}
	return exitOK, nil
}

func (a *app) cmdLicense(ctx context.Context, args []string) (int, error) {
	fs := pflag.NewFlagSet("license", pflag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fullname := fs.StringP("fullname", "f", "", "copyright holder name")
	year := fs.StringP("year", "y", "", "copyright year")
	project := fs.StringP("project", "p", "", "project name")
	email := fs.StringP("email", "e", "", "contact email")
	projecturl := fs.StringP("projecturl", "u", "", "project URL")
	output := fs.StringP("output", "o", "", "write to a file instead of stdout")
	write := fs.BoolP("write", "w", false, "shorthand for --output LICENSE")
	force := fs.Bool("force", false, "overwrite the output file if it exists")
	save := fs.Bool("save", false, "remember the given values for future renders")
	interactive := fs.BoolP("interactive", "i", false, "ask for each placeholder")
	if err := fs.Parse(args); err != nil {
		return exitUsage, nil
	}
	if fs.NArg() != 1 {
		return exitUsage, fmt.Errorf("license: expected exactly one license id")
	}
	id := fs.Arg(0)
	if *write && *output == "" {
		*output = "LICENSE"
	}

	if err := a.ensureCatalog(ctx); err != nil {
		return exitCode(err), err
	}

	explicit := map[string]string{}
	for key, value := range map[string]string{
		"fullname":   *fullname,
		"year":       *year,
		"project":    *project,
		"email":      *email,
		"projecturl": *projecturl,
	} {
		if value != "" {
			explicit[key] = value
		}
	}

	if *interactive {
		_, resolution, err := a.client.Resolve(id, explicit)
		if err != nil {
			return exitCode(err), err
		}
		answers, err := prompt.Values(ctx, a.prompter, resolution)
		if err != nil {
			return exitCode(err), err
		}
		for key, value := range answers {
			explicit[key] = value
		}
	}

	entry, resolution, err := a.client.Resolve(id, explicit)
	if err != nil {
		return exitCode(err), err
	}
	text, warnings := resolver.Fill(entry, resolution)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	if *save {
		if err := a.savePreferences(explicit); err != nil {
			return exitCode(err), err
		}
	}

	if *output == "" {
		fmt.Fprint(a.stdout, text)
	} else {
		if err := writeLicenseFile(*output, text, *force); err != nil {
			return exitCode(err), err
		}
		a.logger.Printf("wrote %s", *output)
		if err := a.renderer.Resolution(resolution); err != nil {
			return exitFailure, err
		}
	}

	for _, warning := range warnings {
		fmt.Fprintf(a.stderr, "licensekit: warning: %s\n", warning)
	}
	return exitOK, nil
}

func (a *app) savePreferences(explicit map[string]string) error {
	for key, value := range explicit {
		if !prefs.Savable(key) {
			continue
		}
		if err := a.client.Preferences().Set(key, value); err != nil {
			return err
		}
		a.logger.Printf("saved placeholder %s", key)
	}
	return nil
}

func writeLicenseFile(path, text string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return &catalog.WriteError{Path: path, Err: os.ErrExist}
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return &catalog.WriteError{Path: path, Err: err}
	}
	return nil
}

func (a *app) cmdSetPlaceholder(args []string) (int, error) {
	if len(args) != 2 {
		return exitUsage, fmt.Errorf("set-placeholder: expected <key> <value>")
	}
	if err := a.client.Preferences().Set(args[0], args[1]); err != nil {
		return exitCode(err), err
	}
	fmt.Fprintf(a.stdout, "saved %s\n", args[0])
	return exitOK, nil
}

func (a *app) cmdGetPlaceholder(args []string) (int, error) {
	if len(args) > 1 {
		return exitUsage, fmt.Errorf("get-placeholder: expected at most one key")
	}

	if len(args) == 1 {
		value, ok, err := a.client.Preferences().Get(args[0])
		if err != nil {
			return exitCode(err), err
		}
		if !ok {
			fmt.Fprintf(a.stdout, "no saved value for %s\n", args[0])
			return exitNotFound, nil
		}
		fmt.Fprintln(a.stdout, value)
		return exitOK, nil
	}

	values, err := a.client.Preferences().All()
	if err != nil {
		return exitCode(err), err
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	for _, key := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", key, values[key])
	}
	if err := tw.Flush(); err != nil {
		return exitFailure, err
	}
	return exitOK, nil
}

func (a *app) cmdClearPlaceholders(args []string) (int, error) {
	removed, err := a.client.Preferences().Clear(args...)
	if err != nil {
		return exitCode(err), err
	}
	if len(removed) == 0 {
		fmt.Fprintln(a.stdout, "nothing to clear")
		return exitOK, nil
	}
	for _, key := range removed {
		fmt.Fprintf(a.stdout, "cleared %s\n", key)
	}
	return exitOK, nil
}

func (a *app) cmdSync(ctx context.Context) (int, error) {
	report, err := a.client.Refresh(ctx, a.refresh)
	if err != nil {
		return exitCode(err), err
	}
	if err := a.renderer.SyncReport(report); err != nil {
		return exitFailure, err
	}
	if len(report.Failures) > 0 {
		return exitFetch, nil
	}
	return exitOK, nil
}
