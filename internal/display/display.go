// Package display renders catalog query results for the terminal. Textual
// blocks go through a pongo2 template set embedded in the binary; tabular
// output is aligned with tabwriter and colored with lipgloss when the
// destination is a terminal.
package display

import (
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-licensekit/pkg/catalog"
	"github.com/goliatone/go-licensekit/pkg/resolver"
	"github.com/goliatone/go-licensekit/pkg/syncer"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

type Option func(*Renderer)

// WithWriter directs output somewhere other than the renderer's default.
func WithWriter(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.out = w
		}
	}
}

// WithColor toggles ANSI styling. Callers should disable it when the output
// is not a terminal.
func WithColor(enabled bool) Option {
	return func(r *Renderer) {
		r.styles = newStyles(enabled)
	}
}

// Renderer owns the template set and the output writer for one run.
type Renderer struct {
	out       io.Writer
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	styles    styles
}

// New constructs a Renderer writing to w with styling disabled by default.
func New(options ...Option) *Renderer {
	r := &Renderer{
		out:       io.Discard,
		set:       pongo2.NewSet("licensekit", pongo2.NewFSLoader(embeddedTemplates)),
		templates: make(map[string]*pongo2.Template),
		styles:    newStyles(false),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) render(name string, ctx pongo2.Context) (string, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		loaded, err := r.set.FromFile("templates/" + name + ".tmpl")
		if err != nil {
			return "", fmt.Errorf("display: load template %q: %w", name, err)
		}
		r.templates[name] = loaded
		tmpl = loaded
	}
	out, err := tmpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("display: execute template %q: %w", name, err)
	}
	return out, nil
}

// renderAligned runs a template whose output uses tab-separated columns and
// aligns them before writing.
func (r *Renderer) renderAligned(name string, ctx pongo2.Context) error {
	out, err := r.render(name, ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	if _, err := io.WriteString(tw, out); err != nil {
		return err
	}
	return tw.Flush()
}

type listRow struct {
	ID          string
	Title       string
	Nickname    string
	Description string
}

// excerpt trims a description to one short line for the detailed listing.
func excerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	if line, _, found := strings.Cut(text, "\n"); found {
		text = line
	}
	if len(text) <= limit {
		return text
	}
	cut := strings.LastIndex(text[:limit], " ")
	if cut <= 0 {
		cut = limit
	}
	return text[:cut] + "..."
}

// List prints one line per entry: id only in the short form, id plus title
// and nickname in the detailed form.
func (r *Renderer) List(entries []catalog.LicenseEntry, detailed bool) error {
	if !detailed {
		for _, entry := range entries {
			if _, err := fmt.Fprintln(r.out, r.styles.id.Render(string(entry.ID))); err != nil {
				return err
			}
		}
		return nil
	}

	rows := make([]listRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, listRow{
			ID:          r.styles.id.Render(string(entry.ID)),
			Title:       entry.Title,
			Nickname:    entry.Nickname,
			Description: excerpt(entry.Description, 72),
		})
	}
	return r.renderAligned("list", pongo2.Context{"rows": rows})
}

type usedByRow struct {
	Name string
	URL  string
}

// Info prints the full detail panel for one license.
func (r *Renderer) Info(entry catalog.LicenseEntry) error {
	ctx := pongo2.Context{
		"title":        r.styles.header.Render(entry.Title),
		"nickname":     entry.Nickname,
		"description":  strings.TrimSpace(entry.Description),
		"permissions":  ruleLabels(entry, catalog.CategoryPermission),
		"conditions":   ruleLabels(entry, catalog.CategoryCondition),
		"limitations":  ruleLabels(entry, catalog.CategoryLimitation),
		"how_to_apply": strings.TrimSpace(entry.HowToApply),
		"note":         strings.TrimSpace(entry.Note),
		"used_by":      usedByRows(entry),
	}
	out, err := r.render("info", ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.out, strings.TrimRight(out, "\n"))
	return err
}

// Placeholders prints the placeholder table for one license.
func (r *Renderer) Placeholders(id catalog.SpdxID, specs []catalog.PlaceholderSpec) error {
	if len(specs) == 0 {
		_, err := fmt.Fprintf(r.out, "%s has no placeholders\n", id)
		return err
	}
	return r.renderAligned("placeholders", pongo2.Context{"specs": specs})
}

// Matches prints the result of a rule search.
func (r *Renderer) Matches(ids []catalog.SpdxID) error {
	if len(ids) == 0 {
		_, err := fmt.Fprintln(r.out, "no license matches the given rules")
		return err
	}
	for _, id := range ids {
		if _, err := fmt.Fprintln(r.out, r.styles.id.Render(string(id))); err != nil {
			return err
		}
	}
	return nil
}

// Resolution prints resolved placeholder values and flags the unfilled ones.
func (r *Renderer) Resolution(res resolver.Resolution) error {
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	for _, value := range res.Values {
		rendered := value.Value
		if value.Source == resolver.SourceUnfilled {
			rendered = r.styles.warn.Render("(unfilled)")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", value.Spec.Token, rendered, value.Source)
	}
	return tw.Flush()
}

// SyncReport summarizes a refresh on one line, with per-license failures and
// advisory warnings below it.
func (r *Renderer) SyncReport(report syncer.Report) error {
	switch {
	case report.Unchanged:
		fmt.Fprintln(r.out, "catalog already up to date")
	case report.Degraded:
		fmt.Fprintln(r.out, r.styles.warn.Render("remote unreachable, serving cached catalog"))
	default:
		fmt.Fprintf(r.out, "synced %d licenses (%d fetched, %d reused, %d pruned)\n",
			report.Total, report.Fetched, report.Reused, report.Pruned)
	}
	for _, warning := range report.Warnings {
		fmt.Fprintln(r.out, r.styles.warn.Render("warning: "+warning))
	}
	for _, failure := range report.Failures {
		fmt.Fprintln(r.out, r.styles.warn.Render(fmt.Sprintf("failed %s: %v", failure.ID, failure.Err)))
	}
	return nil
}

func ruleLabels(entry catalog.LicenseEntry, category catalog.Category) []string {
	var labels []string
	for _, rule := range entry.RulesIn(category) {
		labels = append(labels, rule.Label)
	}
	return labels
}

func usedByRows(entry catalog.LicenseEntry) []usedByRow {
	if len(entry.UsedBy) == 0 {
		return nil
	}
	names := make([]string, 0, len(entry.UsedBy))
	for name := range entry.UsedBy {
		names = append(names, name)
	}
	// map order is random, keep the panel stable
	sort.Strings(names)
	rows := make([]usedByRow, 0, len(names))
	for _, name := range names {
		rows = append(rows, usedByRow{Name: name, URL: entry.UsedBy[name]})
	}
	return rows
}
