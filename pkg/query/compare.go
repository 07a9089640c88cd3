package query

import (
	"sort"

	"github.com/goliatone/go-licensekit/pkg/catalog"
)

// CellState is one cell of a comparison matrix. A license that addresses a
// category but omits a tag gets Absent; a license whose metadata never
// mentions the category at all gets Unspecified, which is weaker than a
// definite no.
type CellState string

const (
	Present     CellState = "present"
	Absent      CellState = "absent"
	Unspecified CellState = "unspecified"
)

// Column is one comparison axis: a rule tag together with its category and
// human label.
type Column struct {
	Tag      string
	Label    string
	Category catalog.Category
}

// Matrix is the result of a Compare call. Rows follow Entries, columns
// follow Columns, and Cells[row][col] holds the tri-state answer.
type Matrix struct {
	Entries []catalog.LicenseEntry
	Columns []Column
	Cells   [][]CellState
	Missing []error
}

// Compare builds a rule matrix for the requested ids, or for every cached
// license when ids is empty. Columns cover the union of tags observed across
// the selected licenses, grouped by category. Unknown ids are reported in
// Missing and skipped.
func (e *Engine) Compare(ids []string) (Matrix, error) {
	entries, missing, err := e.List(ids)
	if err != nil {
		return Matrix{}, err
	}

	matrix := Matrix{
		Entries: entries,
		Missing: missing,
		Columns: unionColumns(entries),
	}

	matrix.Cells = make([][]CellState, len(entries))
	for row, entry := range entries {
		cells := make([]CellState, len(matrix.Columns))
		for col, column := range matrix.Columns {
			cells[col] = cellFor(entry, column)
		}
		matrix.Cells[row] = cells
	}
	return matrix, nil
}

// cellFor matches within the column's category: carrying the same tag under
// a different category does not light up this column.
func cellFor(entry catalog.LicenseEntry, column Column) CellState {
	for _, rule := range entry.RulesIn(column.Category) {
		if rule.Tag == column.Tag {
			return Present
		}
	}
	if entry.CategorySpecified(column.Category) {
		return Absent
	}
	return Unspecified
}

// unionColumns collects every tag any selected license carries, grouped in
// category order and sorted by tag within each category. Labels come from
// the first entry that carries the tag.
func unionColumns(entries []catalog.LicenseEntry) []Column {
	byCategory := make(map[catalog.Category]map[string]Column)
	for _, entry := range entries {
		for _, rule := range entry.Rules {
			tags, ok := byCategory[rule.Category]
			if !ok {
				tags = make(map[string]Column)
				byCategory[rule.Category] = tags
			}
			if _, seen := tags[rule.Tag]; !seen {
				tags[rule.Tag] = Column{Tag: rule.Tag, Label: rule.Label, Category: rule.Category}
			}
		}
	}

	var columns []Column
	for _, category := range catalog.Categories {
		tags := byCategory[category]
		ordered := make([]string, 0, len(tags))
		for tag := range tags {
			ordered = append(ordered, tag)
		}
		sort.Strings(ordered)
		for _, tag := range ordered {
			columns = append(columns, tags[tag])
		}
	}
	return columns
}
