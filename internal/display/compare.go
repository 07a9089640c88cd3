package display

import (
	"fmt"
	"text/tabwriter"

	"github.com/goliatone/go-licensekit/pkg/query"
)

const (
	presentMark     = "yes"
	absentMark      = "no"
	unspecifiedMark = "-"
)

// Compare prints the rule matrix: one row per license, one column per tag,
// tags grouped by category. Cells distinguish a tag a license explicitly
// omits from one its metadata never addressed.
func (r *Renderer) Compare(matrix query.Matrix) error {
	if len(matrix.Entries) == 0 {
		_, err := fmt.Fprintln(r.out, "nothing to compare")
		return err
	}

	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)

	fmt.Fprint(tw, "license")
	for _, column := range matrix.Columns {
		fmt.Fprintf(tw, "\t%s", column.Label)
	}
	fmt.Fprintln(tw)

	for row, entry := range matrix.Entries {
		fmt.Fprint(tw, r.styles.id.Render(string(entry.ID)))
		for col := range matrix.Columns {
			fmt.Fprintf(tw, "\t%s", r.cell(matrix.Cells[row][col]))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, missing := range matrix.Missing {
		fmt.Fprintln(r.out, r.styles.warn.Render(fmt.Sprintf("skipped: %v", missing)))
	}
	return nil
}

func (r *Renderer) cell(state query.CellState) string {
	switch state {
	case query.Present:
		return r.styles.present.Render(presentMark)
	case query.Absent:
		return r.styles.absent.Render(absentMark)
	default:
		return r.styles.unspecified.Render(unspecifiedMark)
	}
}
