// Package render prints normalized tables and failure lists to a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ginjaninja78/receipt-field-extractor/internal/table"
	"github.com/ginjaninja78/receipt-field-extractor/internal/types"
)

// emptyCell is shown for fields a record does not have.
const emptyCell = "-"

// WriteTable renders the table as aligned columns: a header, a rule, and one
// line per record.
func WriteTable(w io.Writer, t table.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))

	rule := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		rule[i] = strings.Repeat("-", len([]rune(c)))
	}
	fmt.Fprintln(tw, strings.Join(rule, "\t"))

	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == "" {
				v = emptyCell
			}
			cells[i] = v
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}

// WriteFailures lists the documents that were skipped and why.
func WriteFailures(w io.Writer, failures []types.Failure) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d document(s) skipped:\n", len(failures))
	for _, f := range failures {
		fmt.Fprintf(w, "  ✗ %s: %v\n", f.Document, f.Err)
	}
}
