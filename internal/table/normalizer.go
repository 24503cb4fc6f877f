// =============================================================================
// Receipt Field Extractor - Table Normalizer
// =============================================================================
//
// The normalizer turns a batch of heterogeneous records into a rectangular
// table for display and export:
//   1. Collect the union of field names in first-seen order
//   2. Drop every positional token column, however many a record produced
//   3. Pin Archivo, Codigo_Establecimiento, Nota_Credito first (always, even
//      when no record has them), then the remaining columns in first-seen
//      order
//   4. Align each record to the schema; missing fields render empty
//
// The result is derived data. Input records are never modified, and
// normalizing the records of a normalized table yields the same table.
//
// =============================================================================

package table

import (
	"slices"

	"github.com/ginjaninja78/receipt-field-extractor/internal/types"
)

// Table is a normalized batch: a column schema plus aligned rows.
type Table struct {
	// Columns is the column schema, in display order.
	Columns []string

	// Rows holds one row per record, aligned to Columns.
	Rows [][]string

	// records holds the pruned records the rows were built from.
	records []types.Record
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Records returns the records of the table with positional tokens removed.
func (t Table) Records() []types.Record {
	out := make([]types.Record, len(t.records))
	copy(out, t.records)
	return out
}

// Normalize builds the table for a batch of records.
//
// PARAMETERS:
//   - records: The records, in batch order.
//
// RETURNS:
//   - A Table whose schema never contains positional columns. An empty
//     input yields a table with no columns and no rows.
func Normalize(records []types.Record) Table {
	if len(records) == 0 {
		return Table{}
	}

	columns := Schema(records)

	t := Table{
		Columns: columns,
		Rows:    make([][]string, len(records)),
		records: make([]types.Record, len(records)),
	}

	for i, record := range records {
		pruned := record.WithoutTokens()
		row := make([]string, len(columns))
		for j, column := range columns {
			// Absent fields stay empty.
			row[j], _ = pruned.Get(column)
		}
		t.Rows[i] = row
		t.records[i] = pruned
	}

	return t
}

// Schema computes the column schema of a non-empty batch.
func Schema(records []types.Record) []string {
	var observed []string
	seen := make(map[string]bool)

	for _, record := range records {
		for _, name := range record.Names() {
			if seen[name] {
				continue
			}
			seen[name] = true
			observed = append(observed, name)
		}
	}

	observed = slices.DeleteFunc(observed, types.IsPositional)

	columns := make([]string, 0, len(observed)+len(types.PinnedFields))
	columns = append(columns, types.PinnedFields...)
	for _, name := range observed {
		if !slices.Contains(types.PinnedFields, name) {
			columns = append(columns, name)
		}
	}

	return columns
}
