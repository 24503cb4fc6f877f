// =============================================================================
// Receipt Field Extractor - XLSX Export
// =============================================================================
//
// This module persists a normalized table as a spreadsheet:
//
//   | Archivo   | Codigo_Establecimiento | Nota_Credito | <extra columns...> |
//   |-----------|------------------------|--------------|--------------------|
//   | good.pdf  | 000987                 | 42           |                    |
//
// The header row is exactly the table's column schema; positional token
// columns never reach the export because the normalizer has removed them.
// Every cell is written as a string so identifiers keep their leading zeros.
//
// EMPTY TABLES:
//   An empty table is refused (ErrEmptyTable). No spreadsheet is created
//   unless there is at least one record to export.
//
// =============================================================================

package xlsxwriter

import (
	"errors"
	"fmt"
	"io"

	"github.com/ginjaninja78/receipt-field-extractor/internal/table"
	"github.com/xuri/excelize/v2"
)

// ErrEmptyTable is returned when asked to export a table without rows.
var ErrEmptyTable = errors.New("nothing to export: table has no rows")

// defaultSheet is the sheet excelize creates in a new workbook.
const defaultSheet = "Sheet1"

// Options controls the layout of the exported workbook.
type Options struct {
	// SheetName is the name of the worksheet. Default: "Resultados"
	SheetName string

	// ColumnWidth is the width applied to every column. Default: 25
	ColumnWidth float64
}

// DefaultOptions returns the default export options.
func DefaultOptions() Options {
	return Options{
		SheetName:   "Resultados",
		ColumnWidth: 25,
	}
}

// =============================================================================
// WRITER FUNCTIONS
// =============================================================================

// Write exports the table to a new .xlsx file.
//
// PARAMETERS:
//   - path: The destination file path.
//   - t:    The normalized table.
//   - opts: Layout options.
//
// RETURNS:
//   - ErrEmptyTable if the table has no rows (no file is created).
//   - An error if the workbook cannot be built or saved.
func Write(path string, t table.Table, opts Options) error {
	f, err := build(t, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

// Encode writes the workbook for the table to w.
func Encode(w io.Writer, t table.Table, opts Options) error {
	f, err := build(t, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

// build creates the in-memory workbook.
func build(t table.Table, opts Options) (*excelize.File, error) {
	if t.Len() == 0 || len(t.Columns) == 0 {
		return nil, ErrEmptyTable
	}

	if opts.SheetName == "" {
		opts.SheetName = DefaultOptions().SheetName
	}
	if opts.ColumnWidth <= 0 {
		opts.ColumnWidth = DefaultOptions().ColumnWidth
	}

	f := excelize.NewFile()
	sheet := opts.SheetName

	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeRows(f, sheet, t); err != nil {
		f.Close()
		return nil, err
	}

	if err := applyLayout(f, sheet, len(t.Columns), opts); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// writeRows writes the header row followed by one row per record.
func writeRows(f *excelize.File, sheet string, t table.Table) error {
	header := make([]string, len(t.Columns))
	copy(header, t.Columns)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		values := make([]string, len(row))
		copy(values, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return nil
}

// applyLayout styles the header and sizes the columns.
func applyLayout(f *excelize.File, sheet string, columns int, opts Options) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	last, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return fmt.Errorf("failed to name column %d: %w", columns, err)
	}
	if err := f.SetColWidth(sheet, "A", last, opts.ColumnWidth); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	return nil
}

// =============================================================================
// READER
// =============================================================================

// ReadTable reads an exported workbook back into its header and rows. Rows
// are padded to the header width because trailing empty cells are not stored.
//
// PARAMETERS:
//   - path: The path to the .xlsx file.
//
// RETURNS:
//   - The header (column schema) and the data rows of the first sheet.
//   - An error if the file cannot be read.
func ReadTable(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}

	header := rows[0]
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		padded := make([]string, len(header))
		copy(padded, row)
		data = append(data, padded)
	}

	return header, data, nil
}
