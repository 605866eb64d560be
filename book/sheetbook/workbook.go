package sheetbook

import (
	"io"

	"github.com/go-data-exporter/bookexport/column"
)

// Workbook is the cell-writing engine behind a spreadsheet book. Rows are
// 1-based; values are already typed for the engine.
type Workbook interface {
	// AddSheet creates a sheet and makes it the target of later writes.
	AddSheet(name string) error
	// SetRow writes values into consecutive cells starting at column A.
	SetRow(sheet string, row int, values []any) error
	// RowHasValues reports whether any of the first width cells of row
	// holds a value.
	RowHasValues(sheet string, row, width int) (bool, error)
	// WriteTo serializes the workbook.
	WriteTo(w io.Writer) (int64, error)
	Close() error
}

// Styler decorates a completed sheet. It runs once per sheet, after the
// last row of that sheet is written.
type Styler interface {
	StyleSheet(wb Workbook, sheet string, cols []column.Descriptor) error
}

// StylerFunc adapts a function to Styler.
type StylerFunc func(wb Workbook, sheet string, cols []column.Descriptor) error

func (f StylerFunc) StyleSheet(wb Workbook, sheet string, cols []column.Descriptor) error {
	return f(wb, sheet, cols)
}
