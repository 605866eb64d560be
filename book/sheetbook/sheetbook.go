// Package sheetbook writes books as spreadsheet workbooks.
//
// A workbook sheet holds a bounded number of rows. When a batch would push
// the current sheet past the configured ceiling, the book starts a new sheet
// named with the next index, replays the header into its first row and keeps
// writing. Callers see one logical row stream; sheet boundaries are internal.
//
// Row 1 of every sheet is the header. Row 2 is a totals row when one was set
// with SetTotals before the first data row; data then starts at row 3 on
// that sheet, and at row 2 otherwise.
package sheetbook

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/go-data-exporter/bookexport/book"
	"github.com/go-data-exporter/bookexport/column"
	"github.com/go-data-exporter/bookexport/exporterr"
	"github.com/go-data-exporter/bookexport/tostring"
)

const component = "sheetbook"

const (
	// MaxSheetRows is the row limit of a worksheet.
	MaxSheetRows = 1048576
	// DefaultMaxRowsPerSheet leaves room for the header and totals rows.
	DefaultMaxRowsPerSheet = MaxSheetRows - 2
	// DefaultSheetNamePrefix names sheets "Sheet 1", "Sheet 2", ...
	DefaultSheetNamePrefix = "Sheet "
)

// Book is a spreadsheet book backed by a Workbook.
type Book struct {
	lc      book.Lifecycle
	wb      Workbook
	out     io.Writer
	styler  Styler
	maxRows int
	prefix  string

	cols   []column.Descriptor
	header []any
	names  []string
	cur    cursor
}

type Option func(*Book)

// WithMaxRowsPerSheet sets the data-row ceiling of each sheet.
func WithMaxRowsPerSheet(n int) Option {
	return func(b *Book) {
		b.maxRows = n
	}
}

// WithSheetNamePrefix sets the prefix sheet names are built from.
func WithSheetNamePrefix(prefix string) Option {
	return func(b *Book) {
		b.prefix = prefix
	}
}

// WithStyler sets the decoration applied to each completed sheet.
func WithStyler(s Styler) Option {
	return func(b *Book) {
		b.styler = s
	}
}

// New creates a book over wb that serializes to w on Finalize. The first
// sheet is created immediately.
func New(wb Workbook, w io.Writer, opts ...Option) (*Book, error) {
	b := &Book{
		lc:      book.Lifecycle{Component: component},
		wb:      wb,
		out:     w,
		maxRows: DefaultMaxRowsPerSheet,
		prefix:  DefaultSheetNamePrefix,
	}
	for _, opt := range opts {
		opt(b)
	}
	if wb == nil {
		return nil, exporterr.New(component, "New", "wb", exporterr.ErrMissingArgument)
	}
	if b.maxRows <= 0 || b.maxRows > DefaultMaxRowsPerSheet {
		return nil, exporterr.Newf(component, "New", "maxRowsPerSheet", exporterr.ErrInvalidArgument, "%d not in [1, %d]", b.maxRows, DefaultMaxRowsPerSheet)
	}
	if err := ValidateSheetNamePrefix(b.prefix); err != nil {
		return nil, err
	}
	if err := b.addSheet(); err != nil {
		return nil, err
	}
	return b, nil
}

// Factory returns a book.Factory creating a fresh workbook per book.
func Factory(newWorkbook func() Workbook, opts ...Option) book.Factory {
	return func(w io.Writer) (book.Book, error) {
		wb := newWorkbook()
		b, err := New(wb, w, opts...)
		if err != nil {
			wb.Close()
			return nil, err
		}
		return b, nil
	}
}

// SetColumns writes the header into row 1 of the current sheet and keeps it
// for replay on later sheets.
func (b *Book) SetColumns(cols []column.Descriptor) error {
	if err := column.Validate(component, "SetColumns", cols, column.MaxCount); err != nil {
		return err
	}
	if err := b.lc.Advance(book.OpSetColumns); err != nil {
		return err
	}
	b.cols = cols
	b.header = make([]any, len(cols))
	for i, h := range column.Headers(cols) {
		b.header[i] = h
	}
	return b.writeHeader()
}

// SetTotals fills the totals row of the current sheet. It must be called
// after SetColumns and before any data row.
func (b *Book) SetTotals(values []any) error {
	if values == nil {
		return exporterr.New(component, "SetTotals", "values", exporterr.ErrMissingArgument)
	}
	if b.lc.State() != book.HeaderWritten || b.cur.located() {
		return exporterr.New(component, "SetTotals", "", exporterr.ErrInvalidState)
	}
	if len(values) > len(b.cols) {
		return exporterr.Newf(component, "SetTotals", "values", exporterr.ErrInvalidArgument, "%d values for %d columns", len(values), len(b.cols))
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = tostring.ToCell(v, b.cols[i].Type)
	}
	return errors.Wrap(b.wb.SetRow(b.sheetName(), totalsRow, cells), "sheetbook: write totals")
}

// AddRows appends rows, starting new sheets as the ceiling is reached.
func (b *Book) AddRows(rows []book.Row) error {
	if err := b.lc.Check(book.OpAddRows); err != nil {
		return err
	}
	if err := book.CheckRows(component, rows, len(b.cols)); err != nil {
		return err
	}
	b.lc.Advance(book.OpAddRows)
	for _, row := range rows {
		if b.cur.full(b.maxRows) {
			if err := b.style(); err != nil {
				return err
			}
			if err := b.addSheet(); err != nil {
				return err
			}
		}
		if !b.cur.located() {
			hasTotals, err := b.wb.RowHasValues(b.sheetName(), totalsRow, len(b.cols))
			if err != nil {
				return errors.Wrap(err, "sheetbook: inspect totals row")
			}
			b.cur = b.cur.start(hasTotals)
		}
		values := make([]any, len(row))
		for i, cell := range row {
			values[i] = tostring.ToCell(cell.Value, cell.Type)
		}
		if err := b.wb.SetRow(b.sheetName(), b.cur.row, values); err != nil {
			return errors.Wrapf(err, "sheetbook: write row %d of %s", b.cur.row, b.sheetName())
		}
		b.cur = b.cur.advance()
	}
	return nil
}

// Finalize styles the last sheet and serializes the workbook.
func (b *Book) Finalize() error {
	if err := b.lc.Advance(book.OpFinalize); err != nil {
		return err
	}
	if err := b.style(); err != nil {
		return err
	}
	if _, err := b.wb.WriteTo(b.out); err != nil {
		return errors.Wrap(err, "sheetbook: serialize workbook")
	}
	return nil
}

// Close releases the workbook.
func (b *Book) Close() error {
	return b.wb.Close()
}

// SheetCount returns the number of sheets created so far.
func (b *Book) SheetCount() int {
	return len(b.names)
}

// SheetNames returns the sheet names in creation order.
func (b *Book) SheetNames() []string {
	return append([]string(nil), b.names...)
}

func (b *Book) sheetName() string {
	return b.names[len(b.names)-1]
}

func (b *Book) addSheet() error {
	next := b.cur.rollover()
	if next.sheet > MaxSheets {
		return exporterr.Newf(component, "AddRows", "rows", exporterr.ErrInvalidArgument, "book needs more than %d sheets", MaxSheets)
	}
	name := fmt.Sprintf("%s%d", b.prefix, next.sheet)
	if err := b.wb.AddSheet(name); err != nil {
		return errors.Wrapf(err, "sheetbook: add sheet %q", name)
	}
	b.names = append(b.names, name)
	b.cur = next
	if b.header != nil {
		return b.writeHeader()
	}
	return nil
}

func (b *Book) writeHeader() error {
	return errors.Wrap(b.wb.SetRow(b.sheetName(), headerRow, b.header), "sheetbook: write header")
}

func (b *Book) style() error {
	if b.styler == nil {
		return nil
	}
	return errors.Wrapf(b.styler.StyleSheet(b.wb, b.sheetName(), b.cols), "sheetbook: style %s", b.sheetName())
}
