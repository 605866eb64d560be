// Package csvbook writes books as delimited text. Text has no sheets, so rows
// are streamed straight to the destination as they arrive.
package csvbook

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/go-data-exporter/bookexport/book"
	"github.com/go-data-exporter/bookexport/column"
	"github.com/go-data-exporter/bookexport/tostring"
)

const component = "csvbook"

type csvBook struct {
	lc        book.Lifecycle
	encoder   io.WriteCloser
	writer    *csv.Writer
	width     int
	delimiter rune
	useCRLF   bool
	nullValue string
	encoding  encoding.Encoding
}

type Option func(*csvBook)

// New creates a delimited-text book writing to w.
func New(w io.Writer, opts ...Option) *csvBook {
	b := &csvBook{
		lc:        book.Lifecycle{Component: component},
		delimiter: ',',
	}
	for _, opt := range opts {
		opt(b)
	}
	dst := w
	if b.encoding != nil {
		b.encoder = transform.NewWriter(w, b.encoding.NewEncoder())
		dst = b.encoder
	}
	b.writer = csv.NewWriter(dst)
	if b.delimiter != 0 {
		b.writer.Comma = b.delimiter
	}
	b.writer.UseCRLF = b.useCRLF
	return b
}

// Factory returns a book.Factory producing books with opts.
func Factory(opts ...Option) book.Factory {
	return func(w io.Writer) (book.Book, error) {
		return New(w, opts...), nil
	}
}

func WithCustomDelimiter(delimiter rune) Option {
	return func(b *csvBook) {
		b.delimiter = delimiter
	}
}

func WithCRLF(useCRLF bool) Option {
	return func(b *csvBook) {
		b.useCRLF = useCRLF
	}
}

func WithCustomNULL(nullValue string) Option {
	return func(b *csvBook) {
		b.nullValue = nullValue
	}
}

// WithEncoding transcodes the output, e.g. unicode.UTF8BOM to prepend a byte
// order mark for spreadsheet applications.
func WithEncoding(enc encoding.Encoding) Option {
	return func(b *csvBook) {
		b.encoding = enc
	}
}

func (b *csvBook) SetColumns(cols []column.Descriptor) error {
	if err := column.Validate(component, "SetColumns", cols, column.MaxCount); err != nil {
		return err
	}
	if err := b.lc.Advance(book.OpSetColumns); err != nil {
		return err
	}
	b.width = len(cols)
	if err := b.writer.Write(column.Headers(cols)); err != nil {
		return errors.Wrap(err, "csvbook: write header")
	}
	return nil
}

func (b *csvBook) AddRows(rows []book.Row) error {
	if err := b.lc.Check(book.OpAddRows); err != nil {
		return err
	}
	if err := book.CheckRows(component, rows, b.width); err != nil {
		return err
	}
	b.lc.Advance(book.OpAddRows)
	record := make([]string, b.width)
	for _, row := range rows {
		for i, cell := range row {
			s := tostring.ToString(cell.Value)
			if s.IsNULL {
				record[i] = b.nullValue
			} else {
				record[i] = s.String
			}
		}
		if err := b.writer.Write(record); err != nil {
			return errors.Wrap(err, "csvbook: write row")
		}
	}
	return nil
}

func (b *csvBook) Finalize() error {
	if err := b.lc.Advance(book.OpFinalize); err != nil {
		return err
	}
	b.writer.Flush()
	if err := b.writer.Error(); err != nil {
		return errors.Wrap(err, "csvbook: flush")
	}
	if b.encoder != nil {
		if err := b.encoder.Close(); err != nil {
			return errors.Wrap(err, "csvbook: flush encoder")
		}
	}
	return nil
}

func (b *csvBook) Close() error {
	return nil
}
