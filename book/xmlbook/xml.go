// Package xmlbook writes books as an XML document with one <row> element per
// record and one child element per non-NULL column.
package xmlbook

import (
	"bufio"
	"encoding/xml"
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/go-data-exporter/bookexport/book"
	"github.com/go-data-exporter/bookexport/column"
	"github.com/go-data-exporter/bookexport/tostring"
)

const component = "xmlbook"

type xmlBook struct {
	lc       book.Lifecycle
	writer   *bufio.Writer
	elements []string
	root     string
	row      string
}

// Option defines a functional configuration option for the XML book.
type Option func(*xmlBook)

// New creates an XML book writing to w.
func New(w io.Writer, opts ...Option) *xmlBook {
	b := &xmlBook{
		lc:     book.Lifecycle{Component: component},
		writer: bufio.NewWriter(w),
		root:   "data",
		row:    "row",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Factory returns a book.Factory producing XML books.
func Factory(opts ...Option) book.Factory {
	return func(w io.Writer) (book.Book, error) {
		return New(w, opts...), nil
	}
}

// WithElementNames overrides the root and row element names.
func WithElementNames(root, row string) Option {
	return func(b *xmlBook) {
		b.root = ElementName(root)
		b.row = ElementName(row)
	}
}

// SetColumns writes the prolog and opens the root element.
func (b *xmlBook) SetColumns(cols []column.Descriptor) error {
	if err := column.Validate(component, "SetColumns", cols, column.MaxCount); err != nil {
		return err
	}
	if err := b.lc.Advance(book.OpSetColumns); err != nil {
		return err
	}
	b.elements = make([]string, len(cols))
	for i, h := range column.Headers(cols) {
		b.elements[i] = ElementName(h)
	}
	b.writer.WriteString(xml.Header)
	b.writer.WriteString("<" + b.root + ">\n")
	return nil
}

// AddRows writes one element per row. NULL values are omitted.
func (b *xmlBook) AddRows(rows []book.Row) error {
	if err := b.lc.Check(book.OpAddRows); err != nil {
		return err
	}
	if err := book.CheckRows(component, rows, len(b.elements)); err != nil {
		return err
	}
	b.lc.Advance(book.OpAddRows)
	for _, row := range rows {
		b.writer.WriteString("<" + b.row + ">")
		for i, cell := range row {
			s := tostring.ToString(cell.Value)
			if s.IsNULL {
				continue
			}
			b.writer.WriteString("<" + b.elements[i] + ">")
			if err := xml.EscapeText(b.writer, []byte(s.String)); err != nil {
				return errors.Wrap(err, "xmlbook: escape value")
			}
			b.writer.WriteString("</" + b.elements[i] + ">")
		}
		if _, err := b.writer.WriteString("</" + b.row + ">\n"); err != nil {
			return errors.Wrap(err, "xmlbook: write row")
		}
	}
	return nil
}

// Finalize closes the root element and flushes.
func (b *xmlBook) Finalize() error {
	if err := b.lc.Advance(book.OpFinalize); err != nil {
		return err
	}
	b.writer.WriteString("</" + b.root + ">\n")
	return errors.Wrap(b.writer.Flush(), "xmlbook: flush")
}

func (b *xmlBook) Close() error {
	return nil
}

// ElementName turns a header into a valid XML element name by replacing
// disallowed characters with '_' and prefixing names that cannot start an
// element.
func ElementName(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			sb.WriteRune(r)
			continue
		}
		if r == '-' || r == '.' || unicode.IsDigit(r) {
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
			continue
		}
		sb.WriteByte('_')
	}
	name := sb.String()
	if name == "" || strings.HasPrefix(strings.ToLower(name), "xml") {
		name = "_" + name
	}
	return name
}
