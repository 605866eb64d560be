// Package htmlbook writes books as a single self-contained HTML table with
// a sticky header.
package htmlbook

import (
	"bufio"
	"html"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/go-data-exporter/bookexport/book"
	"github.com/go-data-exporter/bookexport/column"
	"github.com/go-data-exporter/bookexport/tostring"
)

const component = "htmlbook"

type htmlBook struct {
	lc        book.Lifecycle
	writer    *bufio.Writer
	width     int
	title     string
	nullValue string
	showTypes bool
	bodyOpen  bool
}

type Option func(*htmlBook)

func New(w io.Writer, opts ...Option) *htmlBook {
	b := &htmlBook{
		lc:        book.Lifecycle{Component: component},
		writer:    bufio.NewWriter(w),
		title:     "Export",
		nullValue: `<span style="color:#aaaaaa;">[NULL]</span>`,
		showTypes: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func Factory(opts ...Option) book.Factory {
	return func(w io.Writer) (book.Book, error) {
		return New(w, opts...), nil
	}
}

func WithTitle(title string) Option {
	return func(b *htmlBook) {
		b.title = title
	}
}

// WithCustomNULL sets the markup written for NULL cells. It is not escaped.
func WithCustomNULL(nullValue string) Option {
	return func(b *htmlBook) {
		b.nullValue = nullValue
	}
}

// WithColumnTypes toggles the data type line under each header cell.
func WithColumnTypes(show bool) Option {
	return func(b *htmlBook) {
		b.showTypes = show
	}
}

var htmlStyle = strings.Join(strings.Fields(`<style>
	body, html { margin: 0; padding: 0; }
	* { margin: 0; padding: 0; }
	th {
	  border: 1px solid #dedede;
	  border-top: 0; border-left: 0;
	  padding: 15px;
	}
	td {
	  border: 1px solid #dedede;
	  border-top: 0; border-left: 0;
	  padding: 10px;
	  max-width: 700px;
	  overflow-x: auto;
	  white-space: nowrap;
	  scrollbar-width: none;
	}
	td::-webkit-scrollbar { display: none; }
	p.typ { margin-top: 5px; color: #333; }
	</style>`), " ")

func (b *htmlBook) SetColumns(cols []column.Descriptor) error {
	if err := column.Validate(component, "SetColumns", cols, column.MaxCount); err != nil {
		return err
	}
	if err := b.lc.Advance(book.OpSetColumns); err != nil {
		return err
	}
	b.width = len(cols)
	w := b.writer
	w.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>`)
	w.WriteString(html.EscapeString(b.title))
	w.WriteString(`</title>`)
	w.WriteString(htmlStyle)
	w.WriteString(`</head><body><table style="width:100%;border-spacing:0px;">`)
	w.WriteString(`<thead style="position:sticky;top:0;z-index:99;background:#f9f9f9;"><tr>`)
	for _, c := range cols {
		w.WriteString(`<th><p>`)
		w.WriteString(html.EscapeString(c.HeaderName()))
		w.WriteString(`</p>`)
		if b.showTypes {
			w.WriteString(`<p class=typ>`)
			w.WriteString(c.Type.String())
			w.WriteString(`</p>`)
		}
		w.WriteString(`</th>`)
	}
	w.WriteString(`</tr></thead>`)
	return nil
}

func (b *htmlBook) AddRows(rows []book.Row) error {
	if err := b.lc.Check(book.OpAddRows); err != nil {
		return err
	}
	if err := book.CheckRows(component, rows, b.width); err != nil {
		return err
	}
	b.lc.Advance(book.OpAddRows)
	w := b.writer
	if len(rows) > 0 && !b.bodyOpen {
		w.WriteString(`<tbody>`)
		b.bodyOpen = true
	}
	for _, row := range rows {
		w.WriteString(`<tr>`)
		for _, cell := range row {
			w.WriteString(`<td>`)
			if s := tostring.ToString(cell.Value); s.IsNULL {
				w.WriteString(b.nullValue)
			} else {
				w.WriteString(html.EscapeString(s.String))
			}
			w.WriteString(`</td>`)
		}
		if _, err := w.WriteString(`</tr>`); err != nil {
			return errors.Wrap(err, "htmlbook: write row")
		}
	}
	return nil
}

func (b *htmlBook) Finalize() error {
	if err := b.lc.Advance(book.OpFinalize); err != nil {
		return err
	}
	if b.bodyOpen {
		b.writer.WriteString(`</tbody>`)
	}
	b.writer.WriteString(`</table></body></html>`)
	return errors.Wrap(b.writer.Flush(), "htmlbook: flush")
}

func (b *htmlBook) Close() error {
	return nil
}
