package jsonbook

import (
	"io"
	"math"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/go-data-exporter/bookexport/book"
	"github.com/go-data-exporter/bookexport/column"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const component = "jsonbook"

type Option func(*jsonBook)

// jsonBook writes one object per row with keys in column order, either as a
// JSON array or newline-delimited.
type jsonBook struct {
	lc               book.Lifecycle
	stream           *jsoniter.Stream
	keys             []string
	rowID            int
	newlineDelimited bool
}

func New(w io.Writer, opts ...Option) *jsonBook {
	b := &jsonBook{
		lc:     book.Lifecycle{Component: component},
		stream: jsoniter.NewStream(json, w, 4096),
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

func WithNewlineDelimited(isNewlineDelimited bool) Option {
	return func(b *jsonBook) {
		b.newlineDelimited = isNewlineDelimited
	}
}

// SetColumns records the object keys. JSON has no header row.
func (b *jsonBook) SetColumns(cols []column.Descriptor) error {
	if err := column.Validate(component, "SetColumns", cols, column.MaxCount); err != nil {
		return err
	}
	if err := b.lc.Advance(book.OpSetColumns); err != nil {
		return err
	}
	b.keys = column.Headers(cols)
	if !b.newlineDelimited {
		b.stream.WriteArrayStart()
	}
	return nil
}

func (b *jsonBook) AddRows(rows []book.Row) error {
	if err := b.lc.Check(book.OpAddRows); err != nil {
		return err
	}
	if err := book.CheckRows(component, rows, len(b.keys)); err != nil {
		return err
	}
	b.lc.Advance(book.OpAddRows)
	for _, row := range rows {
		if !b.newlineDelimited && b.rowID > 0 {
			b.stream.WriteMore()
		}
		b.stream.WriteObjectStart()
		for i, cell := range row {
			if i > 0 {
				b.stream.WriteMore()
			}
			b.stream.WriteObjectField(b.keys[i])
			b.stream.WriteVal(finite(cell.Value))
		}
		b.stream.WriteObjectEnd()
		if b.newlineDelimited {
			b.stream.WriteRaw("\n")
		}
		b.rowID++
		if b.stream.Error != nil {
			return errors.Wrapf(b.stream.Error, "jsonbook: encode row %d", b.rowID)
		}
	}
	return errors.Wrap(b.stream.Flush(), "jsonbook: flush")
}

// finite replaces NaN and infinities, which JSON cannot represent, with the
// same text the other formats write.
func finite(v any) any {
	switch f := v.(type) {
	case float64:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	case float32:
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return strconv.FormatFloat(float64(f), 'f', -1, 32)
		}
	}
	return v
}

func (b *jsonBook) Finalize() error {
	if err := b.lc.Advance(book.OpFinalize); err != nil {
		return err
	}
	if !b.newlineDelimited {
		b.stream.WriteArrayEnd()
		b.stream.WriteRaw("\n")
	}
	return errors.Wrap(b.stream.Flush(), "jsonbook: flush")
}

func (b *jsonBook) Close() error {
	return nil
}
