// Package builder drives one book to completion: it pages through a row
// source in bounded batches, resolves each record against the column
// descriptors and appends the rows to a fresh book.
package builder

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/go-data-exporter/bookexport/book"
	"github.com/go-data-exporter/bookexport/column"
	"github.com/go-data-exporter/bookexport/exporterr"
	"github.com/go-data-exporter/bookexport/filetype"
	"github.com/go-data-exporter/bookexport/scanner"
)

const component = "builder"

// DefaultMaxFetchBatch bounds a single Fetch call.
const DefaultMaxFetchBatch = 10000

// Stats describes one built book.
type Stats struct {
	Rows    int // data rows written
	Batches int // non-empty fetch batches
	Sheets  int // sheets used; 1 for sheetless formats
}

// Builder writes one book of a fixed format.
type Builder interface {
	Format() filetype.FileType
	// Build writes at most budget rows from src, starting at offset 0 of
	// src, and streams the finished book into w. Fewer rows are written when
	// src runs out first.
	Build(ctx context.Context, budget int, cols []column.Descriptor, src scanner.Source, w io.Writer) (Stats, error)
}

type bookBuilder struct {
	format     filetype.FileType
	newBook    book.Factory
	maxFetch   int
	maxColumns int
	strict     bool
	logger     *slog.Logger
}

type Option func(*bookBuilder)

// WithMaxFetchBatch bounds the count passed to each Fetch call.
func WithMaxFetchBatch(n int) Option {
	return func(b *bookBuilder) {
		if n > 0 {
			b.maxFetch = n
		}
	}
}

// WithMaxColumns sets the format's column limit.
func WithMaxColumns(n int) Option {
	return func(b *bookBuilder) {
		b.maxColumns = n
	}
}

// WithMissingFieldsAsNull writes NULL for fields absent from a record instead
// of failing the build.
func WithMissingFieldsAsNull() Option {
	return func(b *bookBuilder) {
		b.strict = false
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *bookBuilder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a Builder producing format books through newBook.
func New(format filetype.FileType, newBook book.Factory, opts ...Option) Builder {
	b := &bookBuilder{
		format:     format,
		newBook:    newBook,
		maxFetch:   DefaultMaxFetchBatch,
		maxColumns: column.MaxCount,
		strict:     true,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *bookBuilder) Format() filetype.FileType {
	return b.format
}

func (b *bookBuilder) Build(ctx context.Context, budget int, cols []column.Descriptor, src scanner.Source, w io.Writer) (Stats, error) {
	var stats Stats
	if err := column.Validate(component, "Build", cols, b.maxColumns); err != nil {
		return stats, err
	}
	if src == nil {
		return stats, exporterr.New(component, "Build", "src", exporterr.ErrMissingArgument)
	}
	if w == nil {
		return stats, exporterr.New(component, "Build", "w", exporterr.ErrMissingArgument)
	}
	if budget < 0 {
		return stats, exporterr.Newf(component, "Build", "budget", exporterr.ErrInvalidArgument, "%d", budget)
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	bk, err := b.newBook(w)
	if err != nil {
		return stats, errors.Wrapf(err, "builder: create %s book", b.format)
	}
	defer bk.Close()

	if err := bk.SetColumns(cols); err != nil {
		return stats, err
	}

	for stats.Rows < budget {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		want := min(b.maxFetch, budget-stats.Rows)
		records, err := src.Fetch(ctx, stats.Rows, want)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return stats, ctxErr
			}
			return stats, errors.Wrapf(err, "builder: fetch offset=%d count=%d", stats.Rows, want)
		}
		if len(records) == 0 {
			break
		}
		if len(records) > want {
			records = records[:want]
		}
		rows, err := b.resolve(records, cols)
		if err != nil {
			return stats, err
		}
		if err := bk.AddRows(rows); err != nil {
			return stats, err
		}
		stats.Rows += len(rows)
		stats.Batches++
		if len(records) < want {
			break
		}
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if err := bk.Finalize(); err != nil {
		return stats, err
	}
	stats.Sheets = 1
	if sc, ok := bk.(book.SheetCounter); ok {
		stats.Sheets = sc.SheetCount()
	}
	b.logger.Debug("book built",
		"format", b.format,
		"rows", stats.Rows,
		"batches", stats.Batches,
		"sheets", stats.Sheets,
	)
	return stats, nil
}

// resolve turns records into rows in column order, applying formatters.
func (b *bookBuilder) resolve(records []scanner.Record, cols []column.Descriptor) ([]book.Row, error) {
	rows := make([]book.Row, len(records))
	for i, rec := range records {
		row := make(book.Row, len(cols))
		for j, c := range cols {
			v, err := c.Resolve(rec, b.strict)
			if err != nil {
				return nil, err
			}
			if c.Format != nil {
				row[j] = book.Cell{Value: c.Format(v), Type: column.String}
				continue
			}
			row[j] = book.Cell{Value: v, Type: c.Type}
		}
		rows[i] = row
	}
	return rows, nil
}
