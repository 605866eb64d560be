package bookexport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-data-exporter/bookexport/builder"
	"github.com/go-data-exporter/bookexport/column"
	"github.com/go-data-exporter/bookexport/exporterr"
	"github.com/go-data-exporter/bookexport/filetype"
	"github.com/go-data-exporter/bookexport/logging"
	"github.com/go-data-exporter/bookexport/metrics"
	"github.com/go-data-exporter/bookexport/result"
	"github.com/go-data-exporter/bookexport/scanner"
)

const component = "compiler"

// DefaultMaxRowsPerBook is the book size used when none is configured.
const DefaultMaxRowsPerBook = 1000000

// Compiler turns a row source into an export result. It splits the rows
// into books of at most MaxRowsPerBook rows and zips them when more than one
// is needed. A Compiler holds no per-export state and may be shared.
type Compiler struct {
	format         filetype.FileType
	maxRowsPerBook int
	parallel       int
	registry       *builder.Registry
	results        result.Factory
	logger         *slog.Logger
	metrics        *metrics.Collector
}

type Option func(*Compiler)

// WithFormat selects the per-book format. Default csv.
func WithFormat(format filetype.FileType) Option {
	return func(c *Compiler) {
		c.format = format
	}
}

func WithMaxRowsPerBook(n int) Option {
	return func(c *Compiler) {
		c.maxRowsPerBook = n
	}
}

// WithParallelBooks builds up to n books at once. Sources must then accept
// fetches at any offset; a forward-only source from scanner.FromRows does
// not.
func WithParallelBooks(n int) Option {
	return func(c *Compiler) {
		c.parallel = n
	}
}

func WithRegistry(r *builder.Registry) Option {
	return func(c *Compiler) {
		c.registry = r
	}
}

// WithResultFactory selects where books and archives are stored. Default
// memory.
func WithResultFactory(f result.Factory) Option {
	return func(c *Compiler) {
		c.results = f
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Collector) Option {
	return func(c *Compiler) {
		c.metrics = m
	}
}

// NewCompiler creates a Compiler. Without WithRegistry it uses
// builder.DefaultRegistry with default settings.
func NewCompiler(opts ...Option) (*Compiler, error) {
	c := &Compiler{
		format:         filetype.CSV,
		maxRowsPerBook: DefaultMaxRowsPerBook,
		parallel:       1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDiscard(c.logger)
	if c.registry == nil {
		c.registry = builder.DefaultRegistry(builder.Settings{Logger: c.logger})
	}
	if c.results == nil {
		c.results = result.NewMemoryFactory()
	}
	if c.maxRowsPerBook <= 0 {
		return nil, exporterr.Newf(component, "NewCompiler", "maxRowsPerBook", exporterr.ErrInvalidArgument, "%d", c.maxRowsPerBook)
	}
	if c.parallel <= 0 {
		return nil, exporterr.Newf(component, "NewCompiler", "parallel", exporterr.ErrInvalidArgument, "%d", c.parallel)
	}
	if c.format.IsArchive() {
		return nil, exporterr.Newf(component, "NewCompiler", "format", exporterr.ErrInvalidArgument, "%s is not a book format", c.format)
	}
	if _, err := c.registry.Builder(c.format); err != nil {
		return nil, err
	}
	return c, nil
}

// Format returns the per-book format.
func (c *Compiler) Format() filetype.FileType {
	return c.format
}

// CalculateNumberOfBooks returns how many books totalRows needs at
// maxRowsPerBook rows each. It is never less than one.
func CalculateNumberOfBooks(totalRows, maxRowsPerBook int) int {
	if totalRows <= 0 || maxRowsPerBook <= 0 {
		return 1
	}
	return (totalRows-1)/maxRowsPerBook + 1
}

// CalculateNumberOfBooks is the package function bound to the compiler's
// book size.
func (c *Compiler) CalculateNumberOfBooks(totalRows int) int {
	return CalculateNumberOfBooks(totalRows, c.maxRowsPerBook)
}

// Compile exports up to totalRows rows of src. A single book is returned
// as is; several books are returned as one zip archive whose entries are
// named baseName_1, baseName_2 and so on. On any error, including
// cancellation, everything stored so far is released.
func (c *Compiler) Compile(ctx context.Context, src scanner.Source, baseName string, totalRows int, cols []column.Descriptor) (res result.Result, err error) {
	if baseName == "" {
		return nil, exporterr.New(component, "Compile", "baseName", exporterr.ErrMissingArgument)
	}
	if src == nil {
		return nil, exporterr.New(component, "Compile", "src", exporterr.ErrMissingArgument)
	}
	if totalRows < 0 {
		return nil, exporterr.Newf(component, "Compile", "totalRows", exporterr.ErrInvalidArgument, "%d", totalRows)
	}
	if err := column.Validate(component, "Compile", cols, column.MaxCount); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		c.metrics.ObserveCompile(c.format.String(), status(err), time.Since(start))
	}()

	n := c.CalculateNumberOfBooks(totalRows)
	c.logger.Debug("compiling export", "name", baseName, "format", c.format, "rows", totalRows, "books", n)

	if n == 1 {
		single, stats, buildErr := c.buildBook(ctx, src, baseName, 0, totalRows, cols)
		if buildErr != nil {
			return nil, buildErr
		}
		c.logger.Info("export compiled", "name", baseName, "format", c.format, "books", 1, "rows", stats.Rows, "elapsed", time.Since(start))
		return single, nil
	}

	books := make([]result.Result, n)
	rows := make([]int, n)
	defer func() {
		for _, b := range books {
			if b != nil {
				b.Close()
			}
		}
	}()

	build := func(ctx context.Context, i int) error {
		offset := i * c.maxRowsPerBook
		budget := min(c.maxRowsPerBook, totalRows-offset)
		name := fmt.Sprintf("%s_%d", baseName, i+1)
		b, stats, err := c.buildBook(ctx, scanner.Offset(src, offset), name, i, budget, cols)
		if err != nil {
			return err
		}
		books[i], rows[i] = b, stats.Rows
		return nil
	}
	if c.parallel > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.parallel)
		for i := range books {
			g.Go(func() error { return build(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, err
		}
	} else {
		for i := range books {
			if err := build(ctx, i); err != nil {
				return nil, err
			}
		}
	}

	archive, newErr := c.results.New(baseName, c.format, n)
	if newErr != nil {
		return nil, newErr
	}
	if err := result.Fill(ctx, archive, func(w io.Writer) error {
		return result.Archive(ctx, w, books)
	}); err != nil {
		archive.Close()
		return nil, err
	}
	total := 0
	for _, r := range rows {
		total += r
	}
	c.logger.Info("export compiled", "name", baseName, "format", c.format, "books", n, "rows", total, "elapsed", time.Since(start))
	return archive, nil
}

// buildBook builds one book from src into a fresh result.
func (c *Compiler) buildBook(ctx context.Context, src scanner.Source, name string, index, budget int, cols []column.Descriptor) (result.Result, builder.Stats, error) {
	var stats builder.Stats
	b, err := c.registry.Builder(c.format)
	if err != nil {
		return nil, stats, err
	}
	res, err := c.results.New(name, c.format, 1)
	if err != nil {
		return nil, stats, err
	}
	err = result.Fill(ctx, res, func(w io.Writer) error {
		var err error
		stats, err = b.Build(ctx, budget, cols, src, w)
		return err
	})
	if err != nil {
		res.Close()
		return nil, stats, err
	}
	c.metrics.ObserveBook(c.format.String(), stats.Rows, stats.Batches, stats.Sheets)
	c.logger.Debug("book done", "name", name, "book", index+1, "rows", stats.Rows, "batches", stats.Batches, "sheets", stats.Sheets)
	return res, stats, nil
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "error"
}
