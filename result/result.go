// Package result holds the output of an export: one finished book, or an
// archive of several, stored in memory or in a working directory.
package result

import (
	"context"
	"io"

	"github.com/go-data-exporter/bookexport/exporterr"
	"github.com/go-data-exporter/bookexport/filetype"
)

const component = "result"

// Result is the uniform handle on an export's output. Its data is set once
// and may be read any number of times until Close.
type Result interface {
	// Count is the number of logical books behind the result.
	Count() int
	// FileType is the per-book format for a single book and Zip otherwise.
	FileType() filetype.FileType
	// Name is the base name without extension.
	Name() string
	// CreateFileName returns Name with the extension of FileType.
	CreateFileName() string
	// SetData stores the content of r. It may be called only once.
	SetData(ctx context.Context, r io.Reader) error
	// Data returns a fresh reader positioned at the start of the content.
	Data(ctx context.Context) (io.ReadCloser, error)
	// Close releases the stored content.
	Close() error
}

// Factory creates empty results. The compiler uses it without knowing which
// storage is behind it.
type Factory interface {
	New(name string, format filetype.FileType, count int) (Result, error)
}

type meta struct {
	name   string
	format filetype.FileType
	count  int
}

func newMeta(name string, format filetype.FileType, count int) (meta, error) {
	if name == "" {
		return meta{}, exporterr.New(component, "New", "name", exporterr.ErrMissingArgument)
	}
	if format == "" {
		return meta{}, exporterr.New(component, "New", "format", exporterr.ErrMissingArgument)
	}
	if count < 1 {
		return meta{}, exporterr.Newf(component, "New", "count", exporterr.ErrInvalidArgument, "%d", count)
	}
	if count > 1 {
		format = filetype.Zip
	}
	return meta{name: name, format: format, count: count}, nil
}

func (m meta) Count() int                  { return m.count }
func (m meta) FileType() filetype.FileType { return m.format }
func (m meta) Name() string                { return m.name }

func (m meta) CreateFileName() string {
	return m.name + m.format.Extension()
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// Fill runs write against a pipe whose read side is stored in res. It
// returns the writer's error first, so a cancelled build surfaces as the
// context error rather than a broken pipe.
func Fill(ctx context.Context, res Result, write func(w io.Writer) error) error {
	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		err := write(pw)
		pw.CloseWithError(err)
		done <- err
	}()
	setErr := res.SetData(ctx, pr)
	pr.CloseWithError(setErr)
	if err := <-done; err != nil {
		return err
	}
	return setErr
}
