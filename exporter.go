package bookexport

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/go-data-exporter/bookexport/column"
	"github.com/go-data-exporter/bookexport/result"
	"github.com/go-data-exporter/bookexport/scanner"
)

// Exporter exports a whole cursor with columns inferred from its metadata.
type Exporter struct {
	rows     scanner.Rows
	compiler *Compiler
}

func New(rows scanner.Rows, compiler *Compiler) *Exporter {
	return &Exporter{
		rows:     rows,
		compiler: compiler,
	}
}

// Export compiles up to totalRows rows of the cursor. The cursor is read
// once, front to back, so books are built one after another even when the
// compiler is configured for parallel books.
func (e *Exporter) Export(ctx context.Context, name string, totalRows int) (result.Result, error) {
	cols, err := e.rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "exporter: read columns")
	}
	sequential := *e.compiler
	sequential.parallel = 1
	return sequential.Compile(ctx, scanner.FromRows(e.rows), name, totalRows, column.FromScanner(cols))
}

func (e *Exporter) Write(ctx context.Context, w io.Writer, name string, totalRows int) error {
	res, err := e.Export(ctx, name, totalRows)
	if err != nil {
		return err
	}
	defer res.Close()
	_, err = WriteTo(ctx, res, w)
	return err
}

// WriteFile exports into dir and returns the path of the written file.
func (e *Exporter) WriteFile(ctx context.Context, dir, name string, totalRows int) (string, error) {
	res, err := e.Export(ctx, name, totalRows)
	if err != nil {
		return "", err
	}
	defer res.Close()
	return SaveAs(ctx, res, dir)
}

// WriteTo copies the content of res to w.
func WriteTo(ctx context.Context, res result.Result, w io.Writer) (int64, error) {
	rc, err := res.Data(ctx)
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	n, err := io.Copy(w, rc)
	return n, errors.Wrap(err, "exporter: copy result")
}

// SaveAs writes res to dir under res.CreateFileName and returns the path. A
// partially written file is removed.
func SaveAs(ctx context.Context, res result.Result, dir string) (string, error) {
	path := filepath.Join(dir, res.CreateFileName())
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "exporter: create output")
	}
	_, err = WriteTo(ctx, res, f)
	if closeErr := f.Close(); err == nil {
		err = errors.Wrap(closeErr, "exporter: close output")
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
