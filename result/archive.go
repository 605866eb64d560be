package result

import (
	"context"
	"io"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"

	"github.com/go-data-exporter/bookexport/exporterr"
)

// Archive writes one zip entry per book, in order, each named by the book's
// CreateFileName.
func Archive(ctx context.Context, w io.Writer, books []Result) error {
	if len(books) == 0 {
		return exporterr.New(component, "Archive", "books", exporterr.ErrEmptyCollection)
	}
	zw := zip.NewWriter(w)
	for _, b := range books {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := addEntry(ctx, zw, b); err != nil {
			return err
		}
	}
	return errors.Wrap(zw.Close(), "result: close archive")
}

func addEntry(ctx context.Context, zw *zip.Writer, b Result) error {
	name := b.CreateFileName()
	rc, err := b.Data(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()
	entry, err := zw.Create(name)
	if err != nil {
		return errors.Wrapf(err, "result: create entry %s", name)
	}
	if _, err := io.Copy(entry, ctxReader{ctx: ctx, r: rc}); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errors.Wrapf(err, "result: write entry %s", name)
	}
	return nil
}
