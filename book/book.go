// Package book defines the Book abstraction: one output file being
// assembled row by row.
//
// A Book is written in a fixed order. The header goes in once, followed by
// any number of row batches, and then Finalize writes the finished document
// to the destination given at construction:
//
//	b, _ := csvbook.New(w)
//	b.SetColumns(cols)
//	b.AddRows(rows)
//	b.Finalize()
//
// The format implementations live in the csvbook, jsonbook, xmlbook,
// htmlbook and sheetbook sub-packages. Books are single-owner and not safe
// for concurrent use.
package book

import (
	"io"

	"github.com/go-data-exporter/bookexport/column"
	"github.com/go-data-exporter/bookexport/exporterr"
)

// Cell is one resolved value with the type its column declares.
type Cell struct {
	Value any
	Type  column.DataType
}

// Row is one logical output row, in column order.
type Row []Cell

// Book is an in-progress output file.
type Book interface {
	// SetColumns writes the header. It is called exactly once, before data.
	SetColumns(cols []column.Descriptor) error
	// AddRows appends a batch of rows. A nil batch is an error; an empty
	// batch is a no-op.
	AddRows(rows []Row) error
	// Finalize completes the document and writes any buffered output.
	Finalize() error
	// Close releases resources. It is safe to call after Finalize.
	Close() error
}

// SheetCounter is implemented by books that split rows across sheets.
type SheetCounter interface {
	SheetCount() int
}

// Factory creates a Book that writes its document to w.
type Factory func(w io.Writer) (Book, error)

// CheckRows validates a batch against the header width before anything is
// written.
func CheckRows(component string, rows []Row, width int) error {
	if rows == nil {
		return exporterr.New(component, "AddRows", "rows", exporterr.ErrMissingArgument)
	}
	for i, r := range rows {
		if len(r) != width {
			return exporterr.Newf(component, "AddRows", "rows", exporterr.ErrInvalidArgument, "row %d has %d cells, header has %d", i, len(r), width)
		}
	}
	return nil
}
