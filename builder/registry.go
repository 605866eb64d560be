package builder

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/go-data-exporter/bookexport/book/csvbook"
	"github.com/go-data-exporter/bookexport/book/htmlbook"
	"github.com/go-data-exporter/bookexport/book/jsonbook"
	"github.com/go-data-exporter/bookexport/book/sheetbook"
	"github.com/go-data-exporter/bookexport/book/xmlbook"
	"github.com/go-data-exporter/bookexport/column"
	"github.com/go-data-exporter/bookexport/exporterr"
	"github.com/go-data-exporter/bookexport/filetype"
)

// Constructor returns a ready Builder.
type Constructor func() Builder

// Registry maps file types to builder constructors. It is an explicit value
// handed to the compiler, not process-wide state.
type Registry struct {
	mu    sync.RWMutex
	ctors map[filetype.FileType]Constructor
}

func NewRegistry() *Registry {
	return &Registry{ctors: make(map[filetype.FileType]Constructor)}
}

// Register adds or replaces the constructor for t.
func (r *Registry) Register(t filetype.FileType, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[t] = ctor
}

// Builder returns a fresh Builder for t.
func (r *Registry) Builder(t filetype.FileType) (Builder, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[t]
	r.mu.RUnlock()
	if !ok {
		return nil, exporterr.Newf("registry", "Builder", "format", exporterr.ErrUnknownFormat, "%q", t)
	}
	return ctor(), nil
}

// Formats lists the registered file types in sorted order.
func (r *Registry) Formats() []filetype.FileType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]filetype.FileType, 0, len(r.ctors))
	for t := range r.ctors {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Settings configures the builders of DefaultRegistry.
type Settings struct {
	MaxFetchBatch       int
	MissingFieldsAsNull bool
	MaxRowsPerSheet     int
	SheetNamePrefix     string
	// Styler decorates spreadsheet sheets; nil selects a bold, frozen header.
	Styler sheetbook.Styler
	CSV    []csvbook.Option
	JSON   []jsonbook.Option
	XML    []xmlbook.Option
	HTML   []htmlbook.Option
	Logger *slog.Logger
}

// DefaultRegistry registers builders for CSV, XLSX, JSON, XML and HTML.
func DefaultRegistry(s Settings) *Registry {
	opts := []Option{WithMaxFetchBatch(s.MaxFetchBatch), WithLogger(s.Logger)}
	if s.MissingFieldsAsNull {
		opts = append(opts, WithMissingFieldsAsNull())
	}

	styler := s.Styler
	if styler == nil {
		styler = sheetbook.HeaderStyler{FreezeHeader: true}
	}
	sheetOpts := []sheetbook.Option{sheetbook.WithStyler(styler)}
	if s.MaxRowsPerSheet > 0 {
		sheetOpts = append(sheetOpts, sheetbook.WithMaxRowsPerSheet(s.MaxRowsPerSheet))
	}
	if s.SheetNamePrefix != "" {
		sheetOpts = append(sheetOpts, sheetbook.WithSheetNamePrefix(s.SheetNamePrefix))
	}

	r := NewRegistry()
	r.Register(filetype.CSV, func() Builder {
		return New(filetype.CSV, csvbook.Factory(s.CSV...), opts...)
	})
	r.Register(filetype.XLSX, func() Builder {
		xlsxOpts := append(slices.Clone(opts), WithMaxColumns(column.MaxCount))
		return New(filetype.XLSX, sheetbook.Factory(sheetbook.NewExcelizeWorkbook, sheetOpts...), xlsxOpts...)
	})
	r.Register(filetype.JSON, func() Builder {
		return New(filetype.JSON, jsonbook.Factory(s.JSON...), opts...)
	})
	r.Register(filetype.XML, func() Builder {
		return New(filetype.XML, xmlbook.Factory(s.XML...), opts...)
	})
	r.Register(filetype.HTML, func() Builder {
		return New(filetype.HTML, htmlbook.Factory(s.HTML...), opts...)
	})
	return r
}
