package bookexport

import (
	"log/slog"

	"golang.org/x/text/encoding/unicode"

	"github.com/go-data-exporter/bookexport/book/csvbook"
	"github.com/go-data-exporter/bookexport/book/htmlbook"
	"github.com/go-data-exporter/bookexport/book/jsonbook"
	"github.com/go-data-exporter/bookexport/book/xmlbook"
	"github.com/go-data-exporter/bookexport/builder"
	"github.com/go-data-exporter/bookexport/config"
	"github.com/go-data-exporter/bookexport/filetype"
	"github.com/go-data-exporter/bookexport/metrics"
	"github.com/go-data-exporter/bookexport/result"
)

// NewCompilerFromConfig builds a Compiler, its builder registry and its
// result storage from cfg. m may be nil. Extra options are applied last.
func NewCompilerFromConfig(cfg *config.Config, logger *slog.Logger, m *metrics.Collector, opts ...Option) (*Compiler, error) {
	format, err := filetype.Parse(cfg.Export.Format)
	if err != nil {
		return nil, err
	}
	results, err := ResultFactory(cfg.Storage)
	if err != nil {
		return nil, err
	}
	base := []Option{
		WithFormat(format),
		WithMaxRowsPerBook(cfg.Export.MaxRowsPerBook),
		WithParallelBooks(cfg.Export.ParallelBooks),
		WithRegistry(builder.DefaultRegistry(RegistrySettings(cfg, logger))),
		WithResultFactory(results),
		WithLogger(logger),
		WithMetrics(m),
	}
	return NewCompiler(append(base, opts...)...)
}

// RegistrySettings translates cfg into builder settings.
func RegistrySettings(cfg *config.Config, logger *slog.Logger) builder.Settings {
	s := builder.Settings{
		MaxFetchBatch:       cfg.Export.MaxFetchBatch,
		MissingFieldsAsNull: cfg.Export.MissingFields == config.MissingFieldsNull,
		MaxRowsPerSheet:     cfg.Export.MaxRowsPerSheet,
		SheetNamePrefix:     cfg.Export.SheetNamePrefix,
		CSV: []csvbook.Option{
			csvbook.WithCustomDelimiter(cfg.CSV.DelimiterRune()),
			csvbook.WithCRLF(cfg.CSV.CRLF),
			csvbook.WithCustomNULL(cfg.CSV.NullValue),
		},
		JSON: []jsonbook.Option{jsonbook.WithNewlineDelimited(cfg.JSON.NewlineDelimited)},
		XML:  []xmlbook.Option{xmlbook.WithElementNames(cfg.XML.RootElement, cfg.XML.RowElement)},
		HTML: []htmlbook.Option{
			htmlbook.WithTitle(cfg.HTML.Title),
			htmlbook.WithColumnTypes(!cfg.HTML.HideTypes),
		},
		Logger: logger,
	}
	if cfg.CSV.BOM {
		s.CSV = append(s.CSV, csvbook.WithEncoding(unicode.UTF8BOM))
	}
	return s
}

// ResultFactory returns the storage selected by cfg.
func ResultFactory(cfg config.StorageConfig) (result.Factory, error) {
	if cfg.Backend == config.StorageFile {
		return result.NewFileFactory(cfg.WorkingDir)
	}
	return result.NewMemoryFactory(), nil
}
