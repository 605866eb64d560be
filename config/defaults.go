package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultFormat          = "csv"
	DefaultMaxRowsPerBook  = 1000000
	DefaultMaxFetchBatch   = 10000
	DefaultMaxRowsPerSheet = 1048576 - 2
	DefaultSheetNamePrefix = "Sheet "
	DefaultParallelBooks   = 1
	DefaultMissingFields   = MissingFieldsStrict

	DefaultCSVDelimiter = ","

	DefaultXMLRootElement = "data"
	DefaultXMLRowElement  = "row"

	DefaultHTMLTitle = "Export"

	DefaultStorageBackend = StorageMemory

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultMetricsNamespace = "bookexport"
)

const (
	MissingFieldsStrict = "strict"
	MissingFieldsNull   = "null"

	StorageMemory = "memory"
	StorageFile   = "file"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields.
func ApplyDefaults(cfg *Config) {
	e := &cfg.Export
	if e.Format == "" {
		e.Format = DefaultFormat
	}
	if e.MaxRowsPerBook == 0 {
		e.MaxRowsPerBook = DefaultMaxRowsPerBook
	}
	if e.MaxFetchBatch == 0 {
		e.MaxFetchBatch = DefaultMaxFetchBatch
	}
	if e.MaxRowsPerSheet == 0 {
		e.MaxRowsPerSheet = DefaultMaxRowsPerSheet
	}
	if e.SheetNamePrefix == "" {
		e.SheetNamePrefix = DefaultSheetNamePrefix
	}
	if e.ParallelBooks == 0 {
		e.ParallelBooks = DefaultParallelBooks
	}
	if e.MissingFields == "" {
		e.MissingFields = DefaultMissingFields
	}

	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = DefaultCSVDelimiter
	}
	if cfg.XML.RootElement == "" {
		cfg.XML.RootElement = DefaultXMLRootElement
	}
	if cfg.XML.RowElement == "" {
		cfg.XML.RowElement = DefaultXMLRowElement
	}
	if cfg.HTML.Title == "" {
		cfg.HTML.Title = DefaultHTMLTitle
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.WorkingDir == "" {
		cfg.Storage.WorkingDir = filepath.Join(os.TempDir(), "bookexport")
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}
