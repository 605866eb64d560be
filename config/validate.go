package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-data-exporter/bookexport/book/sheetbook"
	"github.com/go-data-exporter/bookexport/filetype"
	"github.com/go-data-exporter/bookexport/logging"
)

// FieldError is a validation failure of one field, named by its YAML path.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError of a configuration.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "configuration validation failed: " + e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:", len(e.Errors))
	for _, fe := range e.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(fe.Error())
	}
	return sb.String()
}

// Validate returns a ValidationError when any field is invalid.
func Validate(cfg *Config) error {
	var errs []FieldError
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	e := cfg.Export
	if ft, err := filetype.Parse(e.Format); err != nil {
		add("export.format", "unknown format %q", e.Format)
	} else if ft.IsArchive() {
		add("export.format", "%q is an archive format, not a book format", e.Format)
	}
	if e.MaxRowsPerBook <= 0 {
		add("export.max_rows_per_book", "must be positive, got %d", e.MaxRowsPerBook)
	}
	if e.MaxFetchBatch <= 0 {
		add("export.max_fetch_batch", "must be positive, got %d", e.MaxFetchBatch)
	}
	if e.MaxRowsPerSheet <= 0 || e.MaxRowsPerSheet > DefaultMaxRowsPerSheet {
		add("export.max_rows_per_sheet", "must be in [1, %d], got %d", DefaultMaxRowsPerSheet, e.MaxRowsPerSheet)
	}
	if err := sheetbook.ValidateSheetNamePrefix(e.SheetNamePrefix); err != nil {
		add("export.sheet_name_prefix", "%v", err)
	}
	if e.MaxRowsPerSheet > 0 && sheetbook.SheetsNeeded(e.MaxRowsPerBook, e.MaxRowsPerSheet) > sheetbook.MaxSheets {
		add("export.max_rows_per_sheet", "a book of %d rows would need more than %d sheets", e.MaxRowsPerBook, sheetbook.MaxSheets)
	}
	if e.ParallelBooks <= 0 {
		add("export.parallel_books", "must be positive, got %d", e.ParallelBooks)
	}
	if e.MissingFields != MissingFieldsStrict && e.MissingFields != MissingFieldsNull {
		add("export.missing_fields", "must be %q or %q, got %q", MissingFieldsStrict, MissingFieldsNull, e.MissingFields)
	}

	if utf8.RuneCountInString(cfg.CSV.Delimiter) != 1 {
		add("csv.delimiter", "must be a single character, got %q", cfg.CSV.Delimiter)
	} else if r, _ := utf8.DecodeRuneInString(cfg.CSV.Delimiter); r == '"' || r == '\r' || r == '\n' {
		add("csv.delimiter", "%q cannot be used as a delimiter", cfg.CSV.Delimiter)
	}

	switch cfg.Storage.Backend {
	case StorageMemory:
	case StorageFile:
		if cfg.Storage.WorkingDir == "" {
			add("storage.working_dir", "required for the file backend")
		}
	default:
		add("storage.backend", "must be %q or %q, got %q", StorageMemory, StorageFile, cfg.Storage.Backend)
	}

	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		add("logging.level", "%v", err)
	}
	if f := cfg.Logging.Format; f != logging.FormatText && f != logging.FormatJSON {
		add("logging.format", "must be %q or %q, got %q", logging.FormatText, logging.FormatJSON, f)
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// DelimiterRune returns the CSV delimiter as a rune.
func (c CSVConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}
