// Package config loads export settings from YAML with environment
// overrides.
//
// Loading runs in a fixed order: read the file, apply defaults, apply
// BOOKEXPORT_* environment variables, then validate. Every validation
// failure is reported at once in a ValidationError.
package config

type Config struct {
	Export  ExportConfig  `yaml:"export"`
	CSV     CSVConfig     `yaml:"csv"`
	JSON    JSONConfig    `yaml:"json"`
	XML     XMLConfig     `yaml:"xml"`
	HTML    HTMLConfig    `yaml:"html"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type ExportConfig struct {
	// Format is the per-book format: csv, xlsx, json, xml or html.
	Format string `yaml:"format"`
	// MaxRowsPerBook splits larger exports into several books zipped together.
	MaxRowsPerBook int `yaml:"max_rows_per_book"`
	// MaxFetchBatch bounds a single fetch against the row source.
	MaxFetchBatch int `yaml:"max_fetch_batch"`
	// MaxRowsPerSheet is the data-row ceiling of one spreadsheet sheet.
	MaxRowsPerSheet int    `yaml:"max_rows_per_sheet"`
	SheetNamePrefix string `yaml:"sheet_name_prefix"`
	// ParallelBooks is the number of books built concurrently.
	ParallelBooks int `yaml:"parallel_books"`
	// MissingFields is "strict" (fail) or "null" (write an empty cell).
	MissingFields string `yaml:"missing_fields"`
}

type CSVConfig struct {
	Delimiter string `yaml:"delimiter"`
	CRLF      bool   `yaml:"crlf"`
	NullValue string `yaml:"null_value"`
	// BOM prepends a UTF-8 byte order mark.
	BOM bool `yaml:"bom"`
}

type JSONConfig struct {
	NewlineDelimited bool `yaml:"newline_delimited"`
}

type XMLConfig struct {
	RootElement string `yaml:"root_element"`
	RowElement  string `yaml:"row_element"`
}

type HTMLConfig struct {
	Title string `yaml:"title"`
	// HideTypes drops the data type line under each header cell.
	HideTypes bool `yaml:"hide_types"`
}

type StorageConfig struct {
	// Backend is "memory" or "file".
	Backend    string `yaml:"backend"`
	WorkingDir string `yaml:"working_dir"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}
