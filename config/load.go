package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads the YAML file at path, applies defaults and validates.
// Environment variables are not consulted; see LoadConfigWithEnvOverrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads path like LoadConfig and then applies
// BOOKEXPORT_SECTION_FIELD variables on top. An empty path starts from the
// defaults.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}
	applyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	envString("BOOKEXPORT_EXPORT_FORMAT", &cfg.Export.Format)
	envInt("BOOKEXPORT_EXPORT_MAX_ROWS_PER_BOOK", &cfg.Export.MaxRowsPerBook)
	envInt("BOOKEXPORT_EXPORT_MAX_FETCH_BATCH", &cfg.Export.MaxFetchBatch)
	envInt("BOOKEXPORT_EXPORT_MAX_ROWS_PER_SHEET", &cfg.Export.MaxRowsPerSheet)
	envString("BOOKEXPORT_EXPORT_SHEET_NAME_PREFIX", &cfg.Export.SheetNamePrefix)
	envInt("BOOKEXPORT_EXPORT_PARALLEL_BOOKS", &cfg.Export.ParallelBooks)
	envString("BOOKEXPORT_EXPORT_MISSING_FIELDS", &cfg.Export.MissingFields)

	envString("BOOKEXPORT_CSV_DELIMITER", &cfg.CSV.Delimiter)
	envBool("BOOKEXPORT_CSV_CRLF", &cfg.CSV.CRLF)
	envString("BOOKEXPORT_CSV_NULL_VALUE", &cfg.CSV.NullValue)
	envBool("BOOKEXPORT_CSV_BOM", &cfg.CSV.BOM)

	envBool("BOOKEXPORT_JSON_NEWLINE_DELIMITED", &cfg.JSON.NewlineDelimited)

	envString("BOOKEXPORT_STORAGE_BACKEND", &cfg.Storage.Backend)
	envString("BOOKEXPORT_STORAGE_WORKING_DIR", &cfg.Storage.WorkingDir)

	envString("BOOKEXPORT_LOGGING_LEVEL", &cfg.Logging.Level)
	envString("BOOKEXPORT_LOGGING_FORMAT", &cfg.Logging.Format)

	envBool("BOOKEXPORT_METRICS_ENABLED", &cfg.Metrics.Enabled)
	envString("BOOKEXPORT_METRICS_NAMESPACE", &cfg.Metrics.Namespace)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
