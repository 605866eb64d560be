package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/go-data-exporter/bookexport"
	"github.com/go-data-exporter/bookexport/logging"
	"github.com/go-data-exporter/bookexport/metrics"
)

type exportOptions struct {
	source         sourceOptions
	name           string
	format         string
	outDir         string
	maxRowsPerBook int
	parallel       int
	metricsFile    string
}

func newExportCmd(root *rootOptions) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a query into one book or a zip of books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			path, err := runExport(ctx, root, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.source.db, "db", "", "SQLite database file")
	f.StringVar(&opts.source.hive, "hive", "", "HiveServer2 address host:port")
	f.StringVar(&opts.source.hiveAuth, "hive-auth", "NONE", "Hive auth mode (NONE, NOSASL, KERBEROS, LDAP)")
	f.StringVar(&opts.source.hiveUser, "hive-user", "", "Hive user name")
	f.StringVarP(&opts.source.query, "query", "q", "", "query to export; end it with ORDER BY for a stable row order")
	f.StringVarP(&opts.name, "name", "n", "export", "base name of the output file")
	f.StringVarP(&opts.format, "format", "f", "", "book format: csv, xlsx, json, xml, html (overrides export.format)")
	f.StringVarP(&opts.outDir, "out", "o", ".", "output directory")
	f.IntVar(&opts.maxRowsPerBook, "max-rows-per-book", 0, "overrides export.max_rows_per_book")
	f.IntVar(&opts.parallel, "parallel", 0, "overrides export.parallel_books")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the export")
	return cmd
}

func runExport(ctx context.Context, root *rootOptions, opts *exportOptions) (string, error) {
	cfg, err := root.loadConfig()
	if err != nil {
		return "", err
	}
	if opts.format != "" {
		cfg.Export.Format = opts.format
	}
	if opts.maxRowsPerBook > 0 {
		cfg.Export.MaxRowsPerBook = opts.maxRowsPerBook
	}
	if opts.parallel > 0 {
		cfg.Export.ParallelBooks = opts.parallel
	}
	if opts.metricsFile != "" {
		cfg.Metrics.Enabled = true
	}

	logger, err := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return "", err
	}

	var (
		collector *metrics.Collector
		registry  = prometheus.NewRegistry()
	)
	if cfg.Metrics.Enabled {
		if collector, err = metrics.NewCollector(cfg.Metrics.Namespace, registry); err != nil {
			return "", err
		}
	}

	qs, err := opts.source.open(ctx)
	if err != nil {
		return "", err
	}
	defer qs.close()

	if qs.unordered {
		logger.Warn("query has no ORDER BY, rows may repeat or go missing across pages", "query", opts.source.query)
	}
	var extra []bookexport.Option
	if qs.sequential && cfg.Export.ParallelBooks > 1 {
		logger.Warn("source is forward-only, building books sequentially", "parallel_books", cfg.Export.ParallelBooks)
		extra = append(extra, bookexport.WithParallelBooks(1))
	}
	compiler, err := bookexport.NewCompilerFromConfig(cfg, logger, collector, extra...)
	if err != nil {
		return "", err
	}

	res, err := compiler.Compile(ctx, qs.src, opts.name, qs.total, qs.cols)
	if err != nil {
		return "", err
	}
	defer res.Close()

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path, err := bookexport.SaveAs(ctx, res, opts.outDir)
	if err != nil {
		return "", err
	}
	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, registry); err != nil {
			return "", fmt.Errorf("write metrics: %w", err)
		}
	}
	return path, nil
}
