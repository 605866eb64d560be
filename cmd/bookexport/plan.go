package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-data-exporter/bookexport"
	"github.com/go-data-exporter/bookexport/book/sheetbook"
	"github.com/go-data-exporter/bookexport/filetype"
)

type planOptions struct {
	source         sourceOptions
	rows           int
	maxRowsPerBook int
}

func newPlanCmd(root *rootOptions) *cobra.Command {
	opts := &planOptions{rows: -1}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print how many books and sheets an export needs",
		Long: `plan computes the book count of an export without writing anything.
The row count comes from --rows, or from counting --query against --db.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if opts.maxRowsPerBook > 0 {
				cfg.Export.MaxRowsPerBook = opts.maxRowsPerBook
			}
			total := opts.rows
			if total < 0 {
				qs, err := opts.source.open(cmd.Context())
				if err != nil {
					return err
				}
				defer qs.close()
				total = qs.total
			}
			books := bookexport.CalculateNumberOfBooks(total, cfg.Export.MaxRowsPerBook)
			perBook := min(total, cfg.Export.MaxRowsPerBook)
			sheets := sheetbook.SheetsNeeded(perBook, cfg.Export.MaxRowsPerSheet)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rows: %d\n", total)
			fmt.Fprintf(out, "books: %d (max %d rows each)\n", books, cfg.Export.MaxRowsPerBook)
			if cfg.Export.Format == filetype.XLSX.String() {
				fmt.Fprintf(out, "sheets per full book: %d (max %d rows each)\n", sheets, cfg.Export.MaxRowsPerSheet)
			}
			format, err := filetype.Parse(cfg.Export.Format)
			if err != nil {
				return err
			}
			if books > 1 {
				format = filetype.Zip
			}
			fmt.Fprintf(out, "output: %s (%s)\n", format, format.ContentType())
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.rows, "rows", -1, "row count to plan for")
	f.IntVar(&opts.maxRowsPerBook, "max-rows-per-book", 0, "overrides export.max_rows_per_book")
	f.StringVar(&opts.source.db, "db", "", "SQLite database file")
	f.StringVar(&opts.source.hive, "hive", "", "HiveServer2 address host:port")
	f.StringVar(&opts.source.hiveAuth, "hive-auth", "NONE", "Hive auth mode")
	f.StringVar(&opts.source.hiveUser, "hive-user", "", "Hive user name")
	f.StringVarP(&opts.source.query, "query", "q", "", "query to count")
	return cmd
}
