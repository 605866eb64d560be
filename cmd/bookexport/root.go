package main

import (
	"github.com/spf13/cobra"

	"github.com/go-data-exporter/bookexport/config"
)

type rootOptions struct {
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "bookexport",
		Short: "Export query results into size-limited document files",
		Long: `bookexport pages through a query result and writes it into CSV, XLSX,
JSON, XML or HTML books. Exports larger than the configured book size are split
into several books and delivered as one zip archive; spreadsheet books start
a new sheet whenever a sheet fills up.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level")

	cmd.AddCommand(newExportCmd(opts), newPlanCmd(opts), newVersionCmd())
	return cmd
}

// loadConfig reads the config file (if any), environment overrides and the
// global flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
