package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nao1215/sheetimport"
	"github.com/nao1215/sheetimport/domain/model"
)

// Configuration keys. Each is a flag, a SHEETIMPORT_* environment variable
// and a config file key.
const (
	keyMaxColumnLength = "max-column-length"
	keyNaming          = "naming"
	keyBatchSize       = "batch-size"
	keyBulkInsert      = "bulk-insert"
	keyMappingTable    = "mapping-table"
	keyMemoryLimit     = "memory-limit"
	keyLogLevel        = "log-level"
	keyLogFormat       = "log-format"
)

const envPrefix = "SHEETIMPORT"

func newRootCmd(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "sheetimport <source> <destination>",
		Short: "Import every worksheet of a spreadsheet into an SQLite database",
		Long: `sheetimport copies each worksheet of <source> into its own table of the
existing SQLite database <destination>. Tables are dropped and recreated on
every run. Original column headers are recorded in a mapping table.

Supported sources: .xlsx, .csv, .tsv, .ltsv and .parquet, optionally
compressed with .gz, .bz2, .xz or .zst.`,
		Example: `  sheetimport sales.xlsx sales.db
  sheetimport --naming letters --batch-size 1000 report.xlsx.gz report.db
  SHEETIMPORT_BULK_INSERT=true sheetimport data.csv data.db`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("%w: expected <source> <destination>, got %d argument(s)", sheetimport.ErrUsage, len(args))
			}
			return nil
		},
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(stderr, v.GetString(keyLogLevel), v.GetString(keyLogFormat))
			if err != nil {
				return err
			}
			opts, err := configOptions(v)
			if err != nil {
				return err
			}

			builder, err := sheetimport.NewBuilder().
				SetSource(args[0]).
				SetDestination(args[1]).
				WithOptions(opts...).
				WithLogger(logger).
				Build(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = builder.Cleanup() // Nothing to clean for path sources
			}()

			report, err := builder.Run(cmd.Context())
			if report != nil {
				printReport(stdout, report, err == nil)
			}
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.Int(keyMaxColumnLength, sheetimport.DefaultMaxColumnNameLength, "maximum length of column names")
	flags.String(keyNaming, model.NamingModeShort.String(), `column naming mode: "short" or "letters"`)
	flags.Int(keyBatchSize, sheetimport.DefaultBatchSize, "rows per insert batch")
	flags.Bool(keyBulkInsert, false, "insert each batch with multi-row statements")
	flags.String(keyMappingTable, sheetimport.DefaultMappingTable, "name of the column mapping table")
	flags.Int64(keyMemoryLimit, 0, "stop when the heap exceeds this many MB after reading a sheet (0 = no limit)")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sheetimport.yaml or ./.sheetimport.yaml)")
	cmd.PersistentFlags().String(keyLogLevel, "info", "log level: debug, info, warn, error or disabled")
	cmd.PersistentFlags().String(keyLogFormat, logFormatConsole, `log format: "console" or "json"`)

	// Binding only fails for a nil flag set
	_ = v.BindPFlags(flags)
	_ = v.BindPFlags(cmd.PersistentFlags())

	cmd.AddCommand(newVersionCmd(stdout))
	return cmd
}

// loadConfig reads the environment and an optional config file into v.
// A missing default config file is not an error.
func loadConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("%w: config file %s: %w", sheetimport.ErrInvalidConfig, cfgFile, err)
		}
		return nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigName(".sheetimport")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("%w: %w", sheetimport.ErrInvalidConfig, err)
		}
	}
	return nil
}

// configOptions turns the resolved settings into import options.
func configOptions(v *viper.Viper) ([]sheetimport.ConfigOption, error) {
	mode, err := model.ParseNamingMode(v.GetString(keyNaming))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sheetimport.ErrInvalidConfig, err)
	}
	return []sheetimport.ConfigOption{
		sheetimport.WithMaxColumnNameLength(v.GetInt(keyMaxColumnLength)),
		sheetimport.WithNamingMode(mode),
		sheetimport.WithBatchSize(v.GetInt(keyBatchSize)),
		sheetimport.WithBulkInsert(v.GetBool(keyBulkInsert)),
		sheetimport.WithMappingTable(v.GetString(keyMappingTable)),
		sheetimport.WithMemoryLimitMB(v.GetInt64(keyMemoryLimit)),
	}, nil
}

// printReport writes the per-sheet summary. The closing lines are only
// printed when every sheet was exported.
func printReport(w io.Writer, report *sheetimport.Report, complete bool) {
	ok := color.New(color.FgGreen)
	for _, s := range report.Sheets {
		if s.Skipped {
			_, _ = fmt.Fprintf(w, "- Sheet '%s' skipped (no header row)\n", s.SheetName)
			continue
		}
		_, _ = ok.Fprintf(w, "✓ Sheet '%s' exported -> Table [%s] (%d rows)\n", s.SheetName, s.TableName, s.Rows)
	}
	if !complete {
		return
	}
	_, _ = fmt.Fprintln(w, "All sheets successfully exported!")
	_, _ = fmt.Fprintf(w, "Column mapping saved in table [%s] (per table).\n", report.MappingTable)
}
