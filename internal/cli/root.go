package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tkc/vibe-schedule/internal/config"
)

var (
	cfg     *config.Config
	logger  = slog.New(slog.DiscardHandler)
	verbose bool
	jsonOut bool
	dataset datasetFlags
)

// rootCmd はルートコマンド
var rootCmd = &cobra.Command{
	Use:   "vsched",
	Short: "Projected start dates from predecessor progress",
	Long: `vsched projects the start date of a schedule task from the progress of
its direct predecessors.

It reads a task table (CSV, JSON, YAML, SQLite, PostgreSQL or a GitHub
Project), finds the unfinished predecessor with the most remaining work and
adds that many working days to the task's status date.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(cmd.ErrOrStderr(), verbose)
		slog.SetDefault(logger)

		var err error
		cfg, err = config.LoadWithPrecedence()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

// Execute はCLIを実行する
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&jsonOut, "json", false, "output as JSON")

	// データセット
	flags.StringVarP(&dataset.File, "file", "f", "", "task table file (glob allowed, e.g. 'plan/*.csv')")
	flags.StringVar(&dataset.Kind, "kind", "", "source kind: csv, tsv, json, yaml, sqlite, postgres, github")
	flags.StringVar(&dataset.Sheet, "sheet", "", "file name (without extension) to pick when --file matches several")
	flags.StringVar(&dataset.Table, "table", "", "table name for sqlite/postgres sources (default \"tasks\")")
	flags.StringVar(&dataset.DSN, "dsn", "", "PostgreSQL connection string")
	flags.StringVar(&dataset.JSONPath, "json-path", "", "gjson path of the row array inside a JSON file")

	// カラム対応
	flags.StringVar(&dataset.Columns.ID, "id-column", "", "column holding the unique task ID")
	flags.StringVar(&dataset.Columns.StatusDate, "status-date-column", "", "column holding the status date")
	flags.StringVar(&dataset.Columns.PlannedStart, "start-column", "", "column holding the planned start date")
	flags.StringVar(&dataset.Columns.PercentComplete, "percent-column", "", "column holding the percent complete (0..1)")
	flags.StringVar(&dataset.Columns.RemainingDuration, "remaining-column", "", "column holding the remaining duration in working days")
	flags.StringVar(&dataset.Columns.Predecessors, "predecessors-column", "", "column holding the predecessor list")

	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(idsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(configCmd)
}
