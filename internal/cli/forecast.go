package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tkc/vibe-schedule/internal/notify"
	"github.com/tkc/vibe-schedule/internal/report"
	"github.com/tkc/vibe-schedule/internal/schedule"
)

var (
	forecastAll     bool
	forecastNotify  bool
	forecastWorkers int
)

var forecastCmd = &cobra.Command{
	Use:   "forecast [task-id]",
	Short: "Project the start date of a task",
	Long: `Project the start date of a task from its direct predecessors.

Completed predecessors (100%) are ignored. The largest remaining duration
among the others, rounded up to whole working days, is added to the task's
status date. Weekends are skipped.

Examples:
  vsched forecast 42 -f plan.csv           # One task
  vsched forecast 42 --json                # As JSON
  vsched forecast --all -f 'plans/*.csv' --sheet q3
  vsched forecast --all --notify           # Desktop notification on slippage`,
	Args: func(cmd *cobra.Command, args []string) error {
		if forecastAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if forecastAll {
			engine, label, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}
			items, err := projectAll(cmd, engine)
			if err != nil {
				return err
			}
			if err := writeBatch(out, label, items); err != nil {
				return err
			}
			if forecastNotify {
				notifySlippage(items)
			}
			return nil
		}

		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		cols, err := datasetColumns()
		if err != nil {
			return err
		}
		tbl, _, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}
		p, err := schedule.Project(tbl, taskID, cols, schedule.WithLogger(logger))
		if err != nil {
			return err
		}

		if jsonOut {
			return report.WriteJSON(out, report.FromProjection(p))
		}
		return report.NewRenderer(out, report.IsTerminal(out)).Projection(p)
	},
}

func parseTaskID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid task id: %s", s)
	}
	return id, nil
}

func projectAll(cmd *cobra.Command, engine *schedule.Engine) ([]schedule.BatchItem, error) {
	workers := forecastWorkers
	if workers <= 0 {
		workers = cfg.Workers
	}
	items, err := engine.ProjectAll(cmd.Context(), engine.TaskIDs(), workers)
	if err != nil {
		return nil, fmt.Errorf("forecast interrupted: %w", err)
	}
	return items, nil
}

func writeBatch(out io.Writer, label string, items []schedule.BatchItem) error {
	if jsonOut {
		return report.WriteJSON(out, report.NewBatch(label, items))
	}
	return report.NewRenderer(out, report.IsTerminal(out)).Batch(items)
}

func notifySlippage(items []schedule.BatchItem) {
	slipped, maxDelta := report.Slippage(items)
	if slipped == 0 {
		return
	}
	if err := notify.SendSlippage(slipped, maxDelta); err != nil {
		logger.Warn("failed to send notification", "error", err)
	}
}

func init() {
	forecastCmd.Flags().BoolVarP(&forecastAll, "all", "a", false, "project every task in the dataset")
	forecastCmd.Flags().BoolVar(&forecastNotify, "notify", false, "send a desktop notification when tasks slip (with --all)")
	forecastCmd.Flags().IntVarP(&forecastWorkers, "workers", "w", 0, "parallel projections with --all (default: config or CPU count)")
}
