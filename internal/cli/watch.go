package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tkc/vibe-schedule/internal/domain"
	"github.com/tkc/vibe-schedule/internal/notify"
	"github.com/tkc/vibe-schedule/internal/schedule"
)

var (
	watchInterval time.Duration
	watchNotify   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-project every task on an interval and report changes",
	Long: `Reload the dataset at regular intervals, project every task and print the
tasks whose projected start changed since the previous round.

Press Ctrl+C to stop watching.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "👀 Watching for schedule changes...\n")
		fmt.Fprintf(out, "   Interval: %s\n", watchInterval)
		fmt.Fprintln(out, "   Press Ctrl+C to stop")
		fmt.Fprintln(out)

		// シグナルハンドリング
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()

		w := &watcher{out: out}

		// 初回実行
		w.poll(ctx)

		for {
			select {
			case <-ticker.C:
				w.poll(ctx)
			case <-sigCh:
				fmt.Fprintln(out, "\n👋 Stopping watch...")
				return nil
			case <-ctx.Done():
				return nil
			}
		}
	},
}

// watcher は前回の投影結果を保持して差分を出す
type watcher struct {
	out      io.Writer
	previous map[int]string
	slipped  map[int]bool
}

func (w *watcher) poll(ctx context.Context) {
	timestamp := time.Now().Format("15:04:05")

	engine, label, err := newEngine(ctx)
	if err != nil {
		fmt.Fprintf(w.out, "[%s] ⚠️  %v\n", timestamp, err)
		if watchNotify {
			if nerr := notify.SendFailure("watch", err.Error()); nerr != nil {
				logger.Warn("failed to send notification", "error", nerr)
			}
		}
		return
	}
	w.project(ctx, engine, label, timestamp)
}

// project は全タスクを投影し、前回との差分を書き出す
func (w *watcher) project(ctx context.Context, engine *schedule.Engine, label, timestamp string) {
	items, err := engine.ProjectAll(ctx, engine.TaskIDs(), cfg.Workers)
	if err != nil {
		fmt.Fprintf(w.out, "[%s] ⚠️  forecast interrupted: %v\n", timestamp, err)
		return
	}

	if w.previous == nil {
		if err := writeBatch(w.out, label, items); err != nil {
			logger.Warn("failed to write forecast", "error", err)
		}
		fmt.Fprintln(w.out)
	} else {
		changes := diffProjections(w.previous, items)
		if len(changes) == 0 {
			fmt.Fprintf(w.out, "[%s] No changes\n", timestamp)
		}
		for _, c := range changes {
			fmt.Fprintf(w.out, "[%s] %s\n", timestamp, c)
		}
	}

	if watchNotify && w.slipped != nil {
		var newlySlipped []schedule.BatchItem
		for _, item := range items {
			if item.Err == nil && item.Projection.Slipped() && !w.slipped[item.TaskID] {
				newlySlipped = append(newlySlipped, item)
			}
		}
		notifySlippage(newlySlipped)
	}

	w.previous = make(map[int]string, len(items))
	w.slipped = make(map[int]bool, len(items))
	for _, item := range items {
		w.previous[item.TaskID] = projectionKey(item)
		w.slipped[item.TaskID] = item.Err == nil && item.Projection.Slipped()
	}
}

// projectionKey は変化を検出するための比較キー
func projectionKey(item schedule.BatchItem) string {
	if item.Err != nil {
		return "error: " + item.Err.Error()
	}
	return fmt.Sprintf("%s (%+d days)", item.Projection.ProjectedStart.Format(domain.DateLayout), item.Projection.DeltaDays)
}

// diffProjections は前回から変わったタスクを表示用の文字列で返す
func diffProjections(previous map[int]string, items []schedule.BatchItem) []string {
	var changes []string
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		seen[item.TaskID] = true
		key := projectionKey(item)
		before, ok := previous[item.TaskID]
		if ok && before == key {
			continue
		}

		line := fmt.Sprintf("task %d: %s", item.TaskID, key)
		if item.Err == nil {
			line = item.Projection.Summary()
		}
		if ok {
			line += fmt.Sprintf(" (was %s)", before)
		} else {
			line += " (new)"
		}
		changes = append(changes, line)
	}
	var removed []int
	for id := range previous {
		if !seen[id] {
			removed = append(removed, id)
		}
	}
	sort.Ints(removed)
	for _, id := range removed {
		changes = append(changes, fmt.Sprintf("task %d: removed", id))
	}
	return changes
}

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 5*time.Minute, "Polling interval")
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "send a desktop notification when a task starts to slip")
}
