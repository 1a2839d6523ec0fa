package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tkc/vibe-schedule/internal/report"
	"github.com/tkc/vibe-schedule/internal/schedule"
)

var idsCmd = &cobra.Command{
	Use:   "ids <text>",
	Short: "Show the task IDs found in a predecessor field",
	Long: `Parse a predecessor field the way forecast does and print the IDs.

Examples:
  vsched ids "101FS, 102SS+2, bad, 205+3d"    # 101, 102, 205`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := schedule.ParseIDs(strings.Join(args, " "))

		out := cmd.OutOrStdout()
		if jsonOut {
			return report.WriteJSON(out, ids)
		}
		if len(ids) == 0 {
			fmt.Fprintln(out, "No IDs found")
			return nil
		}
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.Itoa(id)
		}
		fmt.Fprintln(out, strings.Join(parts, ", "))
		return nil
	},
}
