package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tkc/vibe-schedule/internal/domain"
	"github.com/tkc/vibe-schedule/internal/report"
	"github.com/tkc/vibe-schedule/internal/source"
)

// columnBinding は役割とカラムの対応状況
type columnBinding struct {
	Role   domain.Role `json:"role"`
	Column string      `json:"column"`
	Found  bool        `json:"found"`
}

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "List dataset columns and the column bound to each role",
	Long: `List the columns of the dataset and show which column each of the six
roles (id, status_date, planned_start, percent_complete, remaining_duration,
predecessors) is bound to.

Change a binding with --<role>-column flags or persist it with:
  vsched config set-column <role> <column>`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, label, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}

		cols := dataset.columns(cfg.Columns)
		var bindings []columnBinding
		missing := 0
		for _, b := range cols.Bindings() {
			found := b.Column != "" && tbl.HasColumn(b.Column)
			if !found {
				missing++
			}
			bindings = append(bindings, columnBinding{Role: b.Role, Column: b.Column, Found: found})
		}

		sheetFlag, sheets, err := listSheets(cmd.Context(), dataset.spec(cfg.Source))
		if err != nil {
			logger.Warn("failed to list sheets", "error", err)
		}

		out := cmd.OutOrStdout()
		if jsonOut {
			if err := report.WriteJSON(out, map[string]any{
				"source":   label,
				"columns":  tbl.Columns,
				"bindings": bindings,
				"sheets":   sheets,
			}); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(out, "Columns in %s:\n\n", label)
			for i, c := range tbl.Columns {
				fmt.Fprintf(out, "  %2d. %s\n", i+1, c)
			}
			fmt.Fprintf(out, "\nRole bindings:\n\n")
			for _, b := range bindings {
				mark := "✓"
				if !b.Found {
					mark = "✗"
				}
				fmt.Fprintf(out, "  %s %-19s %s\n", mark, b.Role, b.Column)
			}
			if len(sheets) > 1 {
				fmt.Fprintf(out, "\nSheets (--%s): %s\n", sheetFlag, strings.Join(sheets, ", "))
			}
		}

		if missing > 0 {
			return fmt.Errorf("%d role(s) are not bound to a column", missing)
		}
		return nil
	},
}

// listSheets は選択できるシートと、それを選ぶフラグ名を返す
// SQLite なら表名（--table）、ファイルなら glob に一致したファイル名（--sheet）
func listSheets(ctx context.Context, spec source.Spec) (string, []string, error) {
	kind := spec.Kind
	if kind == "" {
		kind = source.InferKind(spec)
	}

	switch kind {
	case source.KindSQLite:
		path, err := source.ResolveFile(spec.Path, spec.Sheet)
		if err != nil {
			return "", nil, err
		}
		tables, err := (&source.SQLite{Path: path}).Tables(ctx)
		return "table", tables, err
	case source.KindCSV, source.KindTSV, source.KindJSON, source.KindYAML:
		sheets, err := source.Sheets(spec.Path)
		return "sheet", sheets, err
	}
	return "", nil, nil
}
