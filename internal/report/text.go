package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/tkc/vibe-schedule/internal/domain"
	"github.com/tkc/vibe-schedule/internal/schedule"
)

// Renderer は投影結果をテキストで書き出す
type Renderer struct {
	w      io.Writer
	styles Styles
}

// NewRenderer は新しいRendererを作成する
func NewRenderer(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, styles: NewStyles(color)}
}

// Projection は1タスク分の要約・先行タスク表・警告を書き出す
func (r *Renderer) Projection(p *domain.Projection) error {
	s := r.styles
	var b strings.Builder

	fmt.Fprintln(&b, s.Title.Render(fmt.Sprintf("Task %d", p.TaskID)))
	r.field(&b, "Projected start", p.ProjectedStart.Format(domain.DateLayout))
	r.field(&b, "Planned start", p.PlannedStart.Format(domain.DateLayout))
	r.field(&b, "Delta", r.delta(p.DeltaDays))
	r.field(&b, "Max remaining", formatDuration(p.MaxRemainingDuration)+" days")
	r.field(&b, "Working days added", strconv.Itoa(p.WorkingDaysAdded))
	r.field(&b, "Governing", formatIDs(p.Governing))

	if _, err := io.WriteString(r.w, b.String()); err != nil {
		return err
	}

	if len(p.Predecessors) > 0 {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, s.Title.Render("Predecessors"))
		if err := r.predecessorTable(p); err != nil {
			return err
		}
	}

	if len(p.Warnings) > 0 {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, s.Warn.Render("Warnings"))
		for _, w := range p.Warnings {
			fmt.Fprintf(r.w, "  %s %s\n", s.Warn.Render("⚠"), w.Message())
		}
	}
	return nil
}

func (r *Renderer) field(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %s %s\n", r.styles.Label.Render(fmt.Sprintf("%-19s", label+":")), value)
}

func (r *Renderer) delta(days int) string {
	text := fmt.Sprintf("%+d days", days)
	if days > 0 {
		return r.styles.Late.Render(text)
	}
	return r.styles.OnTime.Render(text)
}

func (r *Renderer) predecessorTable(p *domain.Projection) error {
	governing := make(map[int]bool, len(p.Governing))
	for _, id := range p.Governing {
		governing[id] = true
	}

	w := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\t% COMPLETE\tREMAINING\tSTATUS DATE\tNOTE")
	fmt.Fprintln(w, "  --\t----------\t---------\t-----------\t----")
	for _, f := range p.Predecessors {
		// 装飾は最終列だけ（tabwriter は ANSI エスケープも幅に数える）
		var notes []string
		if governing[f.ID] {
			notes = append(notes, "◀ governing")
		}
		if d := defaultedFields(f); d != "" {
			notes = append(notes, r.styles.Subtle.Render("default "+d))
		}
		fmt.Fprintf(w, "  %d\t%.0f%%\t%s\t%s\t%s\n",
			f.ID,
			f.PercentComplete*100,
			formatDuration(f.RemainingDuration),
			f.StatusDate.Format(domain.DateLayout),
			strings.Join(notes, " "),
		)
	}
	return w.Flush()
}

// Batch は一括投影の一覧と集計を書き出す
func (r *Renderer) Batch(items []schedule.BatchItem) error {
	s := r.styles

	w := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLANNED\tPROJECTED\tDELTA\tGOVERNING\tNOTE")
	fmt.Fprintln(w, "--\t-------\t---------\t-----\t---------\t----")

	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
			fmt.Fprintf(w, "%d\t-\t-\t-\t-\t%s\n", item.TaskID, s.Warn.Render(truncate(item.Err.Error(), 60)))
			continue
		}
		p := item.Projection
		note := ""
		if n := len(p.Warnings); n > 0 {
			note = s.Subtle.Render(fmt.Sprintf("%d warning(s)", n))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%+d\t%s\t%s\n",
			p.TaskID,
			p.PlannedStart.Format(domain.DateLayout),
			p.ProjectedStart.Format(domain.DateLayout),
			p.DeltaDays,
			formatIDs(p.Governing),
			note,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	slipped, maxDelta := Slippage(items)
	fmt.Fprintln(r.w)
	summary := fmt.Sprintf("Total: %d tasks, %d late", len(items), slipped)
	if slipped > 0 {
		summary = s.Late.Render(summary + fmt.Sprintf(" (worst +%d days)", maxDelta))
	} else {
		summary = s.OnTime.Render(summary)
	}
	fmt.Fprintln(r.w, summary)
	if failed > 0 {
		fmt.Fprintln(r.w, s.Warn.Render(fmt.Sprintf("%d task(s) could not be projected", failed)))
	}
	return nil
}

// defaultedFields は既定値で補った値の名前を返す
func defaultedFields(f domain.PredecessorFact) string {
	var names []string
	if f.PercentDefaulted {
		names = append(names, "% complete")
	}
	if f.DurationDefaulted {
		names = append(names, "remaining")
	}
	return strings.Join(names, ", ")
}

func formatDuration(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatIDs(ids []int) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
