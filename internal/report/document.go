package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/tkc/vibe-schedule/internal/domain"
	"github.com/tkc/vibe-schedule/internal/schedule"
)

// Projection は1タスク分のJSON出力
type Projection struct {
	TaskID               int           `json:"task_id"`
	ProjectedStart       string        `json:"projected_start"`
	PlannedStart         string        `json:"planned_start"`
	DeltaDays            int           `json:"delta_days"`
	Slipped              bool          `json:"slipped"`
	MaxRemainingDuration float64       `json:"max_remaining_duration"`
	WorkingDaysAdded     int           `json:"working_days_added"`
	Governing            []int         `json:"governing"`
	Predecessors         []Predecessor `json:"predecessors"`
	Warnings             []Warning     `json:"warnings,omitempty"`
}

// Predecessor は考慮された先行タスク
type Predecessor struct {
	ID                int      `json:"id"`
	PercentComplete   float64  `json:"percent_complete"`
	RemainingDuration float64  `json:"remaining_duration"`
	StatusDate        string   `json:"status_date"`
	Governing         bool     `json:"governing,omitempty"`
	Defaulted         []string `json:"defaulted,omitempty"`
}

// Warning は警告のJSON表現
type Warning struct {
	Kind          string `json:"kind"`
	PredecessorID int    `json:"predecessor_id"`
	Message       string `json:"message"`
}

// Batch は一括投影のJSON出力
type Batch struct {
	RunID       string       `json:"run_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Source      string       `json:"source,omitempty"`
	Total       int          `json:"total"`
	Slipped     int          `json:"slipped"`
	MaxDelta    int          `json:"max_delta_days"`
	Failed      int          `json:"failed"`
	Items       []BatchEntry `json:"items"`
}

// BatchEntry は一括投影の1件
type BatchEntry struct {
	TaskID     int         `json:"task_id"`
	Projection *Projection `json:"projection,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// FromProjection は投影結果をJSON出力用に変換する
func FromProjection(p *domain.Projection) Projection {
	governing := make(map[int]bool, len(p.Governing))
	for _, id := range p.Governing {
		governing[id] = true
	}

	doc := Projection{
		TaskID:               p.TaskID,
		ProjectedStart:       p.ProjectedStart.Format(domain.DateLayout),
		PlannedStart:         p.PlannedStart.Format(domain.DateLayout),
		DeltaDays:            p.DeltaDays,
		Slipped:              p.Slipped(),
		MaxRemainingDuration: p.MaxRemainingDuration,
		WorkingDaysAdded:     p.WorkingDaysAdded,
		Governing:            append([]int{}, p.Governing...),
		Predecessors:         make([]Predecessor, 0, len(p.Predecessors)),
	}
	for _, f := range p.Predecessors {
		pred := Predecessor{
			ID:                f.ID,
			PercentComplete:   f.PercentComplete,
			RemainingDuration: f.RemainingDuration,
			StatusDate:        f.StatusDate.Format(domain.DateLayout),
			Governing:         governing[f.ID],
		}
		if f.PercentDefaulted {
			pred.Defaulted = append(pred.Defaulted, string(domain.RolePercentComplete))
		}
		if f.DurationDefaulted {
			pred.Defaulted = append(pred.Defaulted, string(domain.RoleRemainingDuration))
		}
		doc.Predecessors = append(doc.Predecessors, pred)
	}
	for _, w := range p.Warnings {
		doc.Warnings = append(doc.Warnings, Warning{
			Kind:          string(w.Kind),
			PredecessorID: w.PredecessorID,
			Message:       w.Message(),
		})
	}
	return doc
}

// NewBatch は一括投影の結果から Batch を作成する
func NewBatch(source string, items []schedule.BatchItem) Batch {
	b := Batch{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Source:      source,
		Total:       len(items),
		Items:       make([]BatchEntry, 0, len(items)),
	}
	b.Slipped, b.MaxDelta = Slippage(items)

	for _, item := range items {
		entry := BatchEntry{TaskID: item.TaskID}
		if item.Err != nil {
			entry.Error = item.Err.Error()
			b.Failed++
		} else if item.Projection != nil {
			doc := FromProjection(item.Projection)
			entry.Projection = &doc
		}
		b.Items = append(b.Items, entry)
	}
	return b
}

// Slippage は遅れる見込みのタスク数と最大の遅れ日数を返す
func Slippage(items []schedule.BatchItem) (slipped int, maxDelta int) {
	for _, item := range items {
		if item.Err != nil || item.Projection == nil || !item.Projection.Slipped() {
			continue
		}
		slipped++
		maxDelta = max(maxDelta, item.Projection.DeltaDays)
	}
	return slipped, maxDelta
}

// WriteJSON は v をインデント付きJSONとして書き出す
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
