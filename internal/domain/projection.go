package domain

import (
	"fmt"
	"time"
)

// PredecessorFact は投影計算で考慮された先行タスクの状態
type PredecessorFact struct {
	ID                int       `json:"id"`
	PercentComplete   float64   `json:"percent_complete"`
	RemainingDuration float64   `json:"remaining_duration"`
	StatusDate        time.Time `json:"status_date"`

	// 値が解釈できず 0 とみなした場合に true
	PercentDefaulted  bool `json:"percent_defaulted,omitempty"`
	DurationDefaulted bool `json:"duration_defaulted,omitempty"`
}

// WarningKind は致命的でない問題の種類
type WarningKind string

const (
	WarnPredecessorNotFound    WarningKind = "predecessor_not_found"
	WarnPredecessorInvalidDate WarningKind = "predecessor_invalid_date"
)

// Warning は投影を中断しない問題の記録
type Warning struct {
	Kind          WarningKind `json:"kind"`
	PredecessorID int         `json:"predecessor_id"`
	Err           error       `json:"-"`
}

// Message は表示用のメッセージを返す
func (w Warning) Message() string {
	if w.Err != nil {
		return w.Err.Error()
	}
	return fmt.Sprintf("%s: predecessor %d", w.Kind, w.PredecessorID)
}

// Projection は開始予定日の投影結果
type Projection struct {
	TaskID         int       `json:"task_id"`
	ProjectedStart time.Time `json:"projected_start"`
	PlannedStart   time.Time `json:"planned_start"`
	DeltaDays      int       `json:"delta_days"`

	// 先行タスクの残作業期間の最大値と、実際に加算した稼働日数
	MaxRemainingDuration float64 `json:"max_remaining_duration"`
	WorkingDaysAdded     int     `json:"working_days_added"`
	// 最大値を持つ先行タスク（同値はすべて）
	Governing []int `json:"governing,omitempty"`

	Predecessors []PredecessorFact `json:"predecessors"`
	Warnings     []Warning         `json:"-"`
}

// Slipped は計画より遅れる見込みかどうかを返す
func (p *Projection) Slipped() bool {
	return p.DeltaDays > 0
}

// Summary は結果の一行要約を返す
func (p *Projection) Summary() string {
	return fmt.Sprintf("task %d: projected %s, planned %s (%+d days)",
		p.TaskID, p.ProjectedStart.Format(DateLayout), p.PlannedStart.Format(DateLayout), p.DeltaDays)
}

// DateLayout は日付の表示形式
const DateLayout = "2006-01-02"
