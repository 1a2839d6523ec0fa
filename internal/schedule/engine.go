// Package schedule は先行タスクの進捗から開始予定日を投影する
package schedule

import (
	"errors"
	"log/slog"
	"time"

	"github.com/tkc/vibe-schedule/internal/domain"
	"github.com/tkc/vibe-schedule/internal/table"
)

// Engine はデータセットとカラム対応を束ねた投影エンジン
// 生成後は不変なので、Project は並行に呼び出してよい
type Engine struct {
	table  *table.Table
	cols   domain.Columns
	logger *slog.Logger

	idCol, statusCol, startCol, percentCol, remainingCol, predsCol int

	rows  map[int]int // タスクID -> 最初に現れた行
	order []int       // タスクIDの出現順
}

// Option は Engine の設定
type Option func(*Engine)

// WithLogger はログ出力先を設定する
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine はカラム対応を検証して Engine を作成する
// 設定されたカラムがデータセットにない場合は *domain.SchemaError を返す
func NewEngine(tbl *table.Table, cols domain.Columns, opts ...Option) (*Engine, error) {
	if tbl == nil {
		return nil, errors.New("dataset is nil")
	}

	e := &Engine{
		table:  tbl,
		cols:   cols,
		logger: slog.New(slog.DiscardHandler),
		rows:   make(map[int]int, tbl.Len()),
	}
	for _, opt := range opts {
		opt(e)
	}

	targets := map[domain.Role]*int{
		domain.RoleID:                &e.idCol,
		domain.RoleStatusDate:        &e.statusCol,
		domain.RolePlannedStart:      &e.startCol,
		domain.RolePercentComplete:   &e.percentCol,
		domain.RoleRemainingDuration: &e.remainingCol,
		domain.RolePredecessors:      &e.predsCol,
	}
	for _, b := range cols.Bindings() {
		i, ok := tbl.ColumnIndex(b.Column)
		if b.Column == "" || !ok {
			return nil, &domain.SchemaError{Role: b.Role, Column: b.Column}
		}
		*targets[b.Role] = i
	}

	for row := range tbl.Rows {
		id, ok := table.Int(tbl.Value(row, e.idCol))
		if !ok {
			continue
		}
		if _, seen := e.rows[id]; seen {
			continue
		}
		e.rows[id] = row
		e.order = append(e.order, id)
	}

	return e, nil
}

// Project はパッケージ関数版の Engine.Project
func Project(tbl *table.Table, taskID int, cols domain.Columns, opts ...Option) (*domain.Projection, error) {
	e, err := NewEngine(tbl, cols, opts...)
	if err != nil {
		return nil, err
	}
	return e.Project(taskID)
}

// TaskIDs はデータセット上のタスクIDを出現順で返す
func (e *Engine) TaskIDs() []int {
	ids := make([]int, len(e.order))
	copy(ids, e.order)
	return ids
}

// Record は指定IDの行を読み取る
func (e *Engine) Record(taskID int) (*domain.TaskRecord, bool) {
	row, ok := e.rows[taskID]
	if !ok {
		return nil, false
	}
	return e.record(taskID, row), true
}

func (e *Engine) record(taskID, row int) *domain.TaskRecord {
	rec := &domain.TaskRecord{ID: taskID}
	if d, ok := table.Date(e.table.Value(row, e.statusCol)); ok {
		rec.StatusDate = &d
	}
	if d, ok := table.Date(e.table.Value(row, e.startCol)); ok {
		rec.PlannedStart = &d
	}
	if f, ok := table.Number(e.table.Value(row, e.percentCol)); ok {
		rec.PercentComplete = &f
	}
	if f, ok := table.Number(e.table.Value(row, e.remainingCol)); ok {
		rec.RemainingDuration = &f
	}
	preds := e.table.Value(row, e.predsCol)
	rec.HasPredecessors = !table.IsBlank(preds)
	if rec.HasPredecessors {
		rec.Predecessors = ParseIDs(preds)
	}
	return rec
}

// Project は taskID の開始予定日を投影する
//
// 未完了の先行タスクのうち残作業期間が最大のものを、対象タスク自身の
// 状況日付に稼働日で加算する。見つからない・日付が不正な先行タスクは
// 警告として結果に残し、計算は続ける。
func (e *Engine) Project(taskID int) (*domain.Projection, error) {
	task, ok := e.Record(taskID)
	if !ok {
		return nil, &domain.NotFoundError{TaskID: taskID}
	}
	if task.StatusDate == nil {
		return nil, &domain.InvalidDateError{TaskID: taskID, Field: domain.RoleStatusDate, Column: e.cols.StatusDate}
	}
	if task.PlannedStart == nil {
		return nil, &domain.InvalidDateError{TaskID: taskID, Field: domain.RolePlannedStart, Column: e.cols.PlannedStart}
	}

	result := &domain.Projection{
		TaskID:         taskID,
		ProjectedStart: *task.StatusDate,
		PlannedStart:   *task.PlannedStart,
		Predecessors:   []domain.PredecessorFact{},
	}

	if task.HasPredecessors {
		for _, predID := range task.Predecessors {
			fact, warning := e.predecessorFact(taskID, predID)
			if warning != nil {
				e.logger.Warn("skipping predecessor", "task_id", taskID, "predecessor_id", predID, "error", warning.Err)
				result.Warnings = append(result.Warnings, *warning)
				continue
			}
			if fact == nil {
				e.logger.Debug("predecessor complete", "task_id", taskID, "predecessor_id", predID)
				continue
			}
			result.Predecessors = append(result.Predecessors, *fact)
		}
	}

	if len(result.Predecessors) > 0 {
		e.applyGoverning(result, *task.StatusDate)
	}

	result.DeltaDays = daysBetween(result.PlannedStart, result.ProjectedStart)
	return result, nil
}

// predecessorFact は先行タスクの状態を読み取る
// 完了済みなら (nil, nil) を返す
func (e *Engine) predecessorFact(taskID, predID int) (*domain.PredecessorFact, *domain.Warning) {
	pred, ok := e.Record(predID)
	if !ok {
		return nil, &domain.Warning{
			Kind:          domain.WarnPredecessorNotFound,
			PredecessorID: predID,
			Err:           &domain.NotFoundError{TaskID: predID, Predecessor: true},
		}
	}
	if pred.StatusDate == nil {
		return nil, &domain.Warning{
			Kind:          domain.WarnPredecessorInvalidDate,
			PredecessorID: predID,
			Err:           &domain.InvalidPredecessorDateError{TaskID: taskID, PredecessorID: predID},
		}
	}

	if pred.IsComplete() {
		return nil, nil
	}

	fact := &domain.PredecessorFact{
		ID:         predID,
		StatusDate: *pred.StatusDate,
	}
	if pred.PercentComplete != nil {
		fact.PercentComplete = *pred.PercentComplete
	} else {
		fact.PercentDefaulted = true
	}
	if pred.RemainingDuration != nil {
		fact.RemainingDuration = *pred.RemainingDuration
	} else {
		fact.DurationDefaulted = true
	}

	return fact, nil
}

func (e *Engine) applyGoverning(result *domain.Projection, statusDate time.Time) {
	maxRemaining := result.Predecessors[0].RemainingDuration
	for _, f := range result.Predecessors[1:] {
		if f.RemainingDuration > maxRemaining {
			maxRemaining = f.RemainingDuration
		}
	}
	for _, f := range result.Predecessors {
		if f.RemainingDuration == maxRemaining {
			result.Governing = append(result.Governing, f.ID)
		}
	}

	days := WorkingDays(maxRemaining)
	result.MaxRemainingDuration = maxRemaining
	result.WorkingDaysAdded = days
	result.ProjectedStart = AddWorkingDays(statusDate, days)

	e.logger.Debug("projected start",
		"task_id", result.TaskID,
		"status_date", statusDate.Format(domain.DateLayout),
		"max_remaining_duration", maxRemaining,
		"working_days", days,
		"projected_start", result.ProjectedStart.Format(domain.DateLayout),
	)
}

// daysBetween は from から to までの暦日数を返す
// 両方とも UTC 0 時に正規化済みであること
func daysBetween(from, to time.Time) int {
	return int((to.Unix() - from.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60
