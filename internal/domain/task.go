package domain

import "time"

// Role はデータセットのカラムが担う意味上の役割を表す
type Role string

const (
	RoleID                Role = "id"
	RoleStatusDate        Role = "status_date"
	RolePlannedStart      Role = "planned_start"
	RolePercentComplete   Role = "percent_complete"
	RoleRemainingDuration Role = "remaining_duration"
	RolePredecessors      Role = "predecessors"
)

// Microsoft Project のエクスポートで使われるカラム名
const (
	DefaultIDColumn                = "Unique ID"
	DefaultStatusDateColumn        = "Status Date"
	DefaultPlannedStartColumn      = "Start"
	DefaultPercentCompleteColumn   = "% Complete"
	DefaultRemainingDurationColumn = "Remaining Duration"
	DefaultPredecessorsColumn      = "Predecessors"
)

// Columns は6つの役割とデータセット上のカラム名の対応
type Columns struct {
	ID                string `json:"id" yaml:"id" mapstructure:"id"`
	StatusDate        string `json:"status_date" yaml:"status_date" mapstructure:"status_date"`
	PlannedStart      string `json:"planned_start" yaml:"planned_start" mapstructure:"planned_start"`
	PercentComplete   string `json:"percent_complete" yaml:"percent_complete" mapstructure:"percent_complete"`
	RemainingDuration string `json:"remaining_duration" yaml:"remaining_duration" mapstructure:"remaining_duration"`
	Predecessors      string `json:"predecessors" yaml:"predecessors" mapstructure:"predecessors"`
}

// DefaultColumns はデフォルトのカラム対応を返す
func DefaultColumns() Columns {
	return Columns{
		ID:                DefaultIDColumn,
		StatusDate:        DefaultStatusDateColumn,
		PlannedStart:      DefaultPlannedStartColumn,
		PercentComplete:   DefaultPercentCompleteColumn,
		RemainingDuration: DefaultRemainingDurationColumn,
		Predecessors:      DefaultPredecessorsColumn,
	}
}

// RoleColumn は役割とカラム名の組
type RoleColumn struct {
	Role   Role
	Column string
}

// Bindings は役割を固定順で返す（ID が常に先頭）
func (c Columns) Bindings() []RoleColumn {
	return []RoleColumn{
		{RoleID, c.ID},
		{RoleStatusDate, c.StatusDate},
		{RolePlannedStart, c.PlannedStart},
		{RolePercentComplete, c.PercentComplete},
		{RoleRemainingDuration, c.RemainingDuration},
		{RolePredecessors, c.Predecessors},
	}
}

// Set は役割に対応するカラム名を設定する
func (c *Columns) Set(role Role, column string) bool {
	switch role {
	case RoleID:
		c.ID = column
	case RoleStatusDate:
		c.StatusDate = column
	case RolePlannedStart:
		c.PlannedStart = column
	case RolePercentComplete:
		c.PercentComplete = column
	case RoleRemainingDuration:
		c.RemainingDuration = column
	case RolePredecessors:
		c.Predecessors = column
	default:
		return false
	}
	return true
}

// Merge は空でない値で上書きした Columns を返す
func (c Columns) Merge(override Columns) Columns {
	for _, b := range override.Bindings() {
		if b.Column != "" {
			c.Set(b.Role, b.Column)
		}
	}
	return c
}

// TaskRecord はデータセットの1行を読み取った結果
// 解釈できなかった値は nil になる
type TaskRecord struct {
	ID                int
	StatusDate        *time.Time
	PlannedStart      *time.Time
	PercentComplete   *float64
	RemainingDuration *float64
	Predecessors      []int
	HasPredecessors   bool // 先行タスク欄が空でないか
}

// IsComplete は完了率がちょうど 1 かどうかを返す
func (r *TaskRecord) IsComplete() bool {
	return r.PercentComplete != nil && *r.PercentComplete == 1
}
