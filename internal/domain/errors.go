package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSchema                 = errors.New("schema error")
	ErrNotFound               = errors.New("not found")
	ErrInvalidDate            = errors.New("invalid date")
	ErrInvalidPredecessorDate = errors.New("invalid predecessor date")
)

// SchemaError は必要なカラムがデータセットに存在しないことを表す
type SchemaError struct {
	Role   Role
	Column string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: no column configured for %s", ErrSchema, e.Role)
	}
	return fmt.Sprintf("%s: column %q (%s) not found in dataset", ErrSchema, e.Column, e.Role)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// NotFoundError はタスクまたは先行タスクが存在しないことを表す
type NotFoundError struct {
	TaskID      int
	Predecessor bool
}

func (e *NotFoundError) Error() string {
	if e.Predecessor {
		return fmt.Sprintf("predecessor with ID %d not found in dataset", e.TaskID)
	}
	return fmt.Sprintf("task with ID %d not found in dataset", e.TaskID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidDateError は対象タスクの必須日付が欠けているか解釈できないことを表す
type InvalidDateError struct {
	TaskID int
	Field  Role
	Column string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid %s (column %q) for task %d", e.Field, e.Column, e.TaskID)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }

// InvalidPredecessorDateError は先行タスクの状況日付が解釈できないことを表す
type InvalidPredecessorDateError struct {
	TaskID        int
	PredecessorID int
}

func (e *InvalidPredecessorDateError) Error() string {
	return fmt.Sprintf("invalid status date for predecessor %d of task %d", e.PredecessorID, e.TaskID)
}

func (e *InvalidPredecessorDateError) Unwrap() error { return ErrInvalidPredecessorDate }
