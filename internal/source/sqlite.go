package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tkc/vibe-schedule/internal/table"
)

// SQLite は SQLite データベースの表を読み込む
type SQLite struct {
	Path  string
	Table string
}

// Load は表全体を読み込む
func (s *SQLite) Load(ctx context.Context) (*table.Table, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(s.Table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	defer func() { _ = rows.Close() }()

	tbl, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Table, err)
	}
	tbl.Name = s.Table
	return tbl, nil
}

// Tables はデータベース内の表名を返す
func (s *SQLite) Tables(ctx context.Context) ([]string, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// open は既存のファイルだけを開く（存在しないパスで空の DB を作らない）
func (s *SQLite) open() (*sql.DB, error) {
	if _, err := os.Stat(s.Path); err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}

func scanRows(rows *sql.Rows) (*table.Table, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	tbl := table.New("", columns)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		tbl.Append(values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tbl, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
