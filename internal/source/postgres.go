package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tkc/vibe-schedule/internal/table"
)

// Postgres は PostgreSQL の表（またはビュー）を読み込む
type Postgres struct {
	DSN   string
	Table string // schema.table 形式も可
}

// Load は表全体を読み込む
func (p *Postgres) Load(ctx context.Context) (*table.Table, error) {
	conn, err := pgx.Connect(ctx, p.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	defer func() { _ = conn.Close(ctx) }()

	ident := pgx.Identifier(strings.Split(p.Table, "."))
	rows, err := conn.Query(ctx, "SELECT * FROM "+ident.Sanitize())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", p.Table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	tbl := table.New(p.Table, columns)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p.Table, err)
		}
		for i, v := range values {
			values[i] = pgValue(v)
		}
		tbl.Append(values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", p.Table, err)
	}
	return tbl, nil
}

// pgValue は pgx の型を table のセル値に変換する
func pgValue(v any) any {
	switch x := v.(type) {
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case pgtype.Date:
		if !x.Valid || x.InfinityModifier != pgtype.Finite {
			return nil
		}
		return x.Time
	case pgtype.Timestamp:
		if !x.Valid || x.InfinityModifier != pgtype.Finite {
			return nil
		}
		return x.Time
	case pgtype.Timestamptz:
		if !x.Valid || x.InfinityModifier != pgtype.Finite {
			return nil
		}
		return x.Time
	case pgtype.InfinityModifier:
		return nil
	}
	return v
}
