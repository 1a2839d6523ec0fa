package source

import (
	"context"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/tkc/vibe-schedule/internal/table"
)

// JSON はオブジェクトの配列を読み込む
// RowsPath が空ならドキュメント全体を配列とみなす
type JSON struct {
	Path     string
	RowsPath string
}

// Load はファイルを読み込む
func (j *JSON) Load(ctx context.Context) (*table.Table, error) {
	data, err := os.ReadFile(j.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", j.Path, err)
	}

	tbl, err := ParseJSON(ctx, data, j.RowsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", j.Path, err)
	}
	tbl.Name = SheetName(j.Path)
	return tbl, nil
}

// ParseJSON は JSON から表を作る。カラムはキーの初出順に並べる
func ParseJSON(ctx context.Context, data []byte, rowsPath string) (*table.Table, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}

	rows := gjson.ParseBytes(data)
	if rowsPath != "" {
		rows = rows.Get(rowsPath)
	}
	if !rows.IsArray() {
		return nil, fmt.Errorf("expected an array of objects at %q", displayPath(rowsPath))
	}

	var columns []string
	seen := make(map[string]bool)
	var records []map[string]any

	var rowErr error
	rows.ForEach(func(_, row gjson.Result) bool {
		if err := ctx.Err(); err != nil {
			rowErr = err
			return false
		}
		if !row.IsObject() {
			rowErr = fmt.Errorf("row %d is not an object", len(records)+1)
			return false
		}
		record := make(map[string]any)
		row.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
			record[name] = jsonValue(value)
			return true
		})
		records = append(records, record)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return table.FromMaps("", columns, records), nil
}

func jsonValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num
	case gjson.String:
		return v.Str
	default:
		return v.Raw
	}
}

func displayPath(p string) string {
	if p == "" {
		return "$"
	}
	return p
}
