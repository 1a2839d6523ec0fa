// Package table は表形式データセットのメモリ表現を提供する
package table

// Table はメモリ上に展開された表形式データ
// 一度読み込んだ後は変更しない前提で、複数の goroutine から参照してよい
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any

	index map[string]int
}

// New は新しい Table を作成する
func New(name string, columns []string) *Table {
	t := &Table{
		Name:    name,
		Columns: columns,
	}
	t.reindex()
	return t
}

// FromMaps は行ごとの map から Table を作成する
// columns の順でセルを取り出し、存在しないキーは nil になる
func FromMaps(name string, columns []string, rows []map[string]any) *Table {
	t := New(name, columns)
	for _, r := range rows {
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = r[c]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// Append は行を追加する。カラム数に合わせて切り詰め・補完する
func (t *Table) Append(row []any) {
	normalized := make([]any, len(t.Columns))
	copy(normalized, row)
	t.Rows = append(t.Rows, normalized)
}

// ColumnIndex はカラム名の位置を返す。名前は完全一致で比較する
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t.index == nil {
		for i, c := range t.Columns {
			if c == name {
				return i, true
			}
		}
		return 0, false
	}
	i, ok := t.index[name]
	return i, ok
}

// HasColumn はカラムが存在するかどうかを返す
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// Len は行数を返す
func (t *Table) Len() int {
	return len(t.Rows)
}

// Value は指定セルの値を返す。範囲外は nil
func (t *Table) Value(row, col int) any {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return nil
	}
	return r[col]
}
