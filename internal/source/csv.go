package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tkc/vibe-schedule/internal/table"
)

// utf8BOM は Excel が CSV の先頭に付けるバイト順マーク
const utf8BOM = "\ufeff"

// CSV は区切り文字付きテキストを読み込む。1行目をヘッダーとする
type CSV struct {
	Path  string
	Comma rune
}

// Load はファイルを読み込む
func (c *CSV) Load(ctx context.Context) (*table.Table, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", c.Path, err)
	}
	defer f.Close()

	tbl, err := ReadCSV(ctx, f, c.Comma)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.Path, err)
	}
	tbl.Name = SheetName(c.Path)
	return tbl, nil
}

// ReadCSV は r から表を読み込む。セルはすべて文字列になる
func ReadCSV(ctx context.Context, r io.Reader, comma rune) (*table.Table, error) {
	reader := csv.NewReader(r)
	if comma != 0 {
		reader.Comma = comma
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header row")
		}
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	tbl := table.New("", header)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make([]any, len(record))
		for i, v := range record {
			row[i] = v
		}
		tbl.Append(row)
	}
	return tbl, nil
}
