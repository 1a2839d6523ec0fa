package source

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tkc/vibe-schedule/internal/table"
)

// YAML はマッピングのシーケンスを読み込む
// トップレベルがマッピングの場合は tasks キーの下を読む
type YAML struct {
	Path string
}

// Load はファイルを読み込む
func (y *YAML) Load(ctx context.Context) (*table.Table, error) {
	data, err := os.ReadFile(y.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", y.Path, err)
	}

	tbl, err := ParseYAML(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", y.Path, err)
	}
	tbl.Name = SheetName(y.Path)
	return tbl, nil
}

// ParseYAML は YAML から表を作る。カラムはキーの初出順に並べる
func ParseYAML(ctx context.Context, data []byte) (*table.Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	rows := doc.Content[0]
	if rows.Kind == yaml.MappingNode {
		rows = mappingValue(rows, DefaultTable)
		if rows == nil {
			return nil, fmt.Errorf("mapping document has no %q key", DefaultTable)
		}
	}
	if rows.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("expected a sequence of mappings at line %d", rows.Line)
	}

	var columns []string
	seen := make(map[string]bool)
	records := make([]map[string]any, 0, len(rows.Content))

	for _, row := range rows.Content {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if row.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("row at line %d is not a mapping", row.Line)
		}
		record := make(map[string]any, len(row.Content)/2)
		for i := 0; i+1 < len(row.Content); i += 2 {
			name := row.Content[i].Value
			var value any
			if err := row.Content[i+1].Decode(&value); err != nil {
				return nil, fmt.Errorf("line %d: %w", row.Content[i+1].Line, err)
			}
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
			record[name] = value
		}
		records = append(records, record)
	}

	return table.FromMaps("", columns, records), nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
