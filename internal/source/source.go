// Package source はファイルやデータベースからタスク表を読み込む
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tkc/vibe-schedule/internal/table"
)

// Kind はデータソースの種類
type Kind string

const (
	KindCSV      Kind = "csv"
	KindTSV      Kind = "tsv"
	KindJSON     Kind = "json"
	KindYAML     Kind = "yaml"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindGitHub   Kind = "github"
)

// DefaultTable は SQL ソースで表名が省略されたときの表名
const DefaultTable = "tasks"

// Spec はデータソースの指定
type Spec struct {
	Kind     Kind
	Path     string // ファイルパス（glob 可）
	Sheet    string // glob に複数一致したときに選ぶファイル名（拡張子なし）
	Table    string // SQL の表名
	DSN      string // PostgreSQL 接続文字列
	JSONPath string // JSON 内の行配列の位置（gjson パス）
}

// Loader はタスク表を読み込む
type Loader interface {
	Load(ctx context.Context) (*table.Table, error)
}

// Open は Spec に応じてタスク表を読み込む
func Open(ctx context.Context, spec Spec) (*table.Table, error) {
	loader, err := NewLoader(spec)
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx)
}

// NewLoader は Spec に対応する Loader を返す
func NewLoader(spec Spec) (Loader, error) {
	kind := spec.Kind
	if kind == "" {
		kind = InferKind(spec)
	}
	if kind == "" {
		return nil, fmt.Errorf("cannot determine source kind for %q; use --kind", spec.Path)
	}

	switch kind {
	case KindPostgres:
		dsn := spec.DSN
		if dsn == "" {
			dsn = spec.Path
		}
		if dsn == "" {
			return nil, fmt.Errorf("postgres source requires a DSN")
		}
		return &Postgres{DSN: dsn, Table: tableName(spec.Table)}, nil
	case KindGitHub:
		return nil, fmt.Errorf("github source is loaded through the GitHub client")
	}

	path, err := ResolveFile(spec.Path, spec.Sheet)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindCSV:
		return &CSV{Path: path, Comma: ','}, nil
	case KindTSV:
		return &CSV{Path: path, Comma: '\t'}, nil
	case KindJSON:
		return &JSON{Path: path, RowsPath: spec.JSONPath}, nil
	case KindYAML:
		return &YAML{Path: path}, nil
	case KindSQLite:
		return &SQLite{Path: path, Table: tableName(spec.Table)}, nil
	default:
		return nil, fmt.Errorf("unknown source kind: %s", kind)
	}
}

// InferKind は拡張子や DSN から種類を推定する
func InferKind(spec Spec) Kind {
	if spec.DSN != "" || strings.HasPrefix(spec.Path, "postgres://") || strings.HasPrefix(spec.Path, "postgresql://") {
		return KindPostgres
	}
	switch strings.ToLower(filepath.Ext(spec.Path)) {
	case ".csv":
		return KindCSV
	case ".tsv", ".tab":
		return KindTSV
	case ".json":
		return KindJSON
	case ".yaml", ".yml":
		return KindYAML
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	}
	return ""
}

// ResolveFile は glob を展開して読み込むファイルを1つ決める
// sheet が指定された場合は拡張子を除いたファイル名が一致するものを選ぶ
func ResolveFile(pattern, sheet string) (string, error) {
	if pattern == "" {
		return "", fmt.Errorf("no input file specified")
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no file matches %q", pattern)
	}
	sort.Strings(matches)

	if sheet == "" {
		return matches[0], nil
	}
	for _, m := range matches {
		if SheetName(m) == sheet {
			return m, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found among %d file(s) matching %q", sheet, len(matches), pattern)
}

// Sheets は glob に一致するファイルのシート名を返す
func Sheets(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, SheetName(m))
	}
	return names, nil
}

// SheetName はファイル名から拡張子を除いた名前を返す
func SheetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func tableName(name string) string {
	if name == "" {
		return DefaultTable
	}
	return name
}
