package cli

import (
	"context"
	"fmt"

	"github.com/tkc/vibe-schedule/internal/config"
	"github.com/tkc/vibe-schedule/internal/domain"
	"github.com/tkc/vibe-schedule/internal/schedule"
	"github.com/tkc/vibe-schedule/internal/source"
	"github.com/tkc/vibe-schedule/internal/table"
)

// datasetFlags はデータセット指定のフラグ（設定ファイルより優先）
type datasetFlags struct {
	File     string
	Kind     string
	Sheet    string
	Table    string
	DSN      string
	JSONPath string
	Columns  domain.Columns
}

// spec はフラグで設定を上書きした source.Spec を返す
// --file か --dsn を指定した場合、設定ファイルの読み込み元は使わない
func (f datasetFlags) spec(src config.Source) source.Spec {
	if f.File != "" || f.DSN != "" {
		src = config.Source{}
	}
	spec := source.Spec{
		Kind:     source.Kind(src.Kind),
		Path:     src.Path,
		Sheet:    src.Sheet,
		Table:    src.Table,
		DSN:      src.DSN,
		JSONPath: src.JSONPath,
	}
	override(&spec.Path, f.File)
	override(&spec.Sheet, f.Sheet)
	override(&spec.Table, f.Table)
	override(&spec.DSN, f.DSN)
	override(&spec.JSONPath, f.JSONPath)
	if f.Kind != "" {
		spec.Kind = source.Kind(f.Kind)
	}
	return spec
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// columns は設定のカラム対応をフラグで上書きして返す
func (f datasetFlags) columns(base domain.Columns) domain.Columns {
	return base.Merge(f.Columns)
}

// loadDataset はタスク表を読み込み、表示用の読み込み元名と一緒に返す
func loadDataset(ctx context.Context) (*table.Table, string, error) {
	spec := dataset.spec(cfg.Source)

	useGitHub := spec.Kind == source.KindGitHub ||
		(spec.Kind == "" && spec.Path == "" && spec.DSN == "" && cfg.IsConfigured())
	if useGitHub {
		return loadProject(ctx)
	}

	if spec.Path == "" && spec.DSN == "" {
		return nil, "", fmt.Errorf("no dataset specified. Use --file, --dsn or run: vsched project select")
	}

	tbl, err := source.Open(ctx, spec)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load dataset: %w", err)
	}
	label := spec.Path
	if label == "" {
		label = "postgres:" + tbl.Name
	}
	logger.Debug("dataset loaded", "source", label, "rows", tbl.Len(), "columns", len(tbl.Columns))
	return tbl, label, nil
}

func loadProject(ctx context.Context) (*table.Table, string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	taskSvc, err := projectTaskService(ctx)
	if err != nil {
		return nil, "", err
	}

	tbl, err := taskSvc.Load(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load project items: %w", err)
	}
	label := fmt.Sprintf("github:%s#%d", cfg.ProjectOwner, cfg.ProjectNumber)
	logger.Debug("dataset loaded", "source", label, "rows", tbl.Len())
	return tbl, label, nil
}

// datasetColumns は設定とフラグを合わせたカラム対応を検証して返す
func datasetColumns() (domain.Columns, error) {
	merged := *cfg
	merged.Columns = dataset.columns(cfg.Columns)
	if err := merged.ValidateColumns(); err != nil {
		return domain.Columns{}, err
	}
	return merged.Columns, nil
}

// newEngine はタスク表を読み込んで投影エンジンを作る
func newEngine(ctx context.Context) (*schedule.Engine, string, error) {
	cols, err := datasetColumns()
	if err != nil {
		return nil, "", err
	}
	tbl, label, err := loadDataset(ctx)
	if err != nil {
		return nil, "", err
	}
	engine, err := schedule.NewEngine(tbl, cols, schedule.WithLogger(logger))
	if err != nil {
		return nil, "", err
	}
	return engine, label, nil
}
