package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tkc/vibe-schedule/internal/domain"
)

// Config はアプリケーション設定
type Config struct {
	GitHubToken   string         `json:"github_token,omitempty" yaml:"github_token,omitempty" mapstructure:"github_token"`
	ProjectOwner  string         `json:"project_owner,omitempty" yaml:"project_owner,omitempty" mapstructure:"project_owner"`    // org or user
	ProjectNumber int            `json:"project_number,omitempty" yaml:"project_number,omitempty" mapstructure:"project_number"` // project number
	Columns       domain.Columns `json:"columns" yaml:"columns" mapstructure:"columns"`
	Source        Source         `json:"source" yaml:"source" mapstructure:"source"`
	Workers       int            `json:"workers,omitempty" yaml:"workers,omitempty" mapstructure:"workers"`                      // 一括投影の並列数（0 は CPU 数）
}

// Source はデータセットの読み込み元
type Source struct {
	Kind     string `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"` // csv, json, yaml, sqlite, postgres, github
	Path     string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
	Sheet    string `json:"sheet,omitempty" yaml:"sheet,omitempty" mapstructure:"sheet"`
	Table    string `json:"table,omitempty" yaml:"table,omitempty" mapstructure:"table"`
	DSN      string `json:"dsn,omitempty" yaml:"dsn,omitempty" mapstructure:"dsn"`
	JSONPath string `json:"json_path,omitempty" yaml:"json_path,omitempty" mapstructure:"json_path"`
}

// EnvPrefix は環境変数の接頭辞（VSCHED_COLUMNS_ID など）
const EnvPrefix = "VSCHED"

// configFileName は設定ファイル名
const configFileName = "config.yaml"

// configDirName は設定ディレクトリ名
const configDirName = ".vsched"

// Default はデフォルト設定を返す
func Default() *Config {
	return &Config{
		Columns: domain.DefaultColumns(),
	}
}

// Load はユーザー設定ファイルだけを読み込む
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return load([]string{path}, false)
}

// LoadWithPrecedence は設定を優先順位つきで読み込む
// 後のものが前のものを上書きする:
//  1. デフォルト値
//  2. ユーザー設定 (~/.vsched/config.yaml)
//  3. プロジェクト設定 (./.vsched/config.yaml)
//  4. 環境変数 (VSCHED_*)
func LoadWithPrecedence() (*Config, error) {
	var files []string
	if path, err := configPath(); err == nil {
		files = append(files, path)
	}
	files = append(files, filepath.Join(configDirName, configFileName))
	return load(files, true)
}

func load(files []string, withEnv bool) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	for _, path := range files {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// setDefaults は全キーを登録する。AutomaticEnv は既知のキーしか参照しないため
func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("github_token", "")
	v.SetDefault("project_owner", "")
	v.SetDefault("project_number", 0)
	v.SetDefault("workers", 0)
	for _, b := range def.Columns.Bindings() {
		v.SetDefault("columns."+string(b.Role), b.Column)
	}
	for _, key := range []string{"kind", "path", "sheet", "table", "dsn", "json_path"} {
		v.SetDefault("source."+key, "")
	}
}

// Save はユーザー設定ファイルに保存する
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo は指定パスに YAML で保存する
func (c *Config) SaveTo(path string) error {
	// ディレクトリ作成
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate は GitHub Projects を読むための設定を検証する
func (c *Config) Validate() error {
	if c.GitHubToken == "" {
		return fmt.Errorf("github_token is required. Run: vsched auth login")
	}
	if c.ProjectOwner == "" || c.ProjectNumber == 0 {
		return fmt.Errorf("project is not configured. Run: vsched project select")
	}
	return nil
}

// ValidateColumns は6つの役割すべてにカラム名があるか検証する
func (c *Config) ValidateColumns() error {
	for _, b := range c.Columns.Bindings() {
		if strings.TrimSpace(b.Column) == "" {
			return fmt.Errorf("column for %s is not configured. Run: vsched config set-column %s <name>", b.Role, b.Role)
		}
	}
	return nil
}

// IsConfigured は GitHub プロジェクトが設定済みかどうかを返す
func (c *Config) IsConfigured() bool {
	return c.GitHubToken != "" && c.ProjectOwner != "" && c.ProjectNumber > 0
}

// Path はユーザー設定ファイルのパスを返す
func Path() (string, error) {
	return configPath()
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}
