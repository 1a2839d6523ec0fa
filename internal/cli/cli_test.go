package cli

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkc/vibe-schedule/internal/config"
	"github.com/tkc/vibe-schedule/internal/domain"
	"github.com/tkc/vibe-schedule/internal/source"
)

const planCSV = `Unique ID,Name,Status Date,Start,% Complete,Remaining Duration,Predecessors
1,design,2024-03-04,2024-03-04,0.5,3,
2,build,2024-03-04,2024-03-04,0.2,7,
4,integrate,2024-03-04,2024-03-06,0,10,"1FS, 2SS+2"
`

// setupWorkspace は HOME とカレントディレクトリを一時ディレクトリにする
func setupWorkspace(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plan.csv"), []byte(planCSV), 0644))
	return dir
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dataset = datasetFlags{}
	jsonOut = false
	verbose = false
	forecastAll = false
	forecastNotify = false
	forecastWorkers = 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestIDsCommand(t *testing.T) {
	setupWorkspace(t)

	out, err := executeCommand(t, "ids", "101FS, 102SS+2, bad, 205+3d")
	require.NoError(t, err)
	assert.Equal(t, "101, 102, 205\n", out)

	out, err = executeCommand(t, "ids", "--json", "n/a")
	require.NoError(t, err)
	var ids []int
	require.NoError(t, json.Unmarshal([]byte(out), &ids))
	assert.Empty(t, ids)
}

func TestForecastCommand_JSON(t *testing.T) {
	setupWorkspace(t)

	out, err := executeCommand(t, "forecast", "4", "-f", "plan.csv", "--json")
	require.NoError(t, err)

	var doc struct {
		ProjectedStart string `json:"projected_start"`
		DeltaDays      int    `json:"delta_days"`
		Governing      []int  `json:"governing"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "2024-03-13", doc.ProjectedStart)
	assert.Equal(t, 7, doc.DeltaDays)
	assert.Equal(t, []int{2}, doc.Governing)
}

func TestForecastCommand_Text(t *testing.T) {
	setupWorkspace(t)

	out, err := executeCommand(t, "forecast", "4", "-f", "plan.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Task 4")
	assert.Contains(t, out, "2024-03-13")
	assert.Contains(t, out, "Predecessors")
}

func TestForecastCommand_All(t *testing.T) {
	setupWorkspace(t)

	out, err := executeCommand(t, "forecast", "--all", "-f", "*.csv", "--sheet", "plan", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 3 tasks, 1 late (worst +7 days)")
}

func TestForecastCommand_Errors(t *testing.T) {
	setupWorkspace(t)

	_, err := executeCommand(t, "forecast", "42", "-f", "plan.csv")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = executeCommand(t, "forecast", "abc", "-f", "plan.csv")
	assert.ErrorContains(t, err, "invalid task id")

	_, err = executeCommand(t, "forecast", "4", "-f", "plan.csv", "--id-column", "Task")
	assert.ErrorIs(t, err, domain.ErrSchema)

	_, err = executeCommand(t, "forecast", "4")
	assert.ErrorContains(t, err, "no dataset specified")
}

func TestColumnsCommand(t *testing.T) {
	setupWorkspace(t)

	out, err := executeCommand(t, "columns", "-f", "plan.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ percent_complete")

	out, err = executeCommand(t, "columns", "-f", "plan.csv", "--percent-column", "Work %")
	assert.ErrorContains(t, err, "1 role(s)")
	assert.Contains(t, out, "✗ percent_complete")
}

func TestForecastCommand_LogsEachWarningOnce(t *testing.T) {
	dir := setupWorkspace(t)
	plan := planCSV + "5,report,2024-03-04,2024-03-06,0,2,\"1, 99\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plan.csv"), []byte(plan), 0644))

	dataset = datasetFlags{}
	jsonOut, verbose, forecastAll = false, false, false
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"forecast", "5", "-f", "plan.csv"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "predecessor with ID 99 not found")
	assert.Equal(t, 1, strings.Count(errOut.String(), "level=WARN"))
	assert.Contains(t, errOut.String(), "predecessor_id=99")
}

func TestColumnsCommand_SQLiteTables(t *testing.T) {
	dir := setupWorkspace(t)

	db, err := sql.Open("sqlite", filepath.Join(dir, "plan.db"))
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE tasks ("Unique ID" INTEGER, "Status Date" TEXT, "Start" TEXT,
			"% Complete" REAL, "Remaining Duration" REAL, "Predecessors" TEXT);
		CREATE TABLE archive ("Unique ID" INTEGER);
		INSERT INTO tasks VALUES (1, '2024-03-04', '2024-03-04', 0.5, 3, NULL);
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := executeCommand(t, "columns", "-f", "plan.db")
	require.NoError(t, err)
	assert.Contains(t, out, "Sheets (--table): archive, tasks")

	out, err = executeCommand(t, "columns", "-f", "plan.db", "--json")
	require.NoError(t, err)
	var doc struct {
		Sheets []string `json:"sheets"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, []string{"archive", "tasks"}, doc.Sheets)
}

func TestForecastCommand_EmptyColumnHint(t *testing.T) {
	setupWorkspace(t)
	home := os.Getenv("HOME")
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".vsched"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".vsched", "config.yaml"), []byte("columns:\n  remaining_duration: \"\"\n"), 0o600))

	_, err := executeCommand(t, "forecast", "4", "-f", "plan.csv")
	assert.ErrorContains(t, err, "vsched config set-column remaining_duration")

	_, err = executeCommand(t, "forecast", "4", "-f", "plan.csv", "--remaining-column", "Remaining Duration")
	assert.NoError(t, err)
}

func TestConfigShowCommand_JSON(t *testing.T) {
	setupWorkspace(t)
	t.Setenv("VSCHED_GITHUB_TOKEN", "ghp_ABCD5678")
	t.Setenv("VSCHED_PROJECT_OWNER", "tkc")

	out, err := executeCommand(t, "config", "show", "--json")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "ghp_****5678", doc["github_token"])
	assert.Equal(t, "tkc", doc["project_owner"])
	assert.NotContains(t, doc, "GitHubToken")
	assert.Contains(t, doc, "columns")
	assert.Contains(t, doc, "source")
}

func TestConfigSetColumnCommand(t *testing.T) {
	setupWorkspace(t)

	out, err := executeCommand(t, "config", "set-column", "percent_complete", "Work %")
	require.NoError(t, err)
	assert.Contains(t, out, "percent_complete → Work %")

	saved, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "Work %", saved.Columns.PercentComplete)
	assert.Equal(t, domain.DefaultIDColumn, saved.Columns.ID)

	out, err = executeCommand(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "percent_complete: Work %")

	_, err = executeCommand(t, "config", "set-column", "owner", "Owner")
	assert.ErrorContains(t, err, "unknown role")
}

func TestDatasetFlags_Spec(t *testing.T) {
	saved := config.Source{Kind: "sqlite", Path: "plan.db", Table: "schedule"}

	t.Run("config only", func(t *testing.T) {
		spec := datasetFlags{}.spec(saved)
		assert.Equal(t, source.Spec{Kind: source.KindSQLite, Path: "plan.db", Table: "schedule"}, spec)
	})

	t.Run("file flag replaces the configured source", func(t *testing.T) {
		spec := datasetFlags{File: "plan.csv"}.spec(saved)
		assert.Equal(t, source.Spec{Path: "plan.csv"}, spec)
	})

	t.Run("table and kind flags override", func(t *testing.T) {
		spec := datasetFlags{Table: "tasks_v2", Kind: "sqlite"}.spec(config.Source{Path: "plan.data"})
		assert.Equal(t, source.Spec{Kind: source.KindSQLite, Path: "plan.data", Table: "tasks_v2"}, spec)
	})
}

func TestDatasetFlags_Columns(t *testing.T) {
	base := domain.DefaultColumns()
	f := datasetFlags{Columns: domain.Columns{PlannedStart: "Baseline Start"}}

	cols := f.columns(base)
	assert.Equal(t, "Baseline Start", cols.PlannedStart)
	assert.Equal(t, base.ID, cols.ID)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "ghp_****5678", maskToken("ghp_ABCD5678"))
	assert.Equal(t, "*****", maskToken("short"))
}
