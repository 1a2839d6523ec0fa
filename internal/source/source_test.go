package source

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkc/vibe-schedule/internal/domain"
	"github.com/tkc/vibe-schedule/internal/schedule"
)

const planCSV = "\ufeffUnique ID,Name,Status Date,Start,% Complete,Remaining Duration,Predecessors\n" +
	"1,Design,2024-03-04,2024-03-04,0.5,3,\n" +
	"2,Build,2024-03-04,2024-03-04,0.2,7,\n" +
	"4,Integrate,2024-03-04,2024-03-06,0,10,\"1FS, 2SS+2\"\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		spec Spec
		want Kind
	}{
		{Spec{Path: "plan.csv"}, KindCSV},
		{Spec{Path: "plan.TSV"}, KindTSV},
		{Spec{Path: "plan.json"}, KindJSON},
		{Spec{Path: "plan.yml"}, KindYAML},
		{Spec{Path: "plan.sqlite3"}, KindSQLite},
		{Spec{Path: "postgres://localhost/plan"}, KindPostgres},
		{Spec{DSN: "host=localhost"}, KindPostgres},
		{Spec{Path: "plan.xlsx"}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InferKind(tt.spec), "spec %+v", tt.spec)
	}
}

func TestNewLoader_Errors(t *testing.T) {
	_, err := NewLoader(Spec{Path: "plan.xlsx"})
	assert.ErrorContains(t, err, "cannot determine source kind")

	_, err = NewLoader(Spec{Kind: KindPostgres})
	assert.ErrorContains(t, err, "DSN")

	_, err = NewLoader(Spec{Kind: KindGitHub})
	assert.Error(t, err)
}

func TestResolveFile_Sheets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plan/baseline.csv", planCSV)
	writeFile(t, dir, "plan/current.csv", planCSV)

	pattern := filepath.Join(dir, "plan", "*.csv")

	first, err := ResolveFile(pattern, "")
	require.NoError(t, err)
	assert.Equal(t, "baseline", SheetName(first))

	chosen, err := ResolveFile(pattern, "current")
	require.NoError(t, err)
	assert.Equal(t, "current", SheetName(chosen))

	_, err = ResolveFile(pattern, "missing")
	assert.ErrorContains(t, err, `sheet "missing" not found`)

	_, err = ResolveFile(filepath.Join(dir, "nothing", "*.csv"), "")
	assert.ErrorContains(t, err, "no file matches")

	names, err := Sheets(pattern)
	require.NoError(t, err)
	assert.Equal(t, []string{"baseline", "current"}, names)
}

func TestCSV_LoadAndProject(t *testing.T) {
	path := writeFile(t, t.TempDir(), "plan.csv", planCSV)

	tbl, err := Open(context.Background(), Spec{Path: path})
	require.NoError(t, err)

	assert.Equal(t, "plan", tbl.Name)
	assert.Equal(t, domain.DefaultIDColumn, tbl.Columns[0], "BOM stripped from first header")
	require.Equal(t, 3, tbl.Len())

	p, err := schedule.Project(tbl, 4, domain.DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-13", p.ProjectedStart.Format(domain.DateLayout))
	assert.Len(t, p.Predecessors, 2)
}

func TestReadCSV_TabSeparated(t *testing.T) {
	tbl, err := ReadCSV(context.Background(), strings.NewReader("a\tb\n1\t2\n3\n"), '\t')
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns)
	assert.Equal(t, []any{"3", nil}, tbl.Rows[1])
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader(""), ',')
	assert.ErrorContains(t, err, "no header")
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{"project": {"tasks": [
		{"Unique ID": 1, "Status Date": "2024-03-04", "Start": "2024-03-04", "% Complete": 0.5, "Remaining Duration": 3, "Predecessors": null},
		{"Unique ID": 4, "Status Date": "2024-03-04", "Start": "2024-03-06", "% Complete": 0, "Remaining Duration": 10, "Predecessors": "1", "Tags": ["x"]}
	]}}`)

	tbl, err := ParseJSON(context.Background(), data, "project.tasks")
	require.NoError(t, err)
	assert.Equal(t, []string{"Unique ID", "Status Date", "Start", "% Complete", "Remaining Duration", "Predecessors", "Tags"}, tbl.Columns)
	assert.Equal(t, 1.0, tbl.Value(0, 0))
	assert.Nil(t, tbl.Value(0, 5))
	assert.Nil(t, tbl.Value(0, 6))
	assert.Equal(t, `["x"]`, tbl.Value(1, 6))

	p, err := schedule.Project(tbl, 4, domain.DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-07", p.ProjectedStart.Format(domain.DateLayout))
}

func TestParseJSON_Errors(t *testing.T) {
	_, err := ParseJSON(context.Background(), []byte(`{`), "")
	assert.ErrorContains(t, err, "invalid JSON")

	_, err = ParseJSON(context.Background(), []byte(`{"a": 1}`), "")
	assert.ErrorContains(t, err, "expected an array")

	_, err = ParseJSON(context.Background(), []byte(`[1, 2]`), "")
	assert.ErrorContains(t, err, "row 1 is not an object")
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
tasks:
  - Unique ID: 1
    Status Date: 2024-03-04
    Start: 2024-03-04
    "% Complete": 0.5
    Remaining Duration: 3
    Predecessors:
  - Unique ID: 4
    Status Date: 2024-03-04
    Start: 2024-03-06
    "% Complete": 0
    Remaining Duration: 10
    Predecessors: 1FS
`)
	tbl, err := ParseYAML(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Unique ID", "Status Date", "Start", "% Complete", "Remaining Duration", "Predecessors"}, tbl.Columns)

	p, err := schedule.Project(tbl, 4, domain.DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-07", p.ProjectedStart.Format(domain.DateLayout))
	assert.Equal(t, 1, p.DeltaDays)
}

func TestParseYAML_Errors(t *testing.T) {
	_, err := ParseYAML(context.Background(), []byte(""))
	assert.Error(t, err)

	_, err = ParseYAML(context.Background(), []byte("other: []"))
	assert.ErrorContains(t, err, `no "tasks" key`)

	_, err = ParseYAML(context.Background(), []byte("- 1\n- 2\n"))
	assert.ErrorContains(t, err, "not a mapping")
}

func TestSQLite_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE "schedule tasks" (
			"Unique ID" INTEGER,
			"Status Date" TEXT,
			"Start" TEXT,
			"% Complete" REAL,
			"Remaining Duration" REAL,
			"Predecessors" TEXT
		);
		INSERT INTO "schedule tasks" VALUES
			(1, '2024-03-04', '2024-03-04', 0.5, 3, NULL),
			(2, '2024-03-04', '2024-03-04', 1.0, 9, NULL),
			(4, '2024-03-04', '2024-03-06', 0, 10, '1, 2');
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	src := &SQLite{Path: path, Table: "schedule tasks"}
	tbl, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, "schedule tasks", tbl.Name)

	p, err := schedule.Project(tbl, 4, domain.DefaultColumns())
	require.NoError(t, err)
	require.Len(t, p.Predecessors, 1)
	assert.Equal(t, "2024-03-07", p.ProjectedStart.Format(domain.DateLayout))

	names, err := src.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"schedule tasks"}, names)
}

func TestSQLite_MissingFile(t *testing.T) {
	src := &SQLite{Path: filepath.Join(t.TempDir(), "missing.db"), Table: DefaultTable}
	_, err := src.Load(context.Background())
	assert.ErrorContains(t, err, "open sqlite")
}

func TestPgValue(t *testing.T) {
	var n pgtype.Numeric
	require.NoError(t, n.Scan("2.5"))
	assert.Equal(t, 2.5, pgValue(n))
	assert.Nil(t, pgValue(pgtype.Numeric{}))
	assert.Nil(t, pgValue(pgtype.Date{}))
	assert.Equal(t, "x", pgValue("x"))
}

func TestPostgres_Load(t *testing.T) {
	dsn := os.Getenv("VSCHED_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("VSCHED_TEST_POSTGRES_DSN not set")
	}
	src := &Postgres{DSN: dsn, Table: os.Getenv("VSCHED_TEST_POSTGRES_TABLE")}
	if src.Table == "" {
		src.Table = DefaultTable
	}
	tbl, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, tbl.Columns)
}
