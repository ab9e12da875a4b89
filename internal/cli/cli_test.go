package cli

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// run executes the command tree in-process and returns stdout and the error.
func run(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config-dir", configDir}, args...))
	err := root.Execute()
	return stdout.String(), err
}

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return exitUserError
}

// newDB creates a database file in dir with the given statements applied.
func newDB(t *testing.T, dir, name string, stmts ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err, s)
	}
	return path
}

const usersSchema = "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, avatar BLOB)"

func TestAbout(t *testing.T) {
	out, err := run(t, t.TempDir(), "about")
	require.NoError(t, err)
	assert.Contains(t, out, "dbinspector v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestDefaultConfigWritten(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "cfg")
	db := newDB(t, t.TempDir(), "a.db", usersSchema)

	_, err := run(t, configDir, "tables", db)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(configDir, configFileExt))
	require.NoError(t, err)
	var cfg types.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, types.DefaultConfig(), cfg)
}

func TestTables(t *testing.T) {
	db := newDB(t, t.TempDir(), "a.db", usersSchema, "CREATE TABLE posts (id INTEGER PRIMARY KEY)")

	out, err := run(t, t.TempDir(), "tables", db)
	require.NoError(t, err)

	var tables []string
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	assert.Equal(t, []string{"users", "posts"}, tables)
}

func TestUserVersion_YAML(t *testing.T) {
	db := newDB(t, t.TempDir(), "a.db", "PRAGMA user_version = 12")

	out, err := run(t, t.TempDir(), "-o", "yaml", "version", db)
	require.NoError(t, err)

	var got userVersionOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "12", got.UserVersion)
	assert.Equal(t, db, got.Database)
}

func TestColumns(t *testing.T) {
	db := newDB(t, t.TempDir(), "a.db", usersSchema)
	configDir := t.TempDir()

	t.Run("configured types", func(t *testing.T) {
		out, err := run(t, configDir, "columns", db, "users")
		require.NoError(t, err)
		var cols []types.ColumnDescriptor
		require.NoError(t, json.Unmarshal([]byte(out), &cols))
		assert.Equal(t, []types.ColumnDescriptor{
			{Type: "INTEGER", Name: "id"},
			{Type: "TEXT", Name: "name"},
		}, cols)
	})

	t.Run("types flag", func(t *testing.T) {
		out, err := run(t, configDir, "columns", db, "users", "--types", "BLOB")
		require.NoError(t, err)
		var cols []types.ColumnDescriptor
		require.NoError(t, json.Unmarshal([]byte(out), &cols))
		assert.Equal(t, []types.ColumnDescriptor{{Type: "BLOB", Name: "avatar"}}, cols)
	})
}

func TestPrimaryKey(t *testing.T) {
	db := newDB(t, t.TempDir(), "a.db", usersSchema, "CREATE TABLE log (msg TEXT)")
	configDir := t.TempDir()

	out, err := run(t, configDir, "pk", db, "users")
	require.NoError(t, err)
	var got primaryKeyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotNil(t, got.PrimaryKey)
	assert.Equal(t, "id", *got.PrimaryKey)

	out, err = run(t, configDir, "pk", db, "log")
	require.NoError(t, err)
	assert.Contains(t, out, `"primary_key": null`)
}

func TestInfo(t *testing.T) {
	db := newDB(t, t.TempDir(), "a.db",
		usersSchema,
		"CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER REFERENCES users(id), title TEXT NOT NULL DEFAULT 'untitled')",
		"CREATE INDEX idx_posts_user ON posts(user_id)",
	)

	out, err := run(t, t.TempDir(), "info", db, "posts")
	require.NoError(t, err)

	var report tableReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, types.TableInfoHeaders(), report.Headers)
	require.Len(t, report.Columns, 3)
	assert.True(t, report.Columns[2].NotNull)
	require.NotNil(t, report.Columns[2].Default)
	assert.Equal(t, "'untitled'", *report.Columns[2].Default)
	require.Len(t, report.Indexes, 1)
	assert.Equal(t, "idx_posts_user", report.Indexes[0].Name)
	require.Len(t, report.ForeignKeys, 1)
	assert.Equal(t, "users", report.ForeignKeys[0].Table)
}

func TestRows(t *testing.T) {
	db := newDB(t, t.TempDir(), "a.db", usersSchema,
		"INSERT INTO users (id, name) VALUES (1, 'ada'), (2, 'bob'), (3, 'cy')")
	configDir := t.TempDir()

	out, err := run(t, configDir, "rows", db, "users", "--limit", "2", "--offset", "1")
	require.NoError(t, err)
	var page types.Page
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, []string{"id", "name", "avatar"}, page.Columns)
	require.Len(t, page.Rows, 2)
	assert.Equal(t, types.StorageInteger, page.Rows[0][0].Class)
	assert.Equal(t, "bob", page.Rows[0][1].Value)
	assert.Equal(t, types.StorageNull, page.Rows[0][2].Class)

	_, err = run(t, configDir, "rows", db, "users", "--limit", "0")
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestMutations(t *testing.T) {
	db := newDB(t, t.TempDir(), "a.db", usersSchema, "INSERT INTO users (id, name) VALUES (1, 'ada')")
	configDir := t.TempDir()

	out, err := run(t, configDir, "update", db, "users", "id", "1", "name=grace")
	require.NoError(t, err)
	assert.Contains(t, out, `"changed": true`)

	out, err = run(t, configDir, "insert", db, "users", "id", "2", "id=2", "name=bob", "avatar=")
	require.NoError(t, err)
	assert.Contains(t, out, `"changed": true`)

	out, err = run(t, configDir, "rows", db, "users")
	require.NoError(t, err)
	var page types.Page
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Rows, 2)
	assert.Equal(t, "grace", page.Rows[0][1].Value)
	assert.Equal(t, types.StorageNull, page.Rows[1][2].Class)

	_, err = run(t, configDir, "delete", db, "users", "id", "2")
	require.NoError(t, err)

	out, err = run(t, configDir, "delete", db, "users", "id", "2")
	assert.Equal(t, exitUserError, exitCode(err))
	assert.Contains(t, out, `"changed": false`)
}

func TestMutations_BadArguments(t *testing.T) {
	db := newDB(t, t.TempDir(), "a.db", usersSchema)
	configDir := t.TempDir()

	_, err := run(t, configDir, "update", db, "users", "id", "1", "name")
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = run(t, configDir, "update", db, "users", "id", "1", "=x")
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = run(t, configDir, "delete", db, "users", "id")
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestMissingDatabase(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope.db")

	_, err := run(t, t.TempDir(), "tables", missing)
	assert.Equal(t, exitUserError, exitCode(err))
	assert.NoFileExists(t, missing)
}

func TestInvalidIdentifier(t *testing.T) {
	db := newDB(t, t.TempDir(), "a.db", usersSchema)

	_, err := run(t, t.TempDir(), "info", db, "")
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestInvalidConfiguration(t *testing.T) {
	db := newDB(t, t.TempDir(), "a.db", usersSchema)

	_, err := run(t, t.TempDir(), "--output", "xml", "tables", db)
	assert.Equal(t, exitUserError, exitCode(err))
	assert.ErrorIs(t, err, types.ErrOutputUnknown)

	_, err = run(t, t.TempDir(), "--log-level", "loud", "tables", db)
	assert.Equal(t, exitUserError, exitCode(err))

	configDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, configFileExt), []byte("max_depth: 0\n"), 0o644))
	_, err = run(t, configDir, "tables", db)
	assert.ErrorIs(t, err, types.ErrMaxDepthInvalid)
}

func TestDatabasesDirResolution(t *testing.T) {
	dbDir := t.TempDir()
	newDB(t, dbDir, "main.db", usersSchema)
	configDir := t.TempDir()
	cfg := "databases_dir: " + dbDir + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, configFileExt), []byte(cfg), 0o644))

	out, err := run(t, configDir, "tables", "main.db")
	require.NoError(t, err)
	assert.Contains(t, out, "users")
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	dbDir := filepath.Join(root, "databases")
	filesDir := filepath.Join(root, "files")
	require.NoError(t, os.MkdirAll(filepath.Join(filesDir, "notes.cblite2"), 0o755))
	require.NoError(t, os.MkdirAll(dbDir, 0o755))
	for _, f := range []string{
		filepath.Join(dbDir, "main.db"),
		filepath.Join(dbDir, "main.db-journal"),
		filepath.Join(filesDir, "app.db"),
		filepath.Join(filesDir, "cache.txt"),
		filepath.Join(filesDir, "notes.cblite2", "db.sqlite3"),
	} {
		require.NoError(t, os.WriteFile(f, nil, 0o644))
	}
	configDir := t.TempDir()
	cfg := "databases_dir: " + dbDir + "\noutput: yaml\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, configFileExt), []byte(cfg), 0o644))

	out, err := run(t, configDir, "discover", "--files-dir", filesDir)
	require.NoError(t, err)

	var found []string
	require.NoError(t, yaml.Unmarshal([]byte(out), &found))
	require.Len(t, found, 3)
	joined := strings.Join(found, "\n")
	assert.Contains(t, joined, "main.db")
	assert.NotContains(t, joined, "journal")
	assert.Contains(t, joined, "app.db")
	assert.Contains(t, joined, "db.sqlite3")
}

func TestParseAssignments(t *testing.T) {
	names, values, err := parseAssignments([]string{"a=1", "b=", "c=x=y"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Equal(t, []string{"1", "", "x=y"}, values)
}
