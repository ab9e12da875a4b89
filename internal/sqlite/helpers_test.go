package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// newTestDB creates a database file in a temp dir and runs stmts against it.
func newTestDB(t *testing.T, stmts ...string) types.DatabaseFile {
	t.Helper()
	return newTestDBNamed(t, "test.db", stmts...)
}

// newTestDBNamed is newTestDB with a caller-chosen file name.
func newTestDBNamed(t *testing.T, name string, stmts ...string) types.DatabaseFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	db, err := sql.Open(driverName, dsn(path, 0))
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return types.DatabaseFile(path)
}

// newTestInspector returns an Inspector logging into a capture hook.
func newTestInspector(t *testing.T) (*Inspector, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewInspector(WithLogger(logrus.NewEntry(logger))), hook
}

// queryRow reads a single row directly, bypassing the inspector.
func queryRow(t *testing.T, file types.DatabaseFile, stmt string, args []any, dest ...any) error {
	t.Helper()
	db, err := sql.Open(driverName, dsn(file.Path(), 0))
	require.NoError(t, err)
	defer db.Close()
	return db.QueryRowContext(context.Background(), stmt, args...).Scan(dest...)
}

// countRows returns the number of rows in table.
func countRows(t *testing.T, file types.DatabaseFile, table string) int {
	t.Helper()
	var n int
	require.NoError(t, queryRow(t, file, "SELECT COUNT(*) FROM "+table, nil, &n))
	return n
}

const schemaT = `CREATE TABLE T (id INTEGER PRIMARY KEY, name TEXT, payload BLOB)`
