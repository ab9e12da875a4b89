package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/multierr"

	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// DeleteRow deletes the rows of m.Table whose m.PrimaryKey equals
// m.PrimaryKeyValue. It reports whether any row was affected. The key value
// is bound as a parameter through keyPredicate. Failures are logged and
// reported as false.
func (in *Inspector) DeleteRow(ctx context.Context, file types.DatabaseFile, m types.RowMutation) bool {
	log := in.entry(file, m.Table).WithField("pk", m.PrimaryKey)

	affected, err := in.mutate(ctx, file, m, func(ctx context.Context, conn *connection, table, pk string) (sql.Result, error) {
		return sq.Delete(table).
			Where(keyPredicate(pk, m.PrimaryKeyValue)).
			RunWith(conn.db.DB).
			ExecContext(ctx)
	}, rowsAffected)
	if err != nil {
		log.WithError(err).Error("delete row failed")
		return false
	}
	log.WithField("affected", affected).Debug("delete row")
	return affected != 0
}

// keyPredicate matches pk against value. Text binds only equal numeric keys
// under INTEGER, REAL or NUMERIC affinity, so a value that parses as a number
// is matched both as the text given and as that number. Keys declared BLOB or
// without a type then still find rows stored as integers or reals.
func keyPredicate(pk, value string) sq.Sqlizer {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return sq.Or{sq.Eq{pk: value}, sq.Eq{pk: n}}
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return sq.Or{sq.Eq{pk: value}, sq.Eq{pk: f}}
	}
	return sq.Eq{pk: value}
}

// UpdateRow sets every column named in m to its positional value on the rows
// matching the primary key. Empty values are written as empty strings.
// Failures are logged and reported as false.
func (in *Inspector) UpdateRow(ctx context.Context, file types.DatabaseFile, m types.RowMutation) bool {
	log := in.entry(file, m.Table).WithField("pk", m.PrimaryKey)

	affected, err := in.mutate(ctx, file, m, func(ctx context.Context, conn *connection, table, pk string) (sql.Result, error) {
		values, err := quoteColumns(m.ContentValues())
		if err != nil {
			return nil, err
		}
		return sq.Update(table).
			SetMap(values).
			Where(keyPredicate(pk, m.PrimaryKeyValue)).
			RunWith(conn.db.DB).
			ExecContext(ctx)
	}, rowsAffected)
	if err != nil {
		log.WithError(err).Error("update row failed")
		return false
	}
	log.WithField("affected", affected).Debug("update row")
	return affected != 0
}

// InsertRow inserts one row built from the non-empty values of m, leaving the
// other columns to their defaults. The primary key only takes part when it
// is listed in m.Names. Success is reported when the new row id is non-zero,
// so a row explicitly inserted with rowid 0 reads as false. Failures are
// logged and reported as false.
func (in *Inspector) InsertRow(ctx context.Context, file types.DatabaseFile, m types.RowMutation) bool {
	log := in.entry(file, m.Table).WithField("pk", m.PrimaryKey)

	rowID, err := in.mutate(ctx, file, m, func(ctx context.Context, conn *connection, table, _ string) (sql.Result, error) {
		values, err := quoteColumns(m.InsertValues())
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return conn.db.ExecContext(ctx, "INSERT INTO "+table+" DEFAULT VALUES")
		}
		return sq.Insert(table).
			SetMap(values).
			RunWith(conn.db.DB).
			ExecContext(ctx)
	}, lastInsertID)
	if err != nil {
		log.WithError(err).Error("insert row failed")
		return false
	}
	log.WithField("rowid", rowID).Debug("insert row")
	return rowID != 0
}

// mutateFunc issues one statement against table keyed by pk, both quoted.
type mutateFunc func(ctx context.Context, conn *connection, table, pk string) (sql.Result, error)

// mutate validates and quotes the identifiers of m, opens a connection,
// runs exec, reads the result count, and closes the connection on every
// path.
func (in *Inspector) mutate(ctx context.Context, file types.DatabaseFile, m types.RowMutation, exec mutateFunc, count func(sql.Result) (int64, error)) (n int64, err error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	table, err := quoteIdentifier(m.Table)
	if err != nil {
		return 0, err
	}
	pk, err := quoteIdentifier(m.PrimaryKey)
	if err != nil {
		return 0, err
	}

	conn, err := in.open(ctx, file)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = multierr.Append(err, conn.close())
	}()

	res, err := exec(ctx, conn, table, pk)
	if err != nil {
		return 0, fmt.Errorf("exec %s: %w", m.Table, err)
	}
	return count(res)
}

func rowsAffected(res sql.Result) (int64, error) { return res.RowsAffected() }

func lastInsertID(res sql.Result) (int64, error) { return res.LastInsertId() }

// quoteColumns quotes every column name of values for use as a SetMap key.
func quoteColumns(values map[string]string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(values))
	for name, v := range values {
		quoted, err := quoteIdentifier(name)
		if err != nil {
			return nil, err
		}
		out[quoted] = v
	}
	return out, nil
}
