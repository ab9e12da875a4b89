package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// UserVersion runs PRAGMA user_version and returns the first column of the
// first row, or "" when there is no row.
func (in *Inspector) UserVersion(ctx context.Context, file types.DatabaseFile) (string, error) {
	return execute(ctx, in, file, cursorOperation[string]{
		provideCursor: query(userVersionQuery),
		provideResult: func(_ context.Context, _ *connection, rows *sqlx.Rows) (string, error) {
			if !rows.Next() {
				return "", nil
			}
			var version sql.NullString
			if err := rows.Scan(&version); err != nil {
				return "", fmt.Errorf("scanning user_version: %w", err)
			}
			return version.String, nil
		},
	})
}

// tableName receives the name column of sqlite_master.
type tableName struct {
	Name sql.NullString `db:"name"`
}

// Tables returns the names of every sqlite_master entry of type 'table' in
// cursor order. Internal tables such as sqlite_sequence are included.
func (in *Inspector) Tables(ctx context.Context, file types.DatabaseFile) ([]string, error) {
	return execute(ctx, in, file, cursorOperation[[]string]{
		provideCursor: query(tableListQuery),
		provideResult: func(_ context.Context, _ *connection, rows *sqlx.Rows) ([]string, error) {
			tables := []string{}
			for rows.Next() {
				var t tableName
				if err := rows.StructScan(&t); err != nil {
					return nil, fmt.Errorf("scanning table name: %w", err)
				}
				if t.Name.Valid {
					tables = append(tables, t.Name.String)
				}
			}
			return tables, nil
		},
	})
}

// TableInfo returns every row of PRAGMA table_info for table. A table that
// does not exist yields an empty slice.
func (in *Inspector) TableInfo(ctx context.Context, file types.DatabaseFile, table string) ([]types.ColumnInfo, error) {
	stmt, err := pragma(pragmaFormatTableInfo, table)
	if err != nil {
		return nil, err
	}
	return execute(ctx, in, file, cursorOperation[[]types.ColumnInfo]{
		provideCursor: query(stmt),
		provideResult: func(_ context.Context, _ *connection, rows *sqlx.Rows) ([]types.ColumnInfo, error) {
			return scanTableInfo(rows)
		},
	})
}

func scanTableInfo(rows *sqlx.Rows) ([]types.ColumnInfo, error) {
	columns := []types.ColumnInfo{}
	for rows.Next() {
		var c types.ColumnInfo
		if err := rows.StructScan(&c); err != nil {
			return nil, fmt.Errorf("scanning table_info: %w", err)
		}
		columns = append(columns, c)
	}
	return columns, nil
}

// AllowedColumns returns the columns of table whose declared type appears in
// allowedTypes, in schema order.
func (in *Inspector) AllowedColumns(ctx context.Context, file types.DatabaseFile, table string, allowedTypes []string) ([]types.ColumnDescriptor, error) {
	stmt, err := pragma(pragmaFormatTableInfo, table)
	if err != nil {
		return nil, err
	}
	return execute(ctx, in, file, cursorOperation[[]types.ColumnDescriptor]{
		provideCursor: query(stmt),
		provideResult: func(_ context.Context, _ *connection, rows *sqlx.Rows) ([]types.ColumnDescriptor, error) {
			columns, err := scanTableInfo(rows)
			if err != nil {
				return nil, err
			}
			allowed := []types.ColumnDescriptor{}
			for _, c := range columns {
				if types.IsAllowedDataType(allowedTypes, c.Type) {
					allowed = append(allowed, types.ColumnDescriptor{Type: c.Type, Name: c.Name})
				}
			}
			return allowed, nil
		},
	})
}

// primaryKey is the result of a primary key lookup.
type primaryKey struct {
	name string
	ok   bool
}

// PrimaryKeyName returns the name of the first table_info row whose pk flag
// reads "1". For a composite key that is the first declared key column.
func (in *Inspector) PrimaryKeyName(ctx context.Context, file types.DatabaseFile, table string) (string, bool, error) {
	stmt, err := pragma(pragmaFormatTableInfo, table)
	if err != nil {
		return "", false, err
	}
	pk, err := execute(ctx, in, file, cursorOperation[primaryKey]{
		provideCursor: query(stmt),
		provideResult: func(_ context.Context, _ *connection, rows *sqlx.Rows) (primaryKey, error) {
			for rows.Next() {
				vals, err := rows.SliceScan()
				if err != nil {
					return primaryKey{}, fmt.Errorf("scanning table_info: %w", err)
				}
				if len(vals) <= types.PrimaryKeyColumnIndex {
					return primaryKey{}, fmt.Errorf("%w: table_info returned %d columns", types.ErrColumnMismatch, len(vals))
				}
				if asString(vals[types.PrimaryKeyColumnIndex]) == "1" {
					return primaryKey{name: asString(vals[types.NameColumnIndex]), ok: true}, nil
				}
			}
			return primaryKey{}, nil
		},
	})
	if err != nil {
		return "", false, err
	}
	return pk.name, pk.ok, nil
}

// Indexes returns every row of PRAGMA index_list for table.
func (in *Inspector) Indexes(ctx context.Context, file types.DatabaseFile, table string) ([]types.IndexInfo, error) {
	stmt, err := pragma(pragmaFormatIndex, table)
	if err != nil {
		return nil, err
	}
	return execute(ctx, in, file, cursorOperation[[]types.IndexInfo]{
		provideCursor: query(stmt),
		provideResult: func(_ context.Context, _ *connection, rows *sqlx.Rows) ([]types.IndexInfo, error) {
			indexes := []types.IndexInfo{}
			for rows.Next() {
				var idx types.IndexInfo
				if err := rows.StructScan(&idx); err != nil {
					return nil, fmt.Errorf("scanning index_list: %w", err)
				}
				indexes = append(indexes, idx)
			}
			return indexes, nil
		},
	})
}

// ForeignKeys returns every row of PRAGMA foreign_key_list for table.
func (in *Inspector) ForeignKeys(ctx context.Context, file types.DatabaseFile, table string) ([]types.ForeignKey, error) {
	stmt, err := pragma(pragmaFormatForeignKeys, table)
	if err != nil {
		return nil, err
	}
	return execute(ctx, in, file, cursorOperation[[]types.ForeignKey]{
		provideCursor: query(stmt),
		provideResult: func(_ context.Context, _ *connection, rows *sqlx.Rows) ([]types.ForeignKey, error) {
			keys := []types.ForeignKey{}
			for rows.Next() {
				var fk types.ForeignKey
				if err := rows.StructScan(&fk); err != nil {
					return nil, fmt.Errorf("scanning foreign_key_list: %w", err)
				}
				keys = append(keys, fk)
			}
			return keys, nil
		},
	})
}

// Rows reads up to limit rows of table starting at offset. Each cell carries
// the storage class reported for it by ColumnType.
func (in *Inspector) Rows(ctx context.Context, file types.DatabaseFile, table string, limit, offset int) (*types.Page, error) {
	if limit <= 0 || offset < 0 {
		return nil, types.ErrInvalidPage
	}
	quoted, err := quoteIdentifier(table)
	if err != nil {
		return nil, err
	}
	return execute(ctx, in, file, cursorOperation[*types.Page]{
		provideCursor: query(fmt.Sprintf(rowsQueryFormat, quoted), limit, offset),
		provideResult: func(_ context.Context, _ *connection, rows *sqlx.Rows) (*types.Page, error) {
			columns, err := rows.Columns()
			if err != nil {
				return nil, fmt.Errorf("reading columns: %w", err)
			}
			page := &types.Page{
				Table:   table,
				Columns: columns,
				Rows:    [][]types.Cell{},
				Offset:  offset,
				Limit:   limit,
			}
			cur := newRowCursor(rows)
			for {
				ok, err := cur.next()
				if err != nil {
					return nil, err
				}
				if !ok {
					break
				}
				cells := make([]types.Cell, len(columns))
				for i := range columns {
					cells[i] = types.Cell{Class: ColumnType(cur, i), Value: cur.value(i)}
				}
				page.Rows = append(page.Rows, cells)
			}
			return page, nil
		},
	})
}

// asString renders a scanned value the way a text cursor would.
func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
