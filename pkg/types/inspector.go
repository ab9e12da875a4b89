package types

import "context"

// Inspector is the database inspection facade. Every method opens its own
// connection to file and releases it before returning; no state is kept
// between calls.
type Inspector interface {
	// UserVersion returns PRAGMA user_version as a string, or "" when the
	// pragma yields no row.
	UserVersion(ctx context.Context, file DatabaseFile) (string, error)

	// Tables returns the names in sqlite_master with type 'table', in
	// cursor order.
	Tables(ctx context.Context, file DatabaseFile) ([]string, error)

	// AllowedColumns returns the columns of table whose declared type is in
	// allowedTypes.
	AllowedColumns(ctx context.Context, file DatabaseFile, table string, allowedTypes []string) ([]ColumnDescriptor, error)

	// PrimaryKeyName returns the first column flagged as primary key. ok is
	// false when the table has none.
	PrimaryKeyName(ctx context.Context, file DatabaseFile, table string) (name string, ok bool, err error)

	// TableInfo returns every row of PRAGMA table_info.
	TableInfo(ctx context.Context, file DatabaseFile, table string) ([]ColumnInfo, error)

	// Indexes returns every row of PRAGMA index_list.
	Indexes(ctx context.Context, file DatabaseFile, table string) ([]IndexInfo, error)

	// ForeignKeys returns every row of PRAGMA foreign_key_list.
	ForeignKeys(ctx context.Context, file DatabaseFile, table string) ([]ForeignKey, error)

	// Rows reads up to limit rows of table starting at offset.
	Rows(ctx context.Context, file DatabaseFile, table string, limit, offset int) (*Page, error)

	// DeleteRow, UpdateRow and InsertRow report whether a row was affected.
	// Failures are logged and reported as false.
	DeleteRow(ctx context.Context, file DatabaseFile, m RowMutation) bool
	UpdateRow(ctx context.Context, file DatabaseFile, m RowMutation) bool
	InsertRow(ctx context.Context, file DatabaseFile, m RowMutation) bool
}
