package types

// Display headers for the rows of PRAGMA table_info, in position order.
// UI collaborators look cells up by these strings.
const (
	ColumnCID     = "cid"
	ColumnName    = "name"
	ColumnType    = "type"
	ColumnNotNull = "not null"
	ColumnDefault = "default value"
	ColumnPrimary = "primary key"
)

// PrimaryKeyColumnIndex is the position of the pk flag in a table_info row.
const PrimaryKeyColumnIndex = 5

// NameColumnIndex is the position of the column name in a table_info row.
const NameColumnIndex = 1

// tableInfoHeaders lists the display headers indexed by table_info position.
var tableInfoHeaders = []string{
	ColumnCID,
	ColumnName,
	ColumnType,
	ColumnNotNull,
	ColumnDefault,
	ColumnPrimary,
}

// TableInfoHeaders returns a copy of the six table_info display headers.
func TableInfoHeaders() []string {
	out := make([]string, len(tableInfoHeaders))
	copy(out, tableInfoHeaders)
	return out
}
