package types

import "errors"

// DatabaseFile is a path to a SQLite file on local storage. Identity is the
// absolute path; the inspector never owns or deletes the file.
type DatabaseFile string

// Path returns the file path as a string.
func (f DatabaseFile) Path() string { return string(f) }

// ColumnDescriptor is a column the row editor may surface: its declared type
// as written in the schema and its name.
type ColumnDescriptor struct {
	Type string `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
}

// ColumnInfo is one row of PRAGMA table_info. Columns are matched by name,
// so rows carrying extra columns still scan.
type ColumnInfo struct {
	CID        int     `db:"cid" json:"cid" yaml:"cid"`
	Name       string  `db:"name" json:"name" yaml:"name"`
	Type       string  `db:"type" json:"type" yaml:"type"`
	NotNull    bool    `db:"notnull" json:"not_null" yaml:"not_null"`
	Default    *string `db:"dflt_value" json:"default,omitempty" yaml:"default,omitempty"`
	PrimaryKey int     `db:"pk" json:"primary_key" yaml:"primary_key"` // 0 = not part of the key, 1+ = key position
}

// IndexInfo is one row of PRAGMA index_list. Origin and Partial are absent on
// SQLite builds older than 3.8.9 and stay zero there.
type IndexInfo struct {
	Seq     int    `db:"seq" json:"seq" yaml:"seq"`
	Name    string `db:"name" json:"name" yaml:"name"`
	Unique  bool   `db:"unique" json:"unique" yaml:"unique"`
	Origin  string `db:"origin" json:"origin,omitempty" yaml:"origin,omitempty"`
	Partial bool   `db:"partial" json:"partial" yaml:"partial"`
}

// ForeignKey is one row of PRAGMA foreign_key_list.
type ForeignKey struct {
	ID       int     `db:"id" json:"id" yaml:"id"`
	Seq      int     `db:"seq" json:"seq" yaml:"seq"`
	Table    string  `db:"table" json:"table" yaml:"table"`
	From     string  `db:"from" json:"from" yaml:"from"`
	To       *string `db:"to" json:"to,omitempty" yaml:"to,omitempty"`
	OnUpdate string  `db:"on_update" json:"on_update" yaml:"on_update"`
	OnDelete string  `db:"on_delete" json:"on_delete" yaml:"on_delete"`
	Match    string  `db:"match" json:"match" yaml:"match"`
}

// Cell is a single value read from a table together with its storage class.
type Cell struct {
	Class StorageClass `json:"class" yaml:"class"`
	Value any          `json:"value" yaml:"value"`
}

// Page is a window of rows read from one table.
type Page struct {
	Table   string   `json:"table" yaml:"table"`
	Columns []string `json:"columns" yaml:"columns"`
	Rows    [][]Cell `json:"rows" yaml:"rows"`
	Offset  int      `json:"offset" yaml:"offset"`
	Limit   int      `json:"limit" yaml:"limit"`
}

// IsAllowedDataType reports whether target appears in dataTypes. Matching is
// exact and case-sensitive.
func IsAllowedDataType(dataTypes []string, target string) bool {
	for _, t := range dataTypes {
		if t == target {
			return true
		}
	}
	return false
}

// Inspection errors.
var (
	ErrOpenFailed        = errors.New("open database failed")
	ErrInvalidIdentifier = errors.New("invalid SQLite identifier")
	ErrColumnMismatch    = errors.New("column names and values differ in length")
	ErrTableNotFound     = errors.New("table not found")
	ErrInvalidPage       = errors.New("limit must be positive and offset non-negative")
)
