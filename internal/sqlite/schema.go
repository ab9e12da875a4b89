package sqlite

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// Introspection statements. The pragma formats take a quoted identifier.
const (
	userVersionQuery = "PRAGMA user_version"
	tableListQuery   = "SELECT name FROM sqlite_master WHERE type='table'"

	pragmaFormatTableInfo   = "PRAGMA table_info(%s)"
	pragmaFormatIndex       = "PRAGMA index_list(%s)"
	pragmaFormatForeignKeys = "PRAGMA foreign_key_list(%s)"

	rowsQueryFormat = "SELECT * FROM %s LIMIT ? OFFSET ?"
)

// quoteIdentifier validates name and returns it as a double-quoted SQLite
// identifier with embedded quotes doubled. Quoted identifiers may hold any
// character except NUL.
func quoteIdentifier(name string) (string, error) {
	if name == "" || strings.ContainsRune(name, 0) || !utf8.ValidString(name) {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidIdentifier, name)
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`, nil
}

// pragma formats a per-table pragma with the quoted table name.
func pragma(format, table string) (string, error) {
	quoted, err := quoteIdentifier(table)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(format, quoted), nil
}
