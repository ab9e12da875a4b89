package types

// RowMutation identifies a single row by primary-key equality and, for
// insert and update, carries the new values as two parallel sequences
// applied positionally.
type RowMutation struct {
	Table           string   `json:"table" yaml:"table"`
	PrimaryKey      string   `json:"primary_key" yaml:"primary_key"`
	PrimaryKeyValue string   `json:"primary_key_value" yaml:"primary_key_value"`
	Names           []string `json:"names,omitempty" yaml:"names,omitempty"`
	Values          []string `json:"values,omitempty" yaml:"values,omitempty"`
}

// Validate checks the identifiers are present and that Names and Values have
// equal length. Identifier syntax is checked when the statement is built.
func (m RowMutation) Validate() error {
	if m.Table == "" || m.PrimaryKey == "" {
		return ErrInvalidIdentifier
	}
	if len(m.Names) != len(m.Values) {
		return ErrColumnMismatch
	}
	return nil
}

// ContentValues builds the column-name to value map for an update. Every
// name contributes, including those whose value is empty.
func (m RowMutation) ContentValues() map[string]string {
	values := make(map[string]string, len(m.Names))
	for i, name := range m.Names {
		values[name] = m.Values[i]
	}
	return values
}

// InsertValues builds the column-name to value map for an insert. Empty
// values are omitted so column defaults apply.
func (m RowMutation) InsertValues() map[string]string {
	values := make(map[string]string, len(m.Names))
	for i, name := range m.Names {
		if m.Values[i] == "" {
			continue
		}
		values[name] = m.Values[i]
	}
	return values
}
