package sqlite

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// Cursor is a position over a row stream.
type Cursor interface {
	// Position is the zero-based index of the current row, -1 before the
	// first row.
	Position() int
}

// TypedCursor reports the storage class of a cell directly.
type TypedCursor interface {
	Cursor
	ColumnType(col int) types.StorageClass
}

// WindowCursor exposes the buffered rows it reads from. Hosts that cannot
// report storage classes directly provide this instead of TypedCursor.
type WindowCursor interface {
	Cursor
	Window() *Window
}

// ColumnType returns the storage class of column col at the cursor's current
// row. Cursors with native typing are delegated to; otherwise the window is
// probed as NULL, INTEGER, FLOAT, STRING, BLOB in that order and the first
// match wins. StorageUnknown is returned when nothing matches.
func ColumnType(c Cursor, col int) types.StorageClass {
	switch cur := c.(type) {
	case TypedCursor:
		return cur.ColumnType(col)
	case WindowCursor:
		return probeWindow(cur.Window(), cur.Position(), col)
	default:
		return types.StorageUnknown
	}
}

func probeWindow(w *Window, row, col int) types.StorageClass {
	if w == nil {
		return types.StorageUnknown
	}
	switch {
	case w.IsNull(row, col):
		return types.StorageNull
	case w.IsLong(row, col):
		return types.StorageInteger
	case w.IsFloat(row, col):
		return types.StorageFloat
	case w.IsString(row, col):
		return types.StorageString
	case w.IsBlob(row, col):
		return types.StorageBlob
	default:
		return types.StorageUnknown
	}
}

// Window is a buffered block of rows, each cell holding one of nil, int64,
// float64, string or []byte.
type Window struct {
	columns []string
	rows    [][]any
}

// NewWindow buffers rows under the given column names. Cell values are
// normalized to the five SQLite storage representations.
func NewWindow(columns []string, rows [][]any) *Window {
	w := &Window{columns: columns, rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		w.append(r)
	}
	return w
}

func (w *Window) append(row []any) {
	cells := make([]any, len(row))
	for i, v := range row {
		cells[i] = normalizeValue(v)
	}
	w.rows = append(w.rows, cells)
}

// Columns returns the column names.
func (w *Window) Columns() []string { return w.columns }

// NumRows returns the number of buffered rows.
func (w *Window) NumRows() int { return len(w.rows) }

// Value returns the cell at (row, col). ok is false when out of range.
func (w *Window) Value(row, col int) (v any, ok bool) {
	if row < 0 || row >= len(w.rows) || col < 0 || col >= len(w.rows[row]) {
		return nil, false
	}
	return w.rows[row][col], true
}

// IsNull reports whether the cell holds NULL.
func (w *Window) IsNull(row, col int) bool {
	v, ok := w.Value(row, col)
	return ok && v == nil
}

// IsLong reports whether the cell holds an integer.
func (w *Window) IsLong(row, col int) bool {
	v, _ := w.Value(row, col)
	_, is := v.(int64)
	return is
}

// IsFloat reports whether the cell holds a real.
func (w *Window) IsFloat(row, col int) bool {
	v, _ := w.Value(row, col)
	_, is := v.(float64)
	return is
}

// IsString reports whether the cell holds text.
func (w *Window) IsString(row, col int) bool {
	v, _ := w.Value(row, col)
	_, is := v.(string)
	return is
}

// IsBlob reports whether the cell holds a blob.
func (w *Window) IsBlob(row, col int) bool {
	v, _ := w.Value(row, col)
	_, is := v.([]byte)
	return is
}

// Cursor returns a cursor over the window positioned before the first row.
func (w *Window) Cursor() *WindowRowCursor {
	return &WindowRowCursor{window: w, pos: -1}
}

// WindowRowCursor walks a Window. It exposes only the window capability, so
// ColumnType probes the buffered cells.
type WindowRowCursor struct {
	window *Window
	pos    int
}

var _ WindowCursor = (*WindowRowCursor)(nil)

// Next advances to the next row and reports whether one exists.
func (c *WindowRowCursor) Next() bool {
	if c.pos+1 >= c.window.NumRows() {
		c.pos = c.window.NumRows()
		return false
	}
	c.pos++
	return true
}

// Position implements Cursor.
func (c *WindowRowCursor) Position() int { return c.pos }

// Window implements WindowCursor.
func (c *WindowRowCursor) Window() *Window { return c.window }

// rowCursor streams rows from the driver and types cells from the values
// the driver returned.
type rowCursor struct {
	rows   *sqlx.Rows
	pos    int
	values []any
}

var _ TypedCursor = (*rowCursor)(nil)

func newRowCursor(rows *sqlx.Rows) *rowCursor {
	return &rowCursor{rows: rows, pos: -1}
}

// next advances the stream. It returns false at the end or on error; the
// caller checks rows.Err.
func (c *rowCursor) next() (bool, error) {
	if !c.rows.Next() {
		return false, nil
	}
	vals, err := c.rows.SliceScan()
	if err != nil {
		return false, fmt.Errorf("scan row %d: %w", c.pos+1, err)
	}
	for i, v := range vals {
		vals[i] = normalizeValue(v)
	}
	c.values = vals
	c.pos++
	return true, nil
}

func (c *rowCursor) Position() int { return c.pos }

func (c *rowCursor) ColumnType(col int) types.StorageClass {
	if col < 0 || col >= len(c.values) {
		return types.StorageUnknown
	}
	return classify(c.values[col])
}

func (c *rowCursor) value(col int) any {
	if col < 0 || col >= len(c.values) {
		return nil
	}
	return c.values[col]
}

func classify(v any) types.StorageClass {
	switch v.(type) {
	case nil:
		return types.StorageNull
	case int64:
		return types.StorageInteger
	case float64:
		return types.StorageFloat
	case string:
		return types.StorageString
	case []byte:
		return types.StorageBlob
	default:
		return types.StorageUnknown
	}
}

// sqliteTimeLayout is the layout the driver writes time.Time values with.
const sqliteTimeLayout = "2006-01-02 15:04:05.999999999-07:00"

// normalizeValue maps a driver value onto the SQLite storage
// representations. The driver parses text in DATE/DATETIME/TIMESTAMP
// columns into time.Time; it is turned back into text.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case nil, int64, float64, string:
		return x
	case []byte:
		out := make([]byte, len(x))
		copy(out, x)
		return out
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	case time.Time:
		return x.Format(sqliteTimeLayout)
	default:
		return fmt.Sprint(x)
	}
}
