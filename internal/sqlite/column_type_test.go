package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// fixedCursor reports one storage class for every column.
type fixedCursor struct{ class types.StorageClass }

func (fixedCursor) Position() int { return 0 }
func (c fixedCursor) ColumnType(int) types.StorageClass { return c.class }

// bareCursor has neither capability.
type bareCursor struct{}

func (bareCursor) Position() int { return 0 }

func TestColumnType_WindowProbe(t *testing.T) {
	w := NewWindow([]string{"v"}, [][]any{
		{nil},
		{int64(7)},
		{3.25},
		{"text"},
		{[]byte{0xde, 0xad}},
	})
	want := []types.StorageClass{
		types.StorageNull,
		types.StorageInteger,
		types.StorageFloat,
		types.StorageString,
		types.StorageBlob,
	}

	cur := w.Cursor()
	assert.Equal(t, -1, cur.Position())
	for i := 0; cur.Next(); i++ {
		assert.Equal(t, want[i], ColumnType(cur, 0), "row %d", i)
	}
	assert.False(t, cur.Next())

	t.Run("exactly one predicate matches each value", func(t *testing.T) {
		for row := 0; row < w.NumRows(); row++ {
			matches := 0
			for _, p := range []func(int, int) bool{w.IsNull, w.IsLong, w.IsFloat, w.IsString, w.IsBlob} {
				if p(row, 0) {
					matches++
				}
			}
			assert.Equal(t, 1, matches, "row %d", row)
		}
	})

	t.Run("out of range is unknown", func(t *testing.T) {
		cur := w.Cursor()
		assert.True(t, cur.Next())
		assert.Equal(t, types.StorageUnknown, ColumnType(cur, 3))
	})
}

func TestColumnType_Delegation(t *testing.T) {
	assert.Equal(t, types.StorageBlob, ColumnType(fixedCursor{class: types.StorageBlob}, 0))
	assert.Equal(t, types.StorageUnknown, ColumnType(bareCursor{}, 0))
}

func TestNormalizeValue(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"int", 5, int64(5)},
		{"bool true", true, int64(1)},
		{"bool false", false, int64(0)},
		{"float32", float32(0.5), float64(0.5)},
		{"time", at, "2024-03-01 12:30:00+00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeValue(tt.in))
		})
	}
}

func TestStorageClassTags(t *testing.T) {
	assert.Equal(t, 0, int(types.StorageNull))
	assert.Equal(t, 1, int(types.StorageInteger))
	assert.Equal(t, 2, int(types.StorageFloat))
	assert.Equal(t, 3, int(types.StorageString))
	assert.Equal(t, 4, int(types.StorageBlob))
	assert.Equal(t, -1, int(types.StorageUnknown))
}
