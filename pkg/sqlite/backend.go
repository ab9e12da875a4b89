// Package sqlite provides the public API for the SQLite inspection facade.
// This package exposes the factory and the type-inference helpers while
// keeping connection handling internal.
//
// Implements: connection facade (factory); type-inference shim.
package sqlite

import (
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/dbinspector/internal/sqlite"
	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// Cursor, TypedCursor and WindowCursor are the cursor capabilities ColumnType
// understands.
type (
	Cursor          = sqlite.Cursor
	TypedCursor     = sqlite.TypedCursor
	WindowCursor    = sqlite.WindowCursor
	Window          = sqlite.Window
	WindowRowCursor = sqlite.WindowRowCursor
)

// Options for NewInspector.
type Options struct {
	// Logger receives write failures and debug traces. Nil uses the logrus
	// standard logger.
	Logger *logrus.Entry
	// BusyTimeoutMS is applied to every connection. Zero leaves the engine
	// default; pass types.DefaultBusyTimeoutMS for the configured default.
	BusyTimeoutMS int
}

// NewInspector creates a stateless inspector. Every call opens its own
// connection on the file it is given and releases it before returning.
//
// Example:
//
//	in := sqlite.NewInspector(sqlite.Options{})
//	tables, err := in.Tables(ctx, types.DatabaseFile("/data/app.db"))
func NewInspector(opts Options) types.Inspector {
	var o []sqlite.Option
	if opts.Logger != nil {
		o = append(o, sqlite.WithLogger(opts.Logger))
	}
	o = append(o, sqlite.WithBusyTimeout(opts.BusyTimeoutMS))
	return sqlite.NewInspector(o...)
}

// ColumnType returns the storage class of column col at the cursor's current
// row, or types.StorageUnknown.
func ColumnType(c Cursor, col int) types.StorageClass {
	return sqlite.ColumnType(c, col)
}

// NewWindow buffers rows for cursors that cannot type cells themselves.
func NewWindow(columns []string, rows [][]any) *Window {
	return sqlite.NewWindow(columns, rows)
}
