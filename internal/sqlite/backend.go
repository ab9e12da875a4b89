// Package sqlite implements the database inspection facade over the modernc
// SQLite driver.
// Implements: connection facade, cursor operation, schema introspector,
// type-inference shim, row mutator.
package sqlite

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// Inspector implements types.Inspector. It holds only settings and a logger;
// every operation opens and releases its own connection.
type Inspector struct {
	log         *logrus.Entry
	busyTimeout int
}

var _ types.Inspector = (*Inspector)(nil)

// Option configures an Inspector.
type Option func(*Inspector)

// WithLogger sets the logger write failures are reported to.
func WithLogger(log *logrus.Entry) Option {
	return func(in *Inspector) {
		if log != nil {
			in.log = log
		}
	}
}

// WithBusyTimeout sets the SQLite busy timeout in milliseconds applied to
// every connection. Zero leaves the engine default.
func WithBusyTimeout(ms int) Option {
	return func(in *Inspector) {
		in.busyTimeout = ms
	}
}

// NewInspector creates an Inspector. Without options it logs through the
// logrus standard logger and uses the default busy timeout.
func NewInspector(opts ...Option) *Inspector {
	in := &Inspector{
		log:         logrus.NewEntry(logrus.StandardLogger()),
		busyTimeout: types.DefaultBusyTimeoutMS,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// BusyTimeout returns the busy timeout in milliseconds applied to each
// connection. Zero means the engine default.
func (in *Inspector) BusyTimeout() int {
	return in.busyTimeout
}

// entry returns a logger scoped to one facade call.
func (in *Inspector) entry(file types.DatabaseFile, table string) *logrus.Entry {
	fields := logrus.Fields{
		"db": file.Path(),
		"op": newOpID(),
	}
	if table != "" {
		fields["table"] = table
	}
	return in.log.WithFields(fields)
}

// newOpID generates a UUID v7 tagging the log lines of one facade call.
func newOpID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
