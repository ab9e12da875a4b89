package sqlite

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// driverName is the database/sql name registered by modernc.org/sqlite.
const driverName = "sqlite"

// connection is a short-lived read/write handle on one database file. It is
// opened at the start of a facade call and closed before the call returns.
type connection struct {
	db   *sqlx.DB
	file types.DatabaseFile
}

// dsn builds the driver DSN for path as a file: URI with the path escaped,
// so names holding '?', '#' or '%' reach the engine intact. The driver opens
// read/write and creates the file when absent.
func dsn(path string, busyTimeout int) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	path = filepath.ToSlash(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u := url.URL{Scheme: "file", Path: path}
	if busyTimeout > 0 {
		u.RawQuery = "_pragma=busy_timeout(" + strconv.Itoa(busyTimeout) + ")"
	}
	return u.String()
}

// open returns a connection on file. sql.Open is lazy, so the handle is
// pinged to surface open failures here rather than at the first statement.
func (in *Inspector) open(ctx context.Context, file types.DatabaseFile) (*connection, error) {
	if file.Path() == "" {
		return nil, fmt.Errorf("%w: empty path", types.ErrOpenFailed)
	}

	db, err := sqlx.Open(driverName, dsn(file.Path(), in.busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrOpenFailed, file, err)
	}
	// One handle per call, as the facade promises.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %s: %v", types.ErrOpenFailed, file, err)
	}

	return &connection{db: db.Unsafe(), file: file}, nil
}

// close releases the handle. Safe to call on a nil connection.
func (c *connection) close() error {
	if c == nil || c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
