package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/multierr"

	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// cursorOperation pairs a query with the function that shapes its rows into
// a result of type R.
type cursorOperation[R any] struct {
	// provideCursor runs the query and returns the open row stream.
	provideCursor func(ctx context.Context, conn *connection) (*sqlx.Rows, error)

	// provideResult consumes the stream. It must not close rows.
	provideResult func(ctx context.Context, conn *connection, rows *sqlx.Rows) (R, error)
}

// execute opens a connection on file, runs op, and closes the cursor and the
// connection on every exit path. Any error, including a release error after
// a successful read, is returned with the zero value of R.
func execute[R any](ctx context.Context, in *Inspector, file types.DatabaseFile, op cursorOperation[R]) (result R, err error) {
	var zero R

	conn, err := in.open(ctx, file)
	if err != nil {
		return zero, err
	}
	defer func() {
		err = multierr.Append(err, conn.close())
		if err != nil {
			result = zero
		}
	}()

	rows, err := op.provideCursor(ctx, conn)
	if err != nil {
		return zero, fmt.Errorf("query %s: %w", file, err)
	}
	defer func() {
		err = multierr.Append(err, rows.Close())
	}()

	result, err = op.provideResult(ctx, conn, rows)
	if err != nil {
		return zero, err
	}
	if err := rows.Err(); err != nil {
		return zero, fmt.Errorf("read rows %s: %w", file, err)
	}
	return result, nil
}

// query returns a provideCursor that runs a fixed statement.
func query(stmt string, args ...any) func(context.Context, *connection) (*sqlx.Rows, error) {
	return func(ctx context.Context, conn *connection) (*sqlx.Rows, error) {
		return conn.db.QueryxContext(ctx, stmt, args...)
	}
}
