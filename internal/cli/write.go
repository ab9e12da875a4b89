// Row mutation commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

type mutationOutput struct {
	Op      string `json:"op" yaml:"op"`
	Table   string `json:"table" yaml:"table"`
	Changed bool   `json:"changed" yaml:"changed"`
}

// mutateFunc is one of the Inspector row mutators.
type mutateFunc func(ctx context.Context, file types.DatabaseFile, m types.RowMutation) bool

func newInsertCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "insert <db> <table> <pk> <pkvalue> [col=value...]",
		Short: "Insert a row; empty values are left to column defaults",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.mutate(cmd, "insert", args, e.inspector.InsertRow)
		},
	}
}

func newUpdateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "update <db> <table> <pk> <pkvalue> col=value...",
		Short: "Update the row whose primary key equals pkvalue",
		Args:  cobra.MinimumNArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.mutate(cmd, "update", args, e.inspector.UpdateRow)
		},
	}
}

func newDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <db> <table> <pk> <pkvalue>",
		Short: "Delete the row whose primary key equals pkvalue",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.mutate(cmd, "delete", args, e.inspector.DeleteRow)
		},
	}
}

// mutate runs one row mutation. An unchanged row is reported on stdout and
// exits with the user error code, since the mutators do not say why.
func (e *env) mutate(cmd *cobra.Command, op string, args []string, fn mutateFunc) error {
	file, err := e.database(args[0])
	if err != nil {
		return err
	}
	names, values, err := parseAssignments(args[4:])
	if err != nil {
		return err
	}

	m := types.RowMutation{
		Table:           args[1],
		PrimaryKey:      args[2],
		PrimaryKeyValue: args[3],
		Names:           names,
		Values:          values,
	}
	changed := fn(cmd.Context(), file, m)

	if err := e.render(cmd, mutationOutput{Op: op, Table: m.Table, Changed: changed}); err != nil {
		return err
	}
	if !changed {
		return userError(fmt.Errorf("%s: no row changed in %q", op, m.Table))
	}
	return nil
}
