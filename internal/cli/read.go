// Read-only inspection commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// Default page size for rows.
const defaultRowLimit = 50

type userVersionOutput struct {
	Database    string `json:"database" yaml:"database"`
	UserVersion string `json:"user_version" yaml:"user_version"`
}

type primaryKeyOutput struct {
	Table      string  `json:"table" yaml:"table"`
	PrimaryKey *string `json:"primary_key" yaml:"primary_key"`
}

type tableReport struct {
	Table       string             `json:"table" yaml:"table"`
	Headers     []string           `json:"headers" yaml:"headers"`
	Columns     []types.ColumnInfo `json:"columns" yaml:"columns"`
	Indexes     []types.IndexInfo  `json:"indexes" yaml:"indexes"`
	ForeignKeys []types.ForeignKey `json:"foreign_keys" yaml:"foreign_keys"`
}

func newTablesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tables <db>",
		Short: "List the tables of a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := e.database(args[0])
			if err != nil {
				return err
			}
			tables, err := e.inspector.Tables(cmd.Context(), file)
			if err != nil {
				return readError("list tables", err)
			}
			return e.render(cmd, tables)
		},
	}
}

func newUserVersionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version <db>",
		Short: "Print PRAGMA user_version of a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := e.database(args[0])
			if err != nil {
				return err
			}
			v, err := e.inspector.UserVersion(cmd.Context(), file)
			if err != nil {
				return readError("read user_version", err)
			}
			return e.render(cmd, userVersionOutput{Database: file.Path(), UserVersion: v})
		},
	}
}

func newColumnsCmd(e *env) *cobra.Command {
	var allowed []string
	cmd := &cobra.Command{
		Use:   "columns <db> <table>",
		Short: "List the columns the row editor can surface",
		Long: `Columns lists the columns of a table whose declared type is one of the
allowed data types (dbinspector_crud_allowed_data_types, or --types).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := e.database(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("types") {
				allowed = e.cfg.AllowedDataTypes
			}
			cols, err := e.inspector.AllowedColumns(cmd.Context(), file, args[1], allowed)
			if err != nil {
				return readError("list columns", err)
			}
			return e.render(cmd, cols)
		},
	}
	cmd.Flags().StringSliceVar(&allowed, "types", nil, "allowed declared types (default: from config)")
	return cmd
}

func newPrimaryKeyCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "pk <db> <table>",
		Short: "Print the primary-key column of a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := e.database(args[0])
			if err != nil {
				return err
			}
			name, ok, err := e.inspector.PrimaryKeyName(cmd.Context(), file, args[1])
			if err != nil {
				return readError("read primary key", err)
			}
			out := primaryKeyOutput{Table: args[1]}
			if ok {
				out.PrimaryKey = &name
			}
			return e.render(cmd, out)
		},
	}
}

func newInfoCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "info <db> <table>",
		Short: "Describe a table: columns, indexes and foreign keys",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := e.database(args[0])
			if err != nil {
				return err
			}
			ctx, table := cmd.Context(), args[1]

			report := tableReport{Table: table, Headers: types.TableInfoHeaders()}
			if report.Columns, err = e.inspector.TableInfo(ctx, file, table); err != nil {
				return readError("read table info", err)
			}
			if report.Indexes, err = e.inspector.Indexes(ctx, file, table); err != nil {
				return readError("read indexes", err)
			}
			if report.ForeignKeys, err = e.inspector.ForeignKeys(ctx, file, table); err != nil {
				return readError("read foreign keys", err)
			}
			return e.render(cmd, report)
		},
	}
}

func newRowsCmd(e *env) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "rows <db> <table>",
		Short: "Read a page of rows with their storage classes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := e.database(args[0])
			if err != nil {
				return err
			}
			page, err := e.inspector.Rows(cmd.Context(), file, args[1], limit, offset)
			if err != nil {
				return readError("read rows", err)
			}
			return e.render(cmd, page)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", defaultRowLimit, "maximum rows to read")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	return cmd
}
