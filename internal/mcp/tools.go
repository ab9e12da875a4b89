package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mesh-intelligence/dbinspector/internal/probe"
	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// defaultRowLimit is used when read_rows is called without a limit.
const defaultRowLimit = 50

type ListDatabasesInput struct{}

type DatabaseInput struct {
	Database string `json:"database" jsonschema:"path of the SQLite file"`
}

type TableInput struct {
	Database string `json:"database" jsonschema:"path of the SQLite file"`
	Table    string `json:"table" jsonschema:"table name"`
}

type ReadRowsInput struct {
	Database string `json:"database" jsonschema:"path of the SQLite file"`
	Table    string `json:"table" jsonschema:"table name"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum rows to read, default 50"`
	Offset   int    `json:"offset,omitempty" jsonschema:"rows to skip"`
}

type RowInput struct {
	Database        string   `json:"database" jsonschema:"path of the SQLite file"`
	Table           string   `json:"table" jsonschema:"table name"`
	PrimaryKey      string   `json:"primary_key" jsonschema:"primary-key column name"`
	PrimaryKeyValue string   `json:"primary_key_value" jsonschema:"primary-key value of the row"`
	Columns         []string `json:"columns,omitempty" jsonschema:"column names, parallel to values"`
	Values          []string `json:"values,omitempty" jsonschema:"new values as text, parallel to columns"`
}

type ListDatabasesOutput struct {
	Databases []string `json:"databases"`
}

type ListTablesOutput struct {
	Tables []string `json:"tables"`
}

type UserVersionOutput struct {
	UserVersion string `json:"user_version"`
}

type DescribeTableOutput struct {
	Table          string                   `json:"table"`
	Columns        []types.ColumnInfo       `json:"columns"`
	AllowedColumns []types.ColumnDescriptor `json:"allowed_columns"`
	PrimaryKey     string                   `json:"primary_key,omitempty"`
	Indexes        []types.IndexInfo        `json:"indexes"`
	ForeignKeys    []types.ForeignKey       `json:"foreign_keys"`
}

type ReadRowsOutput struct {
	Table   string         `json:"table"`
	Columns []string       `json:"columns"`
	Rows    [][]types.Cell `json:"rows"`
	Offset  int            `json:"offset"`
	Limit   int            `json:"limit"`
}

type MutationOutput struct {
	Changed bool `json:"changed"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_databases",
		Description: "List SQLite files in the configured application directories",
	}, s.handleListDatabases)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_tables",
		Description: "List the tables of a database",
	}, s.handleListTables)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "user_version",
		Description: "Read PRAGMA user_version of a database",
	}, s.handleUserVersion)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "describe_table",
		Description: "Describe a table: columns, editable columns, primary key, indexes and foreign keys",
	}, s.handleDescribeTable)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "read_rows",
		Description: "Read a page of rows, each cell tagged with its storage class (0 NULL, 1 INTEGER, 2 FLOAT, 3 STRING, 4 BLOB)",
	}, s.handleReadRows)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "insert_row",
		Description: "Insert a row; empty values are omitted so column defaults apply",
	}, s.handleInsertRow)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "update_row",
		Description: "Update the row whose primary key equals primary_key_value",
	}, s.handleUpdateRow)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "delete_row",
		Description: "Delete the row whose primary key equals primary_key_value",
	}, s.handleDeleteRow)
}

func (s *Server) handleListDatabases(ctx context.Context, req *sdk.CallToolRequest, input ListDatabasesInput) (*sdk.CallToolResult, ListDatabasesOutput, error) {
	found := probe.Discover(s.fs, s.app, probe.Options{MaxDepth: s.cfg.MaxDepth, Log: s.log})
	output := make([]string, 0, len(found))
	for _, f := range found {
		output = append(output, f.Path())
	}
	return nil, ListDatabasesOutput{Databases: output}, nil
}

func (s *Server) handleListTables(ctx context.Context, req *sdk.CallToolRequest, input DatabaseInput) (*sdk.CallToolResult, ListTablesOutput, error) {
	file, err := s.database(input.Database)
	if err != nil {
		return nil, ListTablesOutput{}, err
	}
	tables, err := s.inspector.Tables(ctx, file)
	if err != nil {
		return nil, ListTablesOutput{}, err
	}
	return nil, ListTablesOutput{Tables: tables}, nil
}

func (s *Server) handleUserVersion(ctx context.Context, req *sdk.CallToolRequest, input DatabaseInput) (*sdk.CallToolResult, UserVersionOutput, error) {
	file, err := s.database(input.Database)
	if err != nil {
		return nil, UserVersionOutput{}, err
	}
	v, err := s.inspector.UserVersion(ctx, file)
	if err != nil {
		return nil, UserVersionOutput{}, err
	}
	return nil, UserVersionOutput{UserVersion: v}, nil
}

func (s *Server) handleDescribeTable(ctx context.Context, req *sdk.CallToolRequest, input TableInput) (*sdk.CallToolResult, DescribeTableOutput, error) {
	file, err := s.database(input.Database)
	if err != nil {
		return nil, DescribeTableOutput{}, err
	}
	if input.Table == "" {
		return nil, DescribeTableOutput{}, fmt.Errorf("table is required")
	}

	output := DescribeTableOutput{Table: input.Table}
	if output.Columns, err = s.inspector.TableInfo(ctx, file, input.Table); err != nil {
		return nil, DescribeTableOutput{}, err
	}
	if len(output.Columns) == 0 {
		return nil, DescribeTableOutput{}, fmt.Errorf("%w: %s", types.ErrTableNotFound, input.Table)
	}
	if output.AllowedColumns, err = s.inspector.AllowedColumns(ctx, file, input.Table, s.cfg.AllowedDataTypes); err != nil {
		return nil, DescribeTableOutput{}, err
	}
	pk, ok, err := s.inspector.PrimaryKeyName(ctx, file, input.Table)
	if err != nil {
		return nil, DescribeTableOutput{}, err
	}
	if ok {
		output.PrimaryKey = pk
	}
	if output.Indexes, err = s.inspector.Indexes(ctx, file, input.Table); err != nil {
		return nil, DescribeTableOutput{}, err
	}
	if output.ForeignKeys, err = s.inspector.ForeignKeys(ctx, file, input.Table); err != nil {
		return nil, DescribeTableOutput{}, err
	}
	return nil, output, nil
}

func (s *Server) handleReadRows(ctx context.Context, req *sdk.CallToolRequest, input ReadRowsInput) (*sdk.CallToolResult, ReadRowsOutput, error) {
	file, err := s.database(input.Database)
	if err != nil {
		return nil, ReadRowsOutput{}, err
	}
	limit := input.Limit
	if limit == 0 {
		limit = defaultRowLimit
	}
	page, err := s.inspector.Rows(ctx, file, input.Table, limit, input.Offset)
	if err != nil {
		return nil, ReadRowsOutput{}, err
	}
	return nil, ReadRowsOutput{
		Table:   page.Table,
		Columns: page.Columns,
		Rows:    page.Rows,
		Offset:  page.Offset,
		Limit:   page.Limit,
	}, nil
}

func (s *Server) handleInsertRow(ctx context.Context, req *sdk.CallToolRequest, input RowInput) (*sdk.CallToolResult, MutationOutput, error) {
	return s.mutate(ctx, input, s.inspector.InsertRow)
}

func (s *Server) handleUpdateRow(ctx context.Context, req *sdk.CallToolRequest, input RowInput) (*sdk.CallToolResult, MutationOutput, error) {
	return s.mutate(ctx, input, s.inspector.UpdateRow)
}

func (s *Server) handleDeleteRow(ctx context.Context, req *sdk.CallToolRequest, input RowInput) (*sdk.CallToolResult, MutationOutput, error) {
	input.Columns, input.Values = nil, nil
	return s.mutate(ctx, input, s.inspector.DeleteRow)
}

func (s *Server) mutate(ctx context.Context, input RowInput, fn func(context.Context, types.DatabaseFile, types.RowMutation) bool) (*sdk.CallToolResult, MutationOutput, error) {
	file, err := s.database(input.Database)
	if err != nil {
		return nil, MutationOutput{}, err
	}
	m := types.RowMutation{
		Table:           input.Table,
		PrimaryKey:      input.PrimaryKey,
		PrimaryKeyValue: input.PrimaryKeyValue,
		Names:           input.Columns,
		Values:          input.Values,
	}
	if err := m.Validate(); err != nil {
		return nil, MutationOutput{}, err
	}
	return nil, MutationOutput{Changed: fn(ctx, file, m)}, nil
}

// database checks that path names an existing regular file. Opening a
// missing path would create an empty database.
func (s *Server) database(path string) (types.DatabaseFile, error) {
	if path == "" {
		return "", fmt.Errorf("database is required")
	}
	info, err := s.fs.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("database %q not found", path)
	}
	return types.DatabaseFile(path), nil
}
