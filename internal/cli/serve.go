package cli

import (
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/dbinspector/internal/mcp"
)

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the inspector as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.appContext()
			if err != nil {
				return sysError(err)
			}
			server := mcp.NewServer(e.inspector, e.fs, app, e.cfg, Version, e.logEntry())
			if err := server.Run(cmd.Context(), &sdk.StdioTransport{}); err != nil {
				return sysError(err)
			}
			return nil
		},
	}
}
