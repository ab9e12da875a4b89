package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/dbinspector/internal/probe"
)

func newDiscoverCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "List SQLite files in the configured directories",
		Long: `Discover lists registered databases (journals excluded), database files
directly inside the external files directory when it is available, and
database files anywhere under the internal files directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.appContext()
			if err != nil {
				return sysError(err)
			}
			found := probe.Discover(e.fs, app, probe.Options{
				MaxDepth: e.cfg.MaxDepth,
				Log:      e.logEntry(),
			})
			return e.render(cmd, found)
		},
	}
}
