package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// modulePath is printed by about.
const modulePath = "github.com/mesh-intelligence/dbinspector"

// Version is the binary version, overridden at build time with
// -ldflags "-X github.com/mesh-intelligence/dbinspector/internal/cli.Version=...".
var Version = "0.1.0-dev"

func newAboutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Print the dbinspector version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "dbinspector v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
