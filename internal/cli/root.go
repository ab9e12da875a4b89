// Package cli implements the dbinspector command-line interface.
// Implements: command tree, global flags, exit codes, output modes.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/dbinspector/internal/paths"
	"github.com/mesh-intelligence/dbinspector/pkg/sqlite"
	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func userError(err error) error {
	return &ExitError{Code: exitUserError, Err: err}
}

func sysError(err error) error {
	return &ExitError{Code: exitSysError, Err: err}
}

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	filesDir  string
	output    string
	logLevel  string
}

// env is the state shared by subcommands once the config is loaded.
type env struct {
	flags     rootFlags
	cfg       types.Config
	fs        afero.Fs
	log       *logrus.Logger
	inspector types.Inspector
}

// NewRootCmd creates the top-level "dbinspector" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	e := &env{fs: afero.NewOsFs()}

	root := &cobra.Command{
		Use:     "dbinspector",
		Short:   "Inspect and edit SQLite databases",
		Long:    "dbinspector discovers SQLite files in an application's storage, reads their\nschema and rows, and edits single rows by primary key.",
		Version: Version,
		// Errors are printed once by Execute.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&e.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&e.flags.filesDir, "files-dir", "", "internal files directory walked by discover (default: $(CWD))")
	pf.StringVarP(&e.flags.output, "output", "o", "", "output format: json or yaml")
	pf.StringVar(&e.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newAboutCmd(),
		newDiscoverCmd(e),
		newTablesCmd(e),
		newUserVersionCmd(e),
		newColumnsCmd(e),
		newPrimaryKeyCmd(e),
		newInfoCmd(e),
		newRowsCmd(e),
		newInsertCmd(e),
		newUpdateCmd(e),
		newDeleteCmd(e),
		newServeCmd(e),
	)

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := NewRootCmd().Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(os.Stderr, "dbinspector:", err)
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	// Flag and argument errors from cobra.
	return exitUserError
}

// setup loads config.yaml, applies flag overrides, and builds the logger and
// inspector.
func (e *env) setup(cmd *cobra.Command) error {
	// about needs no configuration.
	if cmd.Name() == "about" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(e.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	if e.flags.output != "" {
		cfg.Output = e.flags.output
	}
	if e.flags.logLevel != "" {
		cfg.LogLevel = e.flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return userError(fmt.Errorf("invalid configuration: %w", err))
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return userError(fmt.Errorf("invalid configuration: %w", err))
	}
	e.log = logrus.New()
	e.log.SetOutput(cmd.ErrOrStderr())
	e.log.SetLevel(level)

	e.cfg = cfg
	e.inspector = sqlite.NewInspector(sqlite.Options{
		Logger:        logrus.NewEntry(e.log),
		BusyTimeoutMS: cfg.BusyTimeoutMS,
	})
	return nil
}
