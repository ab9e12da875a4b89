// Shared helpers for dbinspector commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/dbinspector/internal/paths"
	"github.com/mesh-intelligence/dbinspector/internal/probe"
	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// render writes v to stdout in the configured output format.
func (e *env) render(cmd *cobra.Command, v any) error {
	w := cmd.OutOrStdout()
	if e.cfg.Output == types.OutputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return sysError(fmt.Errorf("encode yaml: %w", err))
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return sysError(fmt.Errorf("encode json: %w", err))
	}
	return nil
}

// database resolves a <db> argument. A bare name is looked up in
// databases_dir first; anything else is a path. The file must exist, since
// opening a missing path would create an empty database.
func (e *env) database(arg string) (types.DatabaseFile, error) {
	path := arg
	if e.cfg.DatabasesDir != "" && filepath.Base(arg) == arg {
		dir, err := paths.Expand(e.cfg.DatabasesDir)
		if err != nil {
			return "", sysError(fmt.Errorf("resolve databases dir: %w", err))
		}
		candidate := filepath.Join(dir, arg)
		if _, err := e.fs.Stat(candidate); err == nil {
			path = candidate
		}
	}

	abs, err := paths.Expand(path)
	if err != nil {
		return "", sysError(fmt.Errorf("resolve database path: %w", err))
	}
	info, err := e.fs.Stat(abs)
	if err != nil || info.IsDir() {
		return "", userError(fmt.Errorf("database %q not found", arg))
	}
	return types.DatabaseFile(abs), nil
}

// appContext builds the probe context from the configured directories.
func (e *env) appContext() (*probe.DirContext, error) {
	databasesDir, err := paths.Expand(e.cfg.DatabasesDir)
	if err != nil {
		return nil, fmt.Errorf("resolve databases dir: %w", err)
	}
	filesDir, err := paths.ResolveFilesDir(e.flags.filesDir, e.cfg.FilesDir)
	if err != nil {
		return nil, fmt.Errorf("resolve files dir: %w", err)
	}
	externalDir, err := paths.Expand(e.cfg.ExternalFilesDir)
	if err != nil {
		return nil, fmt.Errorf("resolve external files dir: %w", err)
	}
	return probe.NewDirContext(e.fs, databasesDir, filesDir, externalDir), nil
}

func (e *env) logEntry() *logrus.Entry {
	return logrus.NewEntry(e.log)
}

// readError classifies a read failure: bad input is a user error, anything
// the database reports is a system error.
func readError(op string, err error) error {
	wrapped := fmt.Errorf("%s: %w", op, err)
	if errors.Is(err, types.ErrInvalidIdentifier) || errors.Is(err, types.ErrInvalidPage) {
		return userError(wrapped)
	}
	return sysError(wrapped)
}

// parseAssignments splits col=value arguments into parallel name and value
// sequences. The value may be empty; the name may not.
func parseAssignments(args []string) (names, values []string, err error) {
	names = make([]string, 0, len(args))
	values = make([]string, 0, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, nil, userError(fmt.Errorf("expected col=value, got %q", arg))
		}
		names = append(names, name)
		values = append(values, value)
	}
	return names, values, nil
}
