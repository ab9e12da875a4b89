// Package paths resolves configuration and probe directory locations.
// Implements: configuration directory precedence; files directory
// precedence for the filesystem probe.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// appDirName is the directory created under the platform config root.
const appDirName = "dbinspector"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "DBINSPECTOR_CONFIG_DIR"
	EnvFilesDir  = "DBINSPECTOR_FILES_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/dbinspector (fallback ~/.config/dbinspector)
// macOS:   ~/Library/Application Support/dbinspector
// Windows: %APPDATA%/dbinspector
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appDirName), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > DBINSPECTOR_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return Expand(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return Expand(env)
	}
	return DefaultConfigDir()
}

// ResolveFilesDir returns the internal files directory walked by the probe,
// following the precedence chain: flag > configYAMLValue >
// DBINSPECTOR_FILES_DIR env > current working directory.
func ResolveFilesDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return Expand(flag)
	}
	if configYAMLValue != "" {
		return Expand(configYAMLValue)
	}
	if env := os.Getenv(EnvFilesDir); env != "" {
		return Expand(env)
	}
	return platformDir.getwd()
}

// Expand returns dir as an absolute path, replacing a leading "~" with the
// user's home directory. An empty dir stays empty.
func Expand(dir string) (string, error) {
	if dir == "" {
		return "", nil
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return filepath.Abs(dir)
}
