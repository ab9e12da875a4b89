// Config loading for the dbinspector CLI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyLogLevel         = "log_level"
	cfgKeyOutput           = "output"
	cfgKeyDatabasesDir     = "databases_dir"
	cfgKeyFilesDir         = "files_dir"
	cfgKeyExternalFilesDir = "external_files_dir"
	cfgKeyMaxDepth         = "max_depth"
	cfgKeyBusyTimeout      = "busy_timeout_ms"
	cfgKeyAllowedTypes     = "dbinspector_crud_allowed_data_types"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# dbinspector configuration

# Logging: debug, info, warn, error
log_level: warn

# Output format: json or yaml
output: json

# Registered databases directory (optional)
# databases_dir:

# Internal files directory walked recursively by discover
# (optional; overridable by --files-dir, default: current directory)
# files_dir:

# External files directory listed non-recursively by discover (optional)
# external_files_dir:

# Maximum depth of the internal files walk
max_depth: 64

# SQLite busy timeout applied to every connection
busy_timeout_ms: 5000

# Declared column types the row editor surfaces
dbinspector_crud_allowed_data_types:
  - INTEGER
  - TEXT
  - REAL
  - NUMERIC
  - VARCHAR
  - BOOLEAN
`

// loadConfig reads config.yaml from configDir using Viper. It creates the
// config directory and a default config.yaml on first run. A missing
// config.yaml is not an error; defaults apply.
func loadConfig(configDir string) (types.Config, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	def := types.DefaultConfig()
	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetDefault(cfgKeyOutput, def.Output)
	v.SetDefault(cfgKeyDatabasesDir, "")
	v.SetDefault(cfgKeyFilesDir, "")
	v.SetDefault(cfgKeyExternalFilesDir, "")
	v.SetDefault(cfgKeyMaxDepth, def.MaxDepth)
	v.SetDefault(cfgKeyBusyTimeout, def.BusyTimeoutMS)
	v.SetDefault(cfgKeyAllowedTypes, def.AllowedDataTypes)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
