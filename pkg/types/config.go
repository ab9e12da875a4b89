package types

import "errors"

// Config holds inspector and host settings loaded from config.yaml.
type Config struct {
	LogLevel         string   `mapstructure:"log_level" yaml:"log_level"`
	Output           string   `mapstructure:"output" yaml:"output"`
	DatabasesDir     string   `mapstructure:"databases_dir" yaml:"databases_dir,omitempty"`
	FilesDir         string   `mapstructure:"files_dir" yaml:"files_dir,omitempty"`
	ExternalFilesDir string   `mapstructure:"external_files_dir" yaml:"external_files_dir,omitempty"`
	MaxDepth         int      `mapstructure:"max_depth" yaml:"max_depth"`
	BusyTimeoutMS    int      `mapstructure:"busy_timeout_ms" yaml:"busy_timeout_ms"`
	AllowedDataTypes []string `mapstructure:"dbinspector_crud_allowed_data_types" yaml:"dbinspector_crud_allowed_data_types"`
}

// Output formats.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Defaults applied when config.yaml leaves a key unset.
const (
	DefaultLogLevel      = "warn"
	DefaultOutput        = OutputJSON
	DefaultMaxDepth      = 64
	DefaultBusyTimeoutMS = 5000
)

// DefaultAllowedDataTypes are the declared column types the row editor can
// round-trip through a text input.
var DefaultAllowedDataTypes = []string{"INTEGER", "TEXT", "REAL", "NUMERIC", "VARCHAR", "BOOLEAN"}

// Config validation errors.
var (
	ErrOutputUnknown      = errors.New("unknown output format")
	ErrMaxDepthInvalid    = errors.New("max depth must be positive")
	ErrBusyTimeoutInvalid = errors.New("busy timeout must not be negative")
)

var knownOutputs = map[string]bool{
	OutputJSON: true,
	OutputYAML: true,
}

// DefaultConfig returns a Config with every default filled in.
func DefaultConfig() Config {
	allowed := make([]string, len(DefaultAllowedDataTypes))
	copy(allowed, DefaultAllowedDataTypes)
	return Config{
		LogLevel:         DefaultLogLevel,
		Output:           DefaultOutput,
		MaxDepth:         DefaultMaxDepth,
		BusyTimeoutMS:    DefaultBusyTimeoutMS,
		AllowedDataTypes: allowed,
	}
}

// Validate checks that the Config is well-formed and returns one of the
// sentinel errors above on failure.
func (c Config) Validate() error {
	if !knownOutputs[c.Output] {
		return ErrOutputUnknown
	}
	if c.MaxDepth <= 0 {
		return ErrMaxDepthInvalid
	}
	if c.BusyTimeoutMS < 0 {
		return ErrBusyTimeoutInvalid
	}
	return nil
}
