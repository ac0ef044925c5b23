package components

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by all Config.Validate errors
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings of an indexing job. It is read from YAML, and
// every field can be overridden on the command line.
type Config struct {
	Input       string         `yaml:"input"`
	Output      string         `yaml:"output"`
	NumReducers int            `yaml:"numReducers"`
	Workers     int            `yaml:"workers"`
	Format      string         `yaml:"format"`
	Marker      string         `yaml:"marker"`
	StopWords   string         `yaml:"stopWords"`
	Compress    bool           `yaml:"compress"`
	Print       bool           `yaml:"print"`
	Database    DatabaseConfig `yaml:"database"`
	MetricsFile string         `yaml:"metricsFile"`
	LogLevel    string         `yaml:"logLevel"`
}

// DatabaseConfig selects an optional database sink. An empty Driver
// disables it.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// DefaultConfig returns a Config with every optional setting at its default
func DefaultConfig() *Config {
	return &Config{
		NumReducers: 1,
		Workers:     runtime.NumCPU(),
		Format:      "rdfxml",
		Marker:      DefaultDocumentMarker,
		LogLevel:    "info",
	}
}

// LoadConfig reads a YAML config file from fs. Settings missing from the
// file keep their defaults.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that cfg can drive a job
func (c *Config) Validate() error {
	switch {
	case c.Input == "":
		return fmt.Errorf("%w: no input location", ErrInvalidConfig)
	case c.Output == "":
		return fmt.Errorf("%w: no output location", ErrInvalidConfig)
	case c.NumReducers < 1:
		return fmt.Errorf("%w: numReducers must be at least 1, got %d", ErrInvalidConfig, c.NumReducers)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	case c.Marker == "":
		return fmt.Errorf("%w: empty document marker", ErrInvalidConfig)
	}
	if _, ok := formatsByName[c.Format]; !ok {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	switch c.Database.Driver {
	case "":
	case DriverSQLite, DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("%w: database driver %s needs a dsn", ErrInvalidConfig, c.Database.Driver)
		}
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.Database.Driver)
	}
	switch c.LogLevel {
	case "debug", "info", "warning":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}
