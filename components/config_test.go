package components

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	yml := `
input: /data/in
output: /data/out
numReducers: 4
format: turtle
database:
  driver: sqlite
  dsn: /data/postings.db
`
	require.NoError(t, afero.WriteFile(fs, "/rdf2idx.yaml", []byte(yml), 0644))

	cfg, err := LoadConfig(fs, "/rdf2idx.yaml")
	require.NoError(t, err)

	assert.Equal(t, "/data/in", cfg.Input)
	assert.Equal(t, "/data/out", cfg.Output)
	assert.Equal(t, 4, cfg.NumReducers)
	assert.Equal(t, "turtle", cfg.Format)
	assert.Equal(t, DatabaseConfig{Driver: "sqlite", DSN: "/data/postings.db"}, cfg.Database)
	// Defaults survive
	assert.Equal(t, DefaultDocumentMarker, cfg.Marker)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigErrors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := LoadConfig(fs, "/missing.yaml")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("numReducers: many\n"), 0644))
	_, err = LoadConfig(fs, "/bad.yaml")
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Input = "in"
		cfg.Output = "out"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(*Config){
		"no input":         func(c *Config) { c.Input = "" },
		"no output":        func(c *Config) { c.Output = "" },
		"zero reducers":    func(c *Config) { c.NumReducers = 0 },
		"zero workers":     func(c *Config) { c.Workers = 0 },
		"empty marker":     func(c *Config) { c.Marker = "" },
		"unknown format":   func(c *Config) { c.Format = "json-ld" },
		"unknown driver":   func(c *Config) { c.Database.Driver = "mysql" },
		"driver w/o dsn":   func(c *Config) { c.Database.Driver = DriverPostgres },
		"unknown loglevel": func(c *Config) { c.LogLevel = "chatty" },
	}
	for name, mutate := range tests {
		cfg := valid()
		mutate(cfg)
		err := cfg.Validate()
		assert.True(t, errors.Is(err, ErrInvalidConfig), "%s: got %v", name, err)
	}
}
