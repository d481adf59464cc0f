package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tadaerrors "github.com/idilsaglam/tada/internal/errors"
)

// isolate keeps the developer's own config and environment out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"TADA_CONFIG", "TADA_BACKEND", "TADA_DATA_DIR", "TADA_LOG_LEVEL", "TADA_THEME", "TADA_QUOTA_BYTES"} {
		t.Setenv(k, "")
	}
	return home
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.Storage.TrackCreated)
	assert.True(t, cfg.Storage.AutoPersist)
	assert.Equal(t, "todos", cfg.Storage.TodosKey)
}

func TestLoadTOMLKeepsUnsetDefaults(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".tada", "config.toml"), `
[storage]
backend = "sqlite"
quota_bytes = 4096

[logging]
level = "debug"
`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, 4096, cfg.Storage.QuotaBytes)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, DefaultCreatedKey, cfg.Storage.CreatedKey)
	assert.True(t, cfg.Storage.AutoPersist)
}

func TestLoadYAML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "tada.yaml")
	writeFile(t, path, `
storage:
  backend: memory
  track_created: false
ui:
  theme: mono
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.False(t, cfg.Storage.TrackCreated)
	assert.Equal(t, "mono", cfg.UI.Theme)
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "tada.toml")
	writeFile(t, path, "[storage]\nbackend = \"sqlite\"\n")
	t.Setenv("TADA_CONFIG", path)
	t.Setenv("TADA_BACKEND", "memory")
	t.Setenv("TADA_DATA_DIR", "/tmp/somewhere")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/somewhere", cfg.Storage.Dir)
}

func TestExplicitMissingFileFails(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, tadaerrors.Is(err, tadaerrors.ErrCodeConfigInvalid))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"backend case", func(c *Config) { c.Storage.Backend = "SQLite" }, true},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, false},
		{"same keys", func(c *Config) { c.Storage.CreatedKey = c.Storage.TodosKey }, false},
		{"empty todos key", func(c *Config) { c.Storage.TodosKey = " " }, false},
		{"negative quota", func(c *Config) { c.Storage.QuotaBytes = -1 }, false},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, false},
		{"log level case", func(c *Config) { c.Logging.Level = "DEBUG" }, true},
		{"misspelled log level", func(c *Config) { c.Logging.Level = "dbug" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, tadaerrors.Is(err, tadaerrors.ErrCodeConfigInvalid), "got %v", err)
			}
		})
	}
}

func TestDataDir(t *testing.T) {
	home := isolate(t)

	dir, err := Storage{Dir: "~/todos"}.DataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "todos"), dir)

	wd, err := os.Getwd()
	require.NoError(t, err)
	dir, err = Storage{}.DataDir()
	require.NoError(t, err)
	assert.Equal(t, wd, dir)
}
