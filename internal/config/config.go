// Package config loads tada settings from defaults, a TOML or YAML file and
// TADA_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	tadaerrors "github.com/idilsaglam/tada/internal/errors"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	DefaultTodosKey   = "todos"
	DefaultCreatedKey = "todos-created"
	DefaultSQLiteFile = "todos.db"
	DefaultLogLevel   = "warn"
	DefaultTheme      = "classic"

	configDirName  = ".tada"
	configFileName = "config.toml"
)

// Config is the full application configuration.
type Config struct {
	Storage Storage `toml:"storage" yaml:"storage"`
	Logging Logging `toml:"logging" yaml:"logging"`
	UI      UI      `toml:"ui" yaml:"ui"`
}

// Storage selects and tunes the key-value backend.
type Storage struct {
	Backend      string `toml:"backend" yaml:"backend"`
	Dir          string `toml:"dir" yaml:"dir"` // empty means the working directory
	SQLiteFile   string `toml:"sqlite_file" yaml:"sqlite_file"`
	TodosKey     string `toml:"todos_key" yaml:"todos_key"`
	CreatedKey   string `toml:"created_key" yaml:"created_key"`
	TrackCreated bool   `toml:"track_created" yaml:"track_created"`
	AutoPersist  bool   `toml:"auto_persist" yaml:"auto_persist"`
	QuotaBytes   int    `toml:"quota_bytes" yaml:"quota_bytes"` // 0 disables the quota
}

// Logging configures the logrus loggers.
type Logging struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // text | json
	File   string `toml:"file" yaml:"file"`
}

// UI configures terminal rendering.
type UI struct {
	Theme string `toml:"theme" yaml:"theme"`
	Group bool   `toml:"group" yaml:"group"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Storage: Storage{
			Backend:      BackendFile,
			SQLiteFile:   DefaultSQLiteFile,
			TodosKey:     DefaultTodosKey,
			CreatedKey:   DefaultCreatedKey,
			TrackCreated: true,
			AutoPersist:  true,
		},
		Logging: Logging{
			Level:  DefaultLogLevel,
			Format: "text",
		},
		UI: UI{
			Theme: DefaultTheme,
		},
	}
}

// Load builds the configuration. An explicit path must exist; otherwise
// TADA_CONFIG and then ~/.tada/config.toml are tried and may be absent.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("TADA_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = defaultPath()
	}

	if path != "" {
		err := loadFile(&cfg, path)
		if err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDirName, configFileName)
}

// loadFile decodes path over cfg so that absent keys keep their defaults.
func loadFile(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		b, err := os.ReadFile(path)
		if err != nil {
			return tadaerrors.Wrap(err, tadaerrors.ErrCodeConfigInvalid, "read "+path)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return tadaerrors.Wrap(err, tadaerrors.ErrCodeConfigInvalid, "parse "+path)
		}
	default:
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return tadaerrors.Wrap(err, tadaerrors.ErrCodeConfigInvalid, "read "+path)
			}
			return tadaerrors.Wrap(err, tadaerrors.ErrCodeConfigInvalid, "parse "+path)
		}
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("TADA_BACKEND")); v != "" {
		cfg.Storage.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("TADA_DATA_DIR")); v != "" {
		cfg.Storage.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv("TADA_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("TADA_THEME")); v != "" {
		cfg.UI.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv("TADA_QUOTA_BYTES")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return tadaerrors.ConfigInvalid("TADA_QUOTA_BYTES: " + err.Error())
		}
		cfg.Storage.QuotaBytes = n
	}
	return nil
}

// Validate checks field values, normalizing case where it is harmless.
func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return tadaerrors.ConfigInvalid(fmt.Sprintf("unknown storage backend %q", c.Storage.Backend)).
			WithDetail("backend", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.TodosKey) == "" {
		return tadaerrors.ConfigInvalid("storage.todos_key is empty")
	}
	if c.Storage.TrackCreated && strings.TrimSpace(c.Storage.CreatedKey) == "" {
		return tadaerrors.ConfigInvalid("storage.created_key is empty")
	}
	if c.Storage.TodosKey == c.Storage.CreatedKey {
		return tadaerrors.ConfigInvalid("storage.todos_key and storage.created_key must differ")
	}
	if c.Storage.QuotaBytes < 0 {
		return tadaerrors.ConfigInvalid("storage.quota_bytes must not be negative")
	}
	if c.Logging.Level != "" {
		if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
			return tadaerrors.ConfigInvalid(fmt.Sprintf("unknown log level %q", c.Logging.Level)).
				WithDetail("level", c.Logging.Level)
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return tadaerrors.ConfigInvalid(fmt.Sprintf("unknown log format %q", c.Logging.Format))
	}
	return nil
}

// DataDir resolves the storage directory, defaulting to the working directory.
func (s Storage) DataDir() (string, error) {
	if s.Dir != "" {
		return expandHome(s.Dir), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return wd, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
