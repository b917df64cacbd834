package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	seekerrors "thoreinstein.com/seek/pkg/errors"
	"thoreinstein.com/seek/pkg/history"
	"thoreinstein.com/seek/pkg/search"
)

// AppName is used for config, data and env var naming.
const AppName = "seek"

// Config represents the application configuration
type Config struct {
	History HistoryConfig `mapstructure:"history" toml:"history"`
	Search  SearchConfig  `mapstructure:"search" toml:"search"`
}

// HistoryConfig holds search history persistence configuration
type HistoryConfig struct {
	Path          string `mapstructure:"path" toml:"path"`                     // History file or database
	Backend       string `mapstructure:"backend" toml:"backend"`               // "json" or "sqlite"
	MaxCount      int    `mapstructure:"max_count" toml:"max_count"`           // Capacity
	RetentionDays int    `mapstructure:"retention_days" toml:"retention_days"` // Entries older than this are dropped on load
}

// SearchConfig holds search engine configuration
type SearchConfig struct {
	Engine      string            `mapstructure:"engine" toml:"engine"`             // Default engine name
	Engines     map[string]string `mapstructure:"engines" toml:"engines,omitempty"` // Extra engines, name -> URL template with {query}
	OpenBrowser bool              `mapstructure:"open_browser" toml:"open_browser"` // false prints the URL instead
}

// ConfigDir returns the directory holding config.toml.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ConfigPath returns the default config file path.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultHistoryPath returns where history is kept when history.path is unset.
func DefaultHistoryPath() string {
	return filepath.Join(xdg.DataHome, AppName, "search_history.json")
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		History: HistoryConfig{
			Path:          DefaultHistoryPath(),
			Backend:       history.BackendJSON,
			MaxCount:      history.DefaultMaxCount,
			RetentionDays: history.DefaultRetentionDays,
		},
		Search: SearchConfig{
			Engine:      search.DefaultEngine,
			Engines:     map[string]string{},
			OpenBrowser: true,
		},
	}
}

// Load loads the configuration from file and environment variables
func Load() (*Config, error) {
	config := &Config{}

	// Set defaults
	setDefaults()

	// Unmarshal the config
	if err := viper.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	// Expand paths
	if err := expandPaths(config); err != nil {
		return nil, errors.Wrap(err, "failed to expand paths")
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return config, nil
}

// Engines returns the built-in engines overlaid with configured ones.
func (c *Config) Engines() search.Engines {
	return search.Merge(c.Search.Engines)
}

// Validate validates the configuration and returns any validation errors.
func (c *Config) Validate() error {
	if c.History.MaxCount <= 0 {
		return seekerrors.NewConfigError("history.max_count", "must be greater than zero")
	}
	if c.History.RetentionDays <= 0 {
		return seekerrors.NewConfigError("history.retention_days", "must be greater than zero")
	}
	if !history.IsValidBackend(c.History.Backend) {
		return seekerrors.NewConfigError("history.backend", "must be one of: json, sqlite")
	}

	engines := c.Engines()
	if err := engines.Validate(); err != nil {
		return err
	}
	if _, err := engines.Resolve(c.Search.Engine); err != nil {
		return seekerrors.NewConfigErrorWithCause("search.engine", "engine is not defined", err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	d := Default()

	// History defaults
	viper.SetDefault("history.path", d.History.Path)
	viper.SetDefault("history.backend", d.History.Backend)
	viper.SetDefault("history.max_count", d.History.MaxCount)
	viper.SetDefault("history.retention_days", d.History.RetentionDays)

	// Search defaults
	viper.SetDefault("search.engine", d.Search.Engine)
	viper.SetDefault("search.engines", d.Search.Engines)
	viper.SetDefault("search.open_browser", d.Search.OpenBrowser)
}

// expandPaths expands ~ and environment variables in paths
func expandPaths(config *Config) error {
	var err error

	config.History.Path, err = expandPath(os.ExpandEnv(config.History.Path))
	if err != nil {
		return err
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, path[1:]), nil
}
