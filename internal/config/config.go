// Package config handles uplink configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tOgg1/uplink/internal/models"
)

// Config is the root configuration structure for uplink.
type Config struct {
	// Global settings
	Global GlobalConfig `yaml:"global" mapstructure:"global"`

	// Database settings
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// Link preview settings
	Preview PreviewConfig `yaml:"preview" mapstructure:"preview"`

	// Shared application state persistence
	State StateConfig `yaml:"state" mapstructure:"state"`

	// Locale settings
	Locale LocaleConfig `yaml:"locale" mapstructure:"locale"`
}

// GlobalConfig contains global uplink settings.
type GlobalConfig struct {
	// DataDir is where uplink stores its data (default: ~/.local/share/uplink).
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	// ConfigDir is where config files are stored (default: ~/.config/uplink).
	ConfigDir string `yaml:"config_dir" mapstructure:"config_dir"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	// Path is the SQLite database file path.
	Path string `yaml:"path" mapstructure:"path"`

	// MaxConnections is the maximum number of database connections.
	MaxConnections int `yaml:"max_connections" mapstructure:"max_connections"`

	// BusyTimeout is how long to wait for a locked database (milliseconds).
	BusyTimeoutMs int `yaml:"busy_timeout_ms" mapstructure:"busy_timeout_ms"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// File is an optional log file path.
	File string `yaml:"file" mapstructure:"file"`

	// EnableCaller adds caller information to logs.
	EnableCaller bool `yaml:"enable_caller" mapstructure:"enable_caller"`
}

// PreviewConfig controls link preview fetching.
type PreviewConfig struct {
	// Enabled turns preview fetching on.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Timeout bounds a single page fetch.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// MaxBodyBytes caps how much of a page is read.
	MaxBodyBytes int64 `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`

	// UserAgent is sent with preview requests.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// CacheSize is the number of message texts memoized in memory.
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size"`

	// FailureTTL is how long a failed fetch is remembered before retrying.
	FailureTTL time.Duration `yaml:"failure_ttl" mapstructure:"failure_ttl"`

	// Persist stores fetched previews in the database.
	Persist bool `yaml:"persist" mapstructure:"persist"`

	// StoreTTL is how long persisted previews stay valid.
	StoreTTL time.Duration `yaml:"store_ttl" mapstructure:"store_ttl"`
}

// StateConfig contains application state persistence settings.
type StateConfig struct {
	// Path is the state file (default: DataDir/state.json). Use "-" to disable.
	Path string `yaml:"path" mapstructure:"path"`

	// SaveDebounce coalesces rapid state changes into one write.
	SaveDebounce time.Duration `yaml:"save_debounce" mapstructure:"save_debounce"`
}

// LocaleConfig contains locale settings.
type LocaleConfig struct {
	// Default is the language used until one is selected.
	Default models.Language `yaml:"default" mapstructure:"default"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Global: GlobalConfig{
			DataDir:   filepath.Join(homeDir, ".local", "share", "uplink"),
			ConfigDir: filepath.Join(homeDir, ".config", "uplink"),
		},
		Database: DatabaseConfig{
			Path:           "", // Will be set to DataDir/uplink.db
			MaxConnections: 10,
			BusyTimeoutMs:  5000,
		},
		Logging: LoggingConfig{
			Level:        "info",
			Format:       "console",
			EnableCaller: false,
		},
		Preview: PreviewConfig{
			Enabled:      true,
			Timeout:      10 * time.Second,
			MaxBodyBytes: 2 << 20,
			UserAgent:    "uplink-preview/1.0",
			CacheSize:    512,
			FailureTTL:   5 * time.Minute,
			Persist:      true,
			StoreTTL:     24 * time.Hour,
		},
		State: StateConfig{
			SaveDebounce: 250 * time.Millisecond,
		},
		Locale: LocaleConfig{
			Default: models.DefaultLanguage,
		},
	}
}

// Validate checks if the configuration is valid. languages lists the
// supported locales; nil skips the locale check.
func (c *Config) Validate(languages ...models.Language) error {
	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database.max_connections must be at least 1")
	}
	if c.Database.BusyTimeoutMs < 0 {
		return fmt.Errorf("database.busy_timeout_ms must not be negative")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be one of console, json")
	}

	if c.Preview.Timeout <= 0 {
		return fmt.Errorf("preview.timeout must be positive")
	}
	if c.Preview.MaxBodyBytes <= 0 {
		return fmt.Errorf("preview.max_body_bytes must be positive")
	}
	if c.Preview.CacheSize < 1 {
		return fmt.Errorf("preview.cache_size must be at least 1")
	}
	if c.Preview.FailureTTL < 0 {
		return fmt.Errorf("preview.failure_ttl must not be negative")
	}
	if c.Preview.Persist && c.Preview.StoreTTL <= 0 {
		return fmt.Errorf("preview.store_ttl must be positive when preview.persist is set")
	}

	if c.State.SaveDebounce < 0 {
		return fmt.Errorf("state.save_debounce must not be negative")
	}

	if c.Locale.Default == "" {
		return fmt.Errorf("locale.default is required")
	}
	if len(languages) > 0 && !containsLanguage(languages, c.Locale.Default) {
		return fmt.Errorf("locale.default %q is not a supported language", c.Locale.Default)
	}

	return nil
}

func containsLanguage(list []models.Language, lang models.Language) bool {
	for _, l := range list {
		if l == lang {
			return true
		}
	}
	return false
}

// EnsureDirectories creates required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Global.DataDir,
		c.Global.ConfigDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// DatabasePath returns the full database path.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(c.Global.DataDir, "uplink.db")
}

// StatePath returns the state file path, or "" when persistence is off.
func (c *Config) StatePath() string {
	switch c.State.Path {
	case "-":
		return ""
	case "":
		return filepath.Join(c.Global.DataDir, "state.json")
	default:
		return c.State.Path
	}
}

// IdentityPath returns the local identity file path.
func (c *Config) IdentityPath() string {
	return filepath.Join(c.Global.ConfigDir, "identity.yaml")
}
