package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. UPLINK_LOGGING_LEVEL.
const EnvPrefix = "UPLINK"

// setting is one overridable key and where its default lives in Config.
type setting struct {
	key string
	def func(*Config) any
}

// settings lists every key viper knows about. Unmarshal only sees
// environment variables for keys bound here.
var settings = []setting{
	{"global.data_dir", func(c *Config) any { return c.Global.DataDir }},
	{"global.config_dir", func(c *Config) any { return c.Global.ConfigDir }},
	{"database.path", func(c *Config) any { return c.Database.Path }},
	{"database.max_connections", func(c *Config) any { return c.Database.MaxConnections }},
	{"database.busy_timeout_ms", func(c *Config) any { return c.Database.BusyTimeoutMs }},
	{"logging.level", func(c *Config) any { return c.Logging.Level }},
	{"logging.format", func(c *Config) any { return c.Logging.Format }},
	{"logging.file", func(c *Config) any { return c.Logging.File }},
	{"logging.enable_caller", func(c *Config) any { return c.Logging.EnableCaller }},
	{"preview.enabled", func(c *Config) any { return c.Preview.Enabled }},
	{"preview.timeout", func(c *Config) any { return c.Preview.Timeout }},
	{"preview.max_body_bytes", func(c *Config) any { return c.Preview.MaxBodyBytes }},
	{"preview.user_agent", func(c *Config) any { return c.Preview.UserAgent }},
	{"preview.cache_size", func(c *Config) any { return c.Preview.CacheSize }},
	{"preview.failure_ttl", func(c *Config) any { return c.Preview.FailureTTL }},
	{"preview.persist", func(c *Config) any { return c.Preview.Persist }},
	{"preview.store_ttl", func(c *Config) any { return c.Preview.StoreTTL }},
	{"state.path", func(c *Config) any { return c.State.Path }},
	{"state.save_debounce", func(c *Config) any { return c.State.SaveDebounce }},
	{"locale.default", func(c *Config) any { return string(c.Locale.Default) }},
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Loader resolves a Config from defaults, an optional YAML file, dotenv
// files, the environment and explicit overrides, lowest precedence first.
type Loader struct {
	v          *viper.Viper
	configFile string
	envFiles   []string
}

// NewLoader returns a loader that reads ./.env when present.
func NewLoader() *Loader {
	return &Loader{
		v:        viper.New(),
		envFiles: []string{".env"},
	}
}

// SetConfigFile pins the config file. A pinned file that cannot be read
// fails Load; otherwise a missing config file is fine.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// SetEnvFiles replaces the dotenv files read before loading. Missing files
// are skipped and variables already in the environment win.
func (l *Loader) SetEnvFiles(paths ...string) {
	l.envFiles = paths
}

// Set overrides key above every other source.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// ConfigFileUsed returns the config file that was read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Load resolves and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	for _, path := range l.envFiles {
		if path == "" {
			continue
		}
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}

	cfg := DefaultConfig()
	l.configure(cfg)

	if err := l.readConfigFile(); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	for _, p := range []*string{
		&cfg.Global.DataDir,
		&cfg.Global.ConfigDir,
		&cfg.Database.Path,
		&cfg.Logging.File,
		&cfg.State.Path,
	} {
		*p = expandTilde(*p)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (l *Loader) configure(defaults *Config) {
	v := l.v
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "uplink"))
	}
	if home, _ := os.UserHomeDir(); home != "" {
		v.AddConfigPath(filepath.Join(home, ".config", "uplink"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, s := range settings {
		v.SetDefault(s.key, s.def(defaults))
		_ = v.BindEnv(s.key, envName(s.key))
	}
	v.AutomaticEnv()
}

func (l *Loader) readConfigFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	}
	err := l.v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && l.configFile == "" && errors.As(err, &notFound) {
		return nil
	}
	return err
}

// expandTilde expands a leading ~ to the user's home directory.
func expandTilde(path string) string {
	switch {
	case path == "~":
		home, _ := os.UserHomeDir()
		return home
	case strings.HasPrefix(path, "~/"):
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	default:
		return path
	}
}
