package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/uplink/internal/models"
)

func isolatedLoader(t *testing.T) *Loader {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Chdir(t.TempDir())
	l := NewLoader()
	l.SetEnvFiles()
	return l
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate("en-US", "es-MX"))
	assert.True(t, cfg.Preview.Enabled)
	assert.Equal(t, models.DefaultLanguage, cfg.Locale.Default)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"max connections", func(c *Config) { c.Database.MaxConnections = 0 }, "database.max_connections"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"preview timeout", func(c *Config) { c.Preview.Timeout = 0 }, "preview.timeout"},
		{"body limit", func(c *Config) { c.Preview.MaxBodyBytes = -1 }, "preview.max_body_bytes"},
		{"cache size", func(c *Config) { c.Preview.CacheSize = 0 }, "preview.cache_size"},
		{"store ttl", func(c *Config) { c.Preview.StoreTTL = 0 }, "preview.store_ttl"},
		{"debounce", func(c *Config) { c.State.SaveDebounce = -time.Second }, "state.save_debounce"},
		{"unknown locale", func(c *Config) { c.Locale.Default = "fr-FR" }, "locale.default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate("en-US", "es-MX")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStoreTTLIgnoredWithoutPersist(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Preview.Persist = false
	cfg.Preview.StoreTTL = 0
	require.NoError(t, cfg.Validate())
}

func TestPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Global.DataDir = "/data"
	cfg.Global.ConfigDir = "/conf"

	assert.Equal(t, "/data/uplink.db", cfg.DatabasePath())
	assert.Equal(t, "/data/state.json", cfg.StatePath())
	assert.Equal(t, "/conf/identity.yaml", cfg.IdentityPath())

	cfg.State.Path = "-"
	assert.Equal(t, "", cfg.StatePath())
	cfg.Database.Path = "/tmp/x.db"
	assert.Equal(t, "/tmp/x.db", cfg.DatabasePath())
}

func TestLoaderReadsFileAndEnv(t *testing.T) {
	l := isolatedLoader(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
logging:
  level: debug
preview:
  cache_size: 64
  timeout: 3s
locale:
  default: es-MX
`), 0o644))
	t.Setenv("UPLINK_PREVIEW_CACHE_SIZE", "128")

	l.SetConfigFile(file)
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 128, cfg.Preview.CacheSize)
	assert.Equal(t, 3*time.Second, cfg.Preview.Timeout)
	assert.Equal(t, models.Language("es-MX"), cfg.Locale.Default)
	assert.Equal(t, file, l.ConfigFileUsed())
}

func TestLoaderReadsDotenv(t *testing.T) {
	l := isolatedLoader(t)
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("UPLINK_LOGGING_FORMAT=json\n"), 0o644))
	t.Setenv("UPLINK_LOGGING_FORMAT", "")
	require.NoError(t, os.Unsetenv("UPLINK_LOGGING_FORMAT"))

	l.SetEnvFiles(envFile, filepath.Join(t.TempDir(), "missing.env"))
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoaderMissingExplicitFile(t *testing.T) {
	l := isolatedLoader(t)
	l.SetConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := l.Load()
	require.Error(t, err)
}

func TestLoaderRejectsInvalid(t *testing.T) {
	l := isolatedLoader(t)
	t.Setenv("UPLINK_LOGGING_FORMAT", "xml")
	_, err := l.Load()
	require.ErrorContains(t, err, "logging.format")
}

func TestSettingsCoverEnvNames(t *testing.T) {
	assert.Equal(t, "UPLINK_PREVIEW_MAX_BODY_BYTES", envName("preview.max_body_bytes"))

	seen := map[string]bool{}
	defaults := DefaultConfig()
	for _, s := range settings {
		assert.False(t, seen[s.key], "duplicate key %s", s.key)
		seen[s.key] = true
		assert.NotNil(t, s.def(defaults), s.key)
	}
}

func TestExpandTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, home, expandTilde("~"))
	assert.Equal(t, filepath.Join(home, "x"), expandTilde("~/x"))
	assert.Equal(t, "/abs", expandTilde("/abs"))
	assert.Equal(t, "", expandTilde(""))
}

func TestIdentityStore(t *testing.T) {
	store := NewIdentityStore(filepath.Join(t.TempDir(), "nested", "identity.yaml"))

	empty, err := store.Load()
	require.NoError(t, err)
	require.True(t, empty.IsEmpty())
	require.Equal(t, "(no identity)", empty.String())

	first, err := store.Ensure()
	require.NoError(t, err)
	require.False(t, first.IsEmpty())
	require.Contains(t, first.Peer.String(), "did:uplink:")

	again, err := store.Ensure()
	require.NoError(t, err)
	require.Equal(t, first.Peer, again.Peer)

	again.Username = "alice"
	require.NoError(t, store.Save(again))
	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "alice", loaded.Username)
	require.Contains(t, loaded.String(), "alice (")

	require.ErrorIs(t, store.Save(&Identity{}), models.ErrInvalidPeer)
}
