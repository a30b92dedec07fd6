package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "2014-01-01", cfg.Screen.Start)
	assert.Equal(t, 100, cfg.Screen.VolumeWindow)
	assert.Equal(t, "all", cfg.Screen.Trend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
data_source:
  provider: polygon
cache:
  backend: redis
  redis_addr: localhost:6379
  ttl: 6h
screen:
  start: "2023-01-02"
  end: "2023-12-29"
  workers: 3
  strategy: ema-trend
  trend: bullish
log:
  format: console
  max_size_mb: 5
`)
	t.Setenv("POLYGON_API_KEY", "pk")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("SCREEN_WORKERS", "6")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pk", cfg.DataSource.PolygonAPIKey)
	assert.Equal(t, 6*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 6, cfg.Screen.Workers)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 5, cfg.Log.MaxSizeMB)
	assert.True(t, cfg.TelegramEnabled())
	require.NoError(t, cfg.Validate())

	start, end, err := cfg.ScreenRange()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC), end)
}

func TestLoadBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "screen: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"polygon without key", func(c *Config) { c.DataSource.Provider = "polygon" }},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis" }},
		{"bad start date", func(c *Config) { c.Screen.Start = "01/02/2023" }},
		{"end before start", func(c *Config) { c.Screen.End = "2013-12-31" }},
		{"unknown trend", func(c *Config) { c.Screen.Trend = "sideways" }},
		{"price bounds swapped", func(c *Config) { c.Screen.MinPrice, c.Screen.MaxPrice = 500, 100 }},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "t" }},
		{"zero workers", func(c *Config) { c.Screen.Workers = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, DefaultPath, Path())
	t.Setenv("CONFIG_PATH", "/etc/screener.yaml")
	assert.Equal(t, "/etc/screener.yaml", Path())
}
