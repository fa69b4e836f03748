package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
server:
  port: 9090
  api_key: "secret"
database:
  path: "`+dir+`/hotelier.db"
upstream:
  enabled: true
  base_url: "https://pms.example.com"
  cache_ttl_seconds: 120
refresh:
  enabled: true
  interval_minutes: 5
occupancy:
  default_total_rooms: 12
  max_range_days: 60
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort())
	assert.Equal(t, "secret", cfg.Server.APIKey)
	assert.True(t, cfg.Upstream.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.UpstreamCacheTTL())
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval())
	assert.Equal(t, 12, cfg.DefaultTotalRooms())
	assert.Equal(t, 60, cfg.MaxRangeDays())
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
database:
  path: "`+dir+`/hotelier.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort())
	assert.Equal(t, 5, cfg.DefaultTotalRooms())
	assert.Equal(t, 90, cfg.MaxRangeDays())
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval())
	assert.Equal(t, time.Duration(0), cfg.UpstreamCacheTTL())
}

func TestLoadExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("HOTELIER_TEST_KEY", "from-env")

	dir := t.TempDir()
	path := writeConfig(t, `
server:
  api_key: "${HOTELIER_TEST_KEY}"
database:
  path: "`+dir+`/hotelier.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Server.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
