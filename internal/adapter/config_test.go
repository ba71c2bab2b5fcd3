package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
actor:
  url: https://backend.example
  timeout: 10s
identity:
  url: https://id.example
  session_path: ""
ui:
  grid_columns: 4
  browser: firefox
logging:
  level: debug
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://backend.example", cfg.Actor.URL)
	assert.Equal(t, 10*time.Second, cfg.Actor.Timeout)
	assert.Equal(t, "https://id.example", cfg.Identity.URL)
	assert.Empty(t, cfg.Identity.SessionPath)
	assert.Equal(t, 5*time.Minute, cfg.Identity.PollTimeout)
	assert.Equal(t, 4, cfg.UI.GridColumns)
	assert.Equal(t, "firefox", cfg.UI.Browser)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.IsConfigured())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("PICKS_ACTOR_URL", "https://env.example")
	t.Setenv("PICKS_UI_GRID_COLUMNS", "0")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("actor:\n  url: https://file.example\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", cfg.Actor.URL)
	assert.Equal(t, 1, cfg.UI.GridColumns)
	assert.False(t, cfg.IsConfigured())
}

func TestLoadConfig_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("actor: [unclosed"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Actor.URL = "https://backend.example"
	cfg.Identity.URL = "https://id.example"
	cfg.Identity.PollTimeout = 90 * time.Second

	require.NoError(t, SaveConfig(cfg, dir))

	loaded, err := LoadConfig(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "WARN", parseLogLevel("warning").String())
	assert.Equal(t, "INFO", parseLogLevel("nonsense").String())
}

func TestSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "picks.log")
	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "DEBUG"})
	require.NoError(t, err)

	logger.Debug("hello", "principal", "jane")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"principal":"jane"`)
}
