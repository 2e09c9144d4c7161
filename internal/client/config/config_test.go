package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/travelbuddy/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := LoadDefaults()
	assert.Equal(t, "http://127.0.0.1:8080/api", cfg.APIBaseURL)
	assert.Equal(t, "travel_buddy.db", cfg.DatabasePath)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

func TestApplyJson(t *testing.T) {
	cfg := LoadDefaults()

	url := "https://api.example.com/v1"
	timeout := durationOf(t, "10s")
	applyJson(cfg, &JsonConfig{APIBaseURL: &url, RequestTimeout: &timeout})

	assert.Equal(t, "https://api.example.com/v1", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	// untouched fields keep their defaults
	assert.Equal(t, "travel_buddy.db", cfg.DatabasePath)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

func TestLoadConfig_JsonFileLayer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"api_base_url":"https://api.example.com","online_check_interval":"5s"}`), 0o600))

	restoreArgs(t, []string{"cli", "-c", path})

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_FlagsOverrideJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_base_url":"https://from-file"}`), 0o600))

	restoreArgs(t, []string{"cli", "-c", path, "-a", "https://from-flag", "-t", "7s"})

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://from-flag", cfg.APIBaseURL)
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_MissingConfigFile(t *testing.T) {
	restoreArgs(t, []string{"cli", "-c", "/nonexistent/config.json"})

	_, err := LoadConfig()
	assert.Error(t, err)
}

func durationOf(t *testing.T, s string) timex.Duration {
	t.Helper()
	parsed, err := time.ParseDuration(s)
	require.NoError(t, err)
	return timex.Duration{Duration: parsed}
}

func restoreArgs(t *testing.T, args []string) {
	t.Helper()
	old := os.Args
	os.Args = args
	t.Cleanup(func() { os.Args = old })
}
