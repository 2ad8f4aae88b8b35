package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"feedagg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, config.DefaultFetchTimeout, cfg.Fetch.Timeout)
	assert.Equal(t, config.DefaultWorkers, cfg.Fetch.Workers)
	assert.Equal(t, config.DefaultDateFormat, cfg.DateFormat)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedagg.toml")
	err := os.WriteFile(path, []byte(`
date_format = "%Y-%m-%d"

[fetch]
timeout = "30s"
workers = 8

[language]
detect = true
languages = ["en", "nb"]
`), 0o644)
	require.NoError(t, err)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "%Y-%m-%d", cfg.DateFormat)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 8, cfg.Fetch.Workers)
	assert.Equal(t, config.DefaultUserAgent, cfg.Fetch.UserAgent)
	assert.Equal(t, int64(config.DefaultMaxBodyBytes), cfg.Fetch.MaxBodyBytes)
	assert.True(t, cfg.Language.Detect)
	assert.Equal(t, []string{"en", "nb"}, cfg.Language.Languages)
	assert.Equal(t, config.DefaultOutputDir, cfg.Output.Dir)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedagg.toml")
	require.NoError(t, os.WriteFile(path, []byte("[fetch\nworkers = "), 0o644))

	_, err := config.LoadConfig(path)
	assert.ErrorContains(t, err, "error parsing config file")
}
