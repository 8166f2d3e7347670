package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Features.Window)
	assert.Equal(t, 1e-6, cfg.Features.Epsilon)
	assert.Equal(t, []string{"2019-20", "2020-21", "2021-22", "2022-23", "2023-24", "2024-25"}, cfg.Features.Seasons)
	assert.Equal(t, StorageMemory, cfg.Storage.Mode)

	fc := cfg.FeatureConfig()
	assert.NoError(t, fc.Validate())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
features:
  window: 5
  seasons: ["2021-22"]
stats_api:
  timeout: 5s
logging:
  level: debug
`), 0o644))

	t.Setenv("MATCHUP_FEATURES_WINDOW", "7")
	t.Setenv("MATCHUP_FEATURES_EPSILON", "0.001")
	t.Setenv("MATCHUP_LOGGING_FORMAT", "text")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Features.Window, "env wins over file")
	assert.Equal(t, 0.001, cfg.Features.Epsilon)
	assert.Equal(t, []string{"2021-22"}, cfg.Features.Seasons, "file wins over default")
	assert.Equal(t, 5*time.Second, cfg.StatsAPI.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 3, cfg.StatsAPI.MaxRetries, "untouched default")
}

func TestLoad_FileFromEnvVar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  dir: reports\n"), 0o644))
	t.Setenv(FileEnvVar, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "reports", cfg.Output.Dir)
}

func TestLoad_SeasonsList(t *testing.T) {
	t.Setenv("MATCHUP_FEATURES_SEASONS", "2022-23,2023-24")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"2022-23", "2023-24"}, cfg.Features.Seasons)
}

func TestLoad_UnknownYAMLKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("features:\n  windw: 3\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero window", func(c *Config) { c.Features.Window = 0 }},
		{"zero epsilon", func(c *Config) { c.Features.Epsilon = 0 }},
		{"bad season", func(c *Config) { c.Features.Seasons = []string{"2021"} }},
		{"no seasons", func(c *Config) { c.Features.Seasons = nil }},
		{"bad storage mode", func(c *Config) { c.Storage.Mode = "mongo" }},
		{"postgres without dsn", func(c *Config) { c.Storage.Mode = StoragePostgres }},
		{"sqlite without path", func(c *Config) {
			c.Storage.Mode = StorageSQLite
			c.Storage.SQLitePath = ""
		}},
		{"cache without addr", func(c *Config) {
			c.Cache.Enabled = true
			c.Cache.Addr = ""
		}},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad base url", func(c *Config) { c.StatsAPI.BaseURL = "not a url" }},
		{"bad metrics addr", func(c *Config) { c.Metrics.Addr = "nine" }},
		{"unpaired ratio above one", func(c *Config) { c.Features.MaxUnpairedRatio = 1.5 }},
		{"bad test season", func(c *Config) { c.Model.TestSeasons = []string{"x"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_PostgresWithDSNs(t *testing.T) {
	cfg := Default()
	cfg.Storage.Mode = StoragePostgres
	cfg.Storage.PostgresDSN = "postgres://u:p@localhost:5432/db"
	cfg.Storage.ClickHouseDSN = "clickhouse://localhost:9000/default"
	cfg.Metrics.Addr = ":9090"
	assert.NoError(t, cfg.Validate())
}
