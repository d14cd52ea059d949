package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportpulse/sportpulse/pkg/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
server:
  listen: ":9090"
  timeout: 15s
database:
  dsn: "file:test.db?mode=rwc"
ingest:
  fetch_timeout: 5s
  max_workers: 3
  per_feed_limit: 2
  retention: 24h
  user_agent: "TestAgent/1.0"
scoring:
  max_workers: 2
feeds:
  - url: https://example.com/football.xml
    category: football
    source: Example FC
  - url: https://example.com/news.xml
    source: Example News
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 15*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "file:test.db?mode=rwc", cfg.Database.DSN)
		assert.Equal(t, 5*time.Second, cfg.Ingest.FetchTimeout)
		assert.Equal(t, 3, cfg.Ingest.MaxWorkers)
		assert.Equal(t, 2, cfg.Ingest.PerFeedLimit)
		assert.Equal(t, 24*time.Hour, cfg.Ingest.Retention)
		assert.Equal(t, "TestAgent/1.0", cfg.Ingest.UserAgent)
		assert.Equal(t, 2, cfg.Scoring.MaxWorkers)

		require.Len(t, cfg.Feeds, 2)
		assert.Equal(t, "football", cfg.Feeds[0].Category)
		assert.Equal(t, "general", cfg.Feeds[1].Category, "missing category defaults to general")
	})

	t.Run("defaults", func(t *testing.T) {
		path := writeConfig(t, "server:\n  listen: \":8080\"\n")
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.Equal(t, 10*time.Second, cfg.Ingest.FetchTimeout)
		assert.Equal(t, 10, cfg.Ingest.MaxWorkers)
		assert.Equal(t, 3, cfg.Ingest.PerFeedLimit)
		assert.Equal(t, 48*time.Hour, cfg.Ingest.Retention)
		assert.Equal(t, "SportPulse/1.0", cfg.Ingest.UserAgent)
		assert.Equal(t, 5, cfg.Scoring.MaxWorkers)
		assert.Contains(t, cfg.Database.DSN, "sportpulse.db")
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("TEST_LISTEN_ADDR", ":7070")
		path := writeConfig(t, "server:\n  listen: \"${TEST_LISTEN_ADDR}\"\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":7070", cfg.Server.Listen)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "server: [not a map\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("invalid category", func(t *testing.T) {
		path := writeConfig(t, `
feeds:
  - url: https://example.com/feed.xml
    category: cricket
    source: Example
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a known category")
	})

	t.Run("feed without url", func(t *testing.T) {
		path := writeConfig(t, `
feeds:
  - category: football
    source: Example
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "url is required")
	})

	t.Run("feed without source", func(t *testing.T) {
		path := writeConfig(t, `
feeds:
  - url: https://example.com/feed.xml
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "source is required")
	})
}

func TestConfig_FeedRegistry(t *testing.T) {
	path := writeConfig(t, `
feeds:
  - url: https://example.com/nba.xml
    category: basketball
    source: Example NBA
  - url: https://example.com/misc.xml
    source: Example Misc
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	registry := cfg.FeedRegistry()
	require.Len(t, registry, 2)
	assert.Equal(t, domain.FeedSource{URL: "https://example.com/nba.xml", Category: domain.CategoryBasketball, Source: "Example NBA"}, registry[0])
	assert.Equal(t, domain.CategoryGeneral, registry[1].Category)
}

func TestConfig_GetServerConfig(t *testing.T) {
	path := writeConfig(t, "server:\n  listen: \":8081\"\n  timeout: 20s\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":8081", listen)
	assert.Equal(t, 20*time.Second, timeout)
}
