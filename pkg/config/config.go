package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sportpulse/sportpulse/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:sportpulse.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Ingest IngestConfig `yaml:"ingest" json:"ingest" jsonschema:"description=Feed ingestion configuration"`

	Scoring ScoringConfig `yaml:"scoring" json:"scoring" jsonschema:"description=Content scoring configuration"`

	Feeds []FeedConfig `yaml:"feeds" json:"feeds" jsonschema:"description=Feed registry of RSS endpoints to poll"`
}

// IngestConfig holds feed ingestion settings
type IngestConfig struct {
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout" jsonschema:"default=10s,description=Per-feed HTTP fetch timeout"`
	MaxWorkers   int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=10,description=Maximum concurrent feed fetches"`
	PerFeedLimit int           `yaml:"per_feed_limit" json:"per_feed_limit" jsonschema:"default=3,description=Maximum articles taken per feed per cycle"`
	Retention    time.Duration `yaml:"retention" json:"retention" jsonschema:"default=48h,description=Article retention window"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=SportPulse/1.0,description=User agent for feed requests"`
}

// ScoringConfig holds scoring cycle settings
type ScoringConfig struct {
	MaxWorkers int `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,description=Maximum concurrent post scorers"`
}

// FeedConfig is one feed registry entry
type FeedConfig struct {
	URL      string `yaml:"url" json:"url" jsonschema:"required,description=Feed URL"`
	Category string `yaml:"category" json:"category" jsonschema:"default=general,description=Content category (football basketball tennis baseball general)"`
	Source   string `yaml:"source" json:"source" jsonschema:"required,description=Human-readable source name"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// set defaults for database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:sportpulse.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// set defaults for ingestion
	if cfg.Ingest.FetchTimeout == 0 {
		cfg.Ingest.FetchTimeout = 10 * time.Second
	}
	if cfg.Ingest.MaxWorkers == 0 {
		cfg.Ingest.MaxWorkers = 10
	}
	if cfg.Ingest.PerFeedLimit == 0 {
		cfg.Ingest.PerFeedLimit = 3
	}
	if cfg.Ingest.Retention == 0 {
		cfg.Ingest.Retention = 48 * time.Hour
	}
	if cfg.Ingest.UserAgent == "" {
		cfg.Ingest.UserAgent = "SportPulse/1.0"
	}

	// set defaults for scoring
	if cfg.Scoring.MaxWorkers == 0 {
		cfg.Scoring.MaxWorkers = 5
	}

	// default empty feed categories before validation
	for i := range cfg.Feeds {
		if cfg.Feeds[i].Category == "" {
			cfg.Feeds[i].Category = string(domain.CategoryGeneral)
		}
	}

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	// validate ingestion config
	if cfg.Ingest.FetchTimeout < time.Second {
		return fmt.Errorf("ingest fetch_timeout must be at least 1 second")
	}
	if cfg.Ingest.PerFeedLimit < 1 {
		return fmt.Errorf("ingest per_feed_limit must be at least 1")
	}
	if cfg.Ingest.Retention < time.Hour {
		return fmt.Errorf("ingest retention must be at least 1 hour")
	}

	// validate feed registry
	for i, f := range cfg.Feeds {
		if f.URL == "" {
			return fmt.Errorf("feeds[%d].url is required", i)
		}
		if f.Source == "" {
			return fmt.Errorf("feeds[%d].source is required", i)
		}
		if !domain.Category(f.Category).Valid() {
			return fmt.Errorf("feeds[%d].category %q is not a known category", i, f.Category)
		}
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetIngestConfig returns feed ingestion configuration
func (c *Config) GetIngestConfig() IngestConfig {
	return c.Ingest
}

// FeedRegistry converts the configured feed list to immutable domain sources
func (c *Config) FeedRegistry() []domain.FeedSource {
	registry := make([]domain.FeedSource, 0, len(c.Feeds))
	for _, f := range c.Feeds {
		registry = append(registry, domain.FeedSource{
			URL:      f.URL,
			Category: domain.Category(f.Category),
			Source:   f.Source,
		})
	}
	return registry
}
