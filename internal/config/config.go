package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all environmentally dependent settings for kgforager.
type Config struct {
	LogLevel  string `env:"KG_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"KG_LOG_FORMAT" envDefault:"console"`

	// Forager
	Sources            []string `env:"KG_FORAGER_SOURCES" envSeparator:","`
	ForagerTimeoutSec  int      `env:"KG_FORAGER_TIMEOUT_SEC" envDefault:"0"`
	ForagerConcurrency int      `env:"KG_FORAGER_CONCURRENCY" envDefault:"1"`
	ForagerUserAgent   string   `env:"KG_FORAGER_USER_AGENT" envDefault:"kgforager/1.0"`
	OutputPath         string   `env:"KG_FORAGER_OUTPUT_PATH"`

	// Neo4j Graph DB
	Neo4jURI      string `env:"KG_NEO4J_URI" envDefault:"neo4j://localhost:7687"`
	Neo4jUser     string `env:"KG_NEO4J_USER" envDefault:"neo4j"`
	Neo4jPassword string `env:"KG_NEO4J_PASSWORD"`
	Neo4jDatabase string `env:"KG_NEO4J_DATABASE"`
}

// ForagerTimeout is the per-request timeout. Zero means none.
func (c *Config) ForagerTimeout() time.Duration {
	return time.Duration(c.ForagerTimeoutSec) * time.Second
}

// Validate ensures that all configuration values are usable.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("KG_LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("KG_LOG_FORMAT must be console or json; got %q", c.LogFormat)
	}

	if c.ForagerTimeoutSec < 0 {
		return fmt.Errorf("KG_FORAGER_TIMEOUT_SEC cannot be negative")
	}

	if c.ForagerConcurrency < 1 {
		return fmt.Errorf("KG_FORAGER_CONCURRENCY must be at least 1")
	}

	if c.Neo4jURI == "" {
		return fmt.Errorf("KG_NEO4J_URI is required")
	}

	return nil
}

// Load reads settings from the environment (and an optional .env file).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	sources := cfg.Sources[:0]
	for _, s := range cfg.Sources {
		if s = strings.TrimSpace(s); s != "" {
			sources = append(sources, s)
		}
	}
	cfg.Sources = sources

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

var (
	cfg     *Config
	loadErr error
	once    sync.Once
)

// GetConfig loads the process-wide configuration exactly once. Later calls
// return the same Config, or the same error.
func GetConfig() (*Config, error) {
	once.Do(func() {
		cfg, loadErr = Load()
	})
	return cfg, loadErr
}
