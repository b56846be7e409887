package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Feed source names accepted by FEED_SOURCE.
const (
	SourceStatic   = "static"
	SourceSheets   = "sheets"
	SourceXLSX     = "xlsx"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// envFiles are loaded in order; variables already set are never overridden.
var envFiles = []string{".env.local", ".env"}

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Feed     FeedConfig
	Google   GoogleConfig
	S3       S3Config
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string `default:"0.0.0.0"`
	Port int    `default:"8080"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string `default:"localhost"`
	Port            int    `default:"5432"`
	User            string `default:"postgres"`
	Password        string
	Name            string `default:"retrohunt"`
	MaxConnections  int    `split_words:"true" default:"10"`
	MinConnections  int    `split_words:"true" default:"1"`
	MaxConnLifetime int    `split_words:"true" default:"300"` // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `default:"info"`
	Format string `default:"json"` // "json" or "console"
}

// AuthConfig holds authentication configuration. An empty key disables auth.
type AuthConfig struct {
	APIKey string `split_words:"true"`
}

// FeedConfig selects and configures the product feed.
type FeedConfig struct {
	Source   string
	XLSXPath string `split_words:"true" default:"data/feed.xlsx"`
	Table    string `default:"feed_items"`
}

// GoogleConfig holds the service account and sheet used by the sheets source.
// Missing values are reported when the feed is fetched, not at startup.
type GoogleConfig struct {
	ServiceAccountEmail string `split_words:"true"`
	PrivateKey          string `split_words:"true"`
	SheetID             string `split_words:"true"`
	SheetTitle          string `split_words:"true" default:"Items"`
}

// S3Config holds AWS S3 configuration for the feed workbook.
type S3Config struct {
	Bucket string
	Region string `default:"us-east-1"`
	Key    string `default:"feed/items.xlsx"`
}

// Load loads configuration from .env files and environment variables.
func Load() (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := &Config{}
	sections := []struct {
		prefix string
		spec   any
	}{
		{"SERVER", &cfg.Server},
		{"DB", &cfg.Database},
		{"LOG", &cfg.Logger},
		{"", &cfg.Auth},
		{"FEED", &cfg.Feed},
		{"GOOGLE", &cfg.Google},
		{"S3", &cfg.S3},
	}
	for _, section := range sections {
		if err := envconfig.Process(section.prefix, section.spec); err != nil {
			return nil, fmt.Errorf("failed to process environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// FeedSource returns the configured source, resolving the empty value to
// sheets when a sheet id is set and to static otherwise.
func (c *Config) FeedSource() string {
	if c.Feed.Source != "" {
		return c.Feed.Source
	}
	if c.Google.SheetID != "" {
		return SourceSheets
	}
	return SourceStatic
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	switch c.FeedSource() {
	case SourceStatic, SourceSheets:
	case SourceXLSX:
		if c.Feed.XLSXPath == "" {
			return fmt.Errorf("feed xlsx path is required for the xlsx source")
		}
	case SourceS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required for the s3 source")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required for the s3 source")
		}
		if c.S3.Key == "" {
			return fmt.Errorf("S3 key is required for the s3 source")
		}
	case SourcePostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid feed source: %s (must be static, sheets, xlsx, s3, or postgres)", c.Feed.Source)
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Name == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
