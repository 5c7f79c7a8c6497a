package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Copy       CopyConfig
	Extensions ExtensionsConfig
	Logging    LogConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string   `envconfig:"PORT" default:"8000"`
	Host        string   `envconfig:"HOST" default:"127.0.0.1"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS"`
}

// StorageConfig locates the application data folder.
type StorageConfig struct {
	// DataDir overrides the platform local-data directory
	DataDir string `envconfig:"AIOP_DATA_DIR"`
	// LegacyErrors makes list/read/write degrade instead of failing
	LegacyErrors bool `envconfig:"FS_LEGACY_ERRORS" default:"true"`
}

// CopyConfig controls directory tree copies.
type CopyConfig struct {
	IncludeHidden      bool     `envconfig:"COPY_INCLUDE_HIDDEN" default:"false"`
	RespectIgnoreFiles bool     `envconfig:"COPY_RESPECT_IGNORE_FILES" default:"true"`
	Ignore             []string `envconfig:"COPY_IGNORE"`
}

// ExtensionsConfig controls extension installs.
type ExtensionsConfig struct {
	Validate         bool          `envconfig:"EXTENSIONS_VALIDATE" default:"false"`
	Sanitize         bool          `envconfig:"ENTRY_SANITIZE" default:"false"`
	DownloadTimeout  time.Duration `envconfig:"EXTENSIONS_DOWNLOAD_TIMEOUT" default:"60s"`
	DownloadRetries  int           `envconfig:"EXTENSIONS_DOWNLOAD_RETRIES" default:"3"`
	MaxDownloadBytes int64         `envconfig:"EXTENSIONS_MAX_DOWNLOAD" default:"268435456"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "127.0.0.1",
		},
		Storage: StorageConfig{
			LegacyErrors: true,
		},
		Copy: CopyConfig{
			IncludeHidden:      false,
			RespectIgnoreFiles: true,
		},
		Extensions: ExtensionsConfig{
			DownloadTimeout:  60 * time.Second,
			DownloadRetries:  3,
			MaxDownloadBytes: 256 << 20,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Address returns host:port for the HTTP listener.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
