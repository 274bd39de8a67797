package config

import (
	"os"
	"strconv"
	"time"

	"sheetlens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Insight  InsightConfig
	Data     DataConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds database connection settings. An empty URL switches
// the dashboard store to the in-memory implementation.
type DatabaseConfig struct {
	URL string
}

// InsightConfig holds the external insight-generation service settings
type InsightConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// DataConfig holds ingestion limits
type DataConfig struct {
	MaxUploadBytes int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Insight: InsightConfig{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Timeout:     time.Duration(getEnvInt("INSIGHT_TIMEOUT_SECONDS", 20)) * time.Second,
			MaxTokens:   getEnvInt("INSIGHT_MAX_TOKENS", 1024),
			Temperature: getEnvFloat("INSIGHT_TEMPERATURE", 0.2),
		},
		Data: DataConfig{
			MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_MB", 32)) << 20,
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for inconsistencies
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if c.Insight.Timeout <= 0 {
		return errors.ConfigInvalid("INSIGHT_TIMEOUT_SECONDS must be positive")
	}
	if c.Data.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
