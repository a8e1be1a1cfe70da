// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string

	Database DatabaseConfig
	AI       AIConfig

	AMQPURL          string
	JWTSecret        string
	ClassifyInterval time.Duration
}

type DatabaseConfig struct {
	URL      string
	User     string
	Password string
	Host     string
	Port     string
	Name     string
	SSLMode  string
	Schema   string
}

// DSN prefers DATABASE_URL and falls back to the discrete DB_* variables.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

type AIConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	RatePerSec float64
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:      getEnvOrDefault("PORT", "8080"),
		LogLevel:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		AMQPURL:   os.Getenv("AMQP_URL"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			User:     getEnvOrDefault("DB_USER", "neura"),
			Password: os.Getenv("DB_PASSWORD"),
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			Name:     getEnvOrDefault("DB_NAME", "neura"),
			SSLMode:  getEnvOrDefault("DB_SSL_MODE", "disable"),
			Schema:   getEnvOrDefault("DB_SCHEMA", "public"),
		},
		AI: AIConfig{
			BaseURL: strings.TrimRight(getEnvOrDefault("AI_API_URL", "https://api.openai.com/v1"), "/"),
			APIKey:  os.Getenv("AI_API_KEY"),
			Model:   getEnvOrDefault("AI_MODEL", "gpt-4o-mini"),
		},
	}

	var err error
	if cfg.AI.Timeout, err = time.ParseDuration(getEnvOrDefault("AI_TIMEOUT", "60s")); err != nil {
		return nil, fmt.Errorf("invalid AI_TIMEOUT: %w", err)
	}
	if cfg.AI.RatePerSec, err = strconv.ParseFloat(getEnvOrDefault("AI_RATE_PER_SEC", "2"), 64); err != nil {
		return nil, fmt.Errorf("invalid AI_RATE_PER_SEC: %w", err)
	}
	if cfg.ClassifyInterval, err = time.ParseDuration(getEnvOrDefault("CLASSIFY_INTERVAL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid CLASSIFY_INTERVAL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535: %s", c.Port)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.AI.RatePerSec <= 0 {
		return fmt.Errorf("AI_RATE_PER_SEC must be positive, got: %v", c.AI.RatePerSec)
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive, got: %v", c.AI.Timeout)
	}
	if c.ClassifyInterval < time.Minute {
		return fmt.Errorf("CLASSIFY_INTERVAL must be at least 1 minute, got: %v", c.ClassifyInterval)
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
