// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all server configuration
type Config struct {
	// HTTP server
	Host            string        `env:"PALABRA_HOST" envDefault:""`
	Port            int           `env:"PALABRA_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"PALABRA_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"PALABRA_WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"PALABRA_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Logging
	LogLevel string `env:"PALABRA_LOG_LEVEL" envDefault:"info"`

	// Storage
	StorageType string        `env:"PALABRA_STORAGE" envDefault:"memory"`
	RedisURL    string        `env:"PALABRA_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SessionTTL  time.Duration `env:"PALABRA_SESSION_TTL" envDefault:"24h"`

	// Content provider
	ProviderType string `env:"PALABRA_PROVIDER" envDefault:""`
	GeminiAPIKey string `env:"GEMINI_API_KEY" envDefault:""`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

// Load reads configuration from a .env file (if present) and the
// environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
