package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration. It is constructed once at
// startup and passed by reference to the components that need it.
type Config struct {
	ServerPort   int           `env:"PORT" envDefault:"8080"`
	DatabasePath string        `env:"DATABASE_PATH" envDefault:"./crewai.db"`
	JWTSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	return cfg, nil
}
