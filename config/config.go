package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultPort                   = "8080"
	DefaultAccessTokenExpiryMin   = 15
	DefaultRefreshTokenExpiryDays = 7
)

// Config is built once in main and injected everywhere; nothing reads the
// environment after startup.
type Config struct {
	Env   string `env:"ENV" envDefault:"development"`
	Port  string `env:"PORT" envDefault:"8080"`
	DBURL string `env:"DB_URL" validate:"required"`
	JWT   JWTConfig
}

// JWTConfig carries the access-token signing settings. Key must be non-empty
// for the service to start.
type JWTConfig struct {
	Key            string `env:"JWT_KEY" validate:"required"`
	ValidIssuer    string `env:"JWT_VALID_ISSUER" envDefault:"auth-service"`
	ValidAudience  string `env:"JWT_VALID_AUDIENCE" envDefault:"auth-service"`
	ExpiresMin     int    `env:"JWT_EXPIRES_MIN" envDefault:"15" validate:"gt=0"`
	RefreshTTLDays int    `env:"REFRESH_TOKEN_EXPIRY_DAYS" envDefault:"7" validate:"gt=0"`
}

// Load parses the environment into a Config and validates required settings.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
