package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is the full runtime configuration of the service, read from the
// environment (and a .env file when present, see cmd).
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty       bool          `env:"LOG_PRETTY" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	OpenAI    OpenAIConfig
	Redis     RedisConfig
	Session   SessionConfig
	RateLimit RateLimitsConfig
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings required to serve traffic.
func (c *Config) Validate() error {
	var errs []error
	if c.OpenAI.Key == "" {
		errs = append(errs, errors.New("OPENAI_KEY environment variable not set"))
	}
	if c.Session.Lifetime <= 0 {
		errs = append(errs, errors.New("SESSION_LIFETIME must be positive"))
	}
	if len(c.Session.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	if err := c.RateLimit.validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
