package config

import (
	"errors"
	"time"
)

// Rate-limited route groups.
const (
	RateLimitChatCompletion = "chat_completion"
	RateLimitGenerate       = "generate"
	RateLimitSession        = "session"
)

// RateLimitConfig is the budget of one route group: MaxHits requests per
// Window for each client.
type RateLimitConfig struct {
	Enabled bool
	MaxHits int
	Window  time.Duration
}

// RateLimitsConfig holds the budgets of every limited route group. Limits
// are off unless RATELIMIT_ENABLED is set.
type RateLimitsConfig struct {
	Enabled        bool          `env:"RATELIMIT_ENABLED" envDefault:"false"`
	Window         time.Duration `env:"RATELIMIT_WINDOW" envDefault:"1m"`
	ChatCompletion int           `env:"RATELIMIT_CHAT_COMPLETION" envDefault:"120"`
	Generate       int           `env:"RATELIMIT_GENERATE" envDefault:"30"`
	Session        int           `env:"RATELIMIT_SESSION" envDefault:"60"`
}

// For returns the budget of a route group. Unknown groups are never limited.
func (c RateLimitsConfig) For(key string) RateLimitConfig {
	var hits int
	switch key {
	case RateLimitChatCompletion:
		hits = c.ChatCompletion
	case RateLimitGenerate:
		hits = c.Generate
	case RateLimitSession:
		hits = c.Session
	default:
		return RateLimitConfig{}
	}
	return RateLimitConfig{Enabled: c.Enabled, MaxHits: hits, Window: c.Window}
}

func (c RateLimitsConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	var errs []error
	if c.Window <= 0 {
		errs = append(errs, errors.New("RATELIMIT_WINDOW must be positive"))
	}
	if c.ChatCompletion <= 0 {
		errs = append(errs, errors.New("RATELIMIT_CHAT_COMPLETION must be positive"))
	}
	if c.Generate <= 0 {
		errs = append(errs, errors.New("RATELIMIT_GENERATE must be positive"))
	}
	if c.Session <= 0 {
		errs = append(errs, errors.New("RATELIMIT_SESSION must be positive"))
	}
	return errors.Join(errs...)
}
