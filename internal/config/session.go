package config

import "time"

// SessionConfig configures the anonymous session cookie.
type SessionConfig struct {
	// JWTSecret signs the session cookie. In production, set JWT_SECRET.
	JWTSecret    string        `env:"JWT_SECRET" envDefault:"change-me-in-production-please"`
	CookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"assistant_session"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"true"`
	Lifetime     time.Duration `env:"SESSION_LIFETIME" envDefault:"24h"`
}
