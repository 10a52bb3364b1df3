package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/deepgram/assistant/internal/config"
	"github.com/deepgram/assistant/internal/services/session"
	"github.com/deepgram/assistant/pkg/httpext"
	"github.com/deepgram/assistant/pkg/ratelimit"
	"github.com/rs/zerolog/log"
)

func RateLimit(limitKey string, limits config.RateLimitsConfig) func(http.Handler) http.Handler {
	return RateLimitWithConfig(limitKey, limits.For(limitKey))
}

func RateLimitWithConfig(limitKey string, cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	limiter := ratelimit.NewLimiter(cfg.Window, cfg.MaxHits)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			key := clientKey(r)
			if !limiter.Allow(key) {
				log.Warn().
					Str("client", key).
					Str("limit", limitKey).
					Msg("Rate limit exceeded")
				httpext.JsonErrorWithDetails(w, http.StatusTooManyRequests, httpext.ErrorResponse{
					Error:     "Rate limit exceeded",
					Retryable: true,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey buckets by session when one is attached, otherwise by client
// address.
func clientKey(r *http.Request) string {
	if claims, ok := session.FromContext(r.Context()); ok {
		return "session:" + claims.SessionID
	}

	// Use X-Forwarded-For if behind proxy, otherwise remote address
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return "ip:" + strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
