package middleware

import (
	"net/http"

	"github.com/deepgram/assistant/internal/config"
	"github.com/deepgram/assistant/internal/services/session"
	"github.com/deepgram/assistant/pkg/httpext"
	"github.com/deepgram/assistant/pkg/ratelimit"
	"github.com/rs/zerolog/log"
)

// EnsureSession attaches the request's session to its context, starting a
// new anonymous session when there is none. creation bounds how many
// sessions one client address may start per window.
func EnsureSession(sessionService *session.Service, creation config.RateLimitConfig) func(http.Handler) http.Handler {
	limiter := ratelimit.NewLimiter(creation.Window, creation.MaxHits)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := sessionService.ValidateSession(r)
			if err != nil {
				log.Error().Err(err).Str("path", r.URL.Path).Msg("Session lookup failed")
				httpext.JsonError(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			if claims == nil {
				if creation.Enabled && !limiter.Allow(clientKey(r)) {
					log.Warn().Str("client", clientKey(r)).Msg("Session creation limit exceeded")
					httpext.JsonErrorWithDetails(w, http.StatusTooManyRequests, httpext.ErrorResponse{
						Error:     "Rate limit exceeded",
						Retryable: true,
					})
					return
				}

				claims, err = sessionService.CreateSession(r.Context(), w)
				if err != nil {
					log.Error().Err(err).Msg("Failed to create session")
					httpext.JsonError(w, "Internal server error", http.StatusInternalServerError)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(session.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireSession rejects requests without a valid session cookie.
func RequireSession(sessionService *session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := sessionService.ValidateSession(r)
			if err != nil {
				log.Error().Err(err).Str("path", r.URL.Path).Msg("Session lookup failed")
				httpext.JsonError(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			if claims == nil {
				log.Debug().Str("path", r.URL.Path).Msg("Request without session rejected")
				httpext.JsonError(w, "No active session", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithClaims(r.Context(), claims)))
		})
	}
}
