package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deepgram/assistant/internal/config"
	"github.com/deepgram/assistant/internal/infrastructure/redis"
	"github.com/deepgram/assistant/pkg/expiring"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

type SessionStore interface {
	Set(ctx context.Context, sessionID string, claims *SessionClaims, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*SessionClaims, error)
	Delete(ctx context.Context, sessionID string) error
}

type RedisStore struct {
	redisService *redis.Service
}

type MemoryStore struct {
	sessions *expiring.Map[*SessionClaims]
	now      func() time.Time
}

type Service struct {
	store    SessionStore
	secret   []byte
	name     string
	secure   bool
	lifetime time.Duration
}

func NewService(cfg config.SessionConfig, redisService *redis.Service) *Service {
	var store SessionStore
	if redisService != nil {
		log.Info().Msg("Using Redis for session storage")
		store = &RedisStore{redisService: redisService}
	} else {
		log.Info().Msg("Using in-memory session storage")
		store = NewMemoryStore()
	}
	return NewServiceWithStore(cfg, store)
}

func NewServiceWithStore(cfg config.SessionConfig, store SessionStore) *Service {
	return &Service{
		store:    store,
		secret:   []byte(cfg.JWTSecret),
		name:     cfg.CookieName,
		secure:   cfg.CookieSecure,
		lifetime: cfg.Lifetime,
	}
}

func NewMemoryStore() *MemoryStore {
	ms := &MemoryStore{now: time.Now}
	ms.sessions = expiring.NewWithClock[*SessionClaims](0, func() time.Time { return ms.now() })
	return ms
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (rs *RedisStore) Set(ctx context.Context, sessionID string, claims *SessionClaims, ttl time.Duration) error {
	return rs.redisService.SetJSON(ctx, sessionKey(sessionID), claims, ttl)
}

func (rs *RedisStore) Get(ctx context.Context, sessionID string) (*SessionClaims, error) {
	var claims SessionClaims
	ok, err := rs.redisService.GetJSON(ctx, sessionKey(sessionID), &claims)
	if err != nil || !ok {
		return nil, err
	}
	return &claims, nil
}

func (rs *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return rs.redisService.Delete(ctx, sessionKey(sessionID))
}

// Memory Store implementation
func (ms *MemoryStore) Set(ctx context.Context, sessionID string, claims *SessionClaims, ttl time.Duration) error {
	ms.sessions.SetWithTTL(sessionID, claims, ttl)
	return nil
}

func (ms *MemoryStore) Get(ctx context.Context, sessionID string) (*SessionClaims, error) {
	claims, ok := ms.sessions.Get(sessionID)
	if !ok {
		return nil, nil
	}
	if claims.ExpiresAt != nil && ms.now().After(claims.ExpiresAt.Time) {
		return nil, nil
	}
	return claims, nil
}

func (ms *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	ms.sessions.Delete(sessionID)
	return nil
}

// CreateSession starts a new anonymous session and sets its cookie on the
// response.
func (s *Service) CreateSession(ctx context.Context, w http.ResponseWriter) (*SessionClaims, error) {
	now := time.Now()
	sessionID := uuid.New().String()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        sessionID,
		},
		SessionID: sessionID,
	}

	if err := s.store.Set(ctx, sessionID, claims, s.lifetime); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    signedToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  now.Add(s.lifetime),
	})

	log.Debug().Str("session_id", sessionID).Msg("Session created")
	return claims, nil
}

// ValidateSession returns the claims of the request's session, or nil when
// the request has no valid session.
func (s *Service) ValidateSession(r *http.Request) (*SessionClaims, error) {
	claims := s.parseCookie(r)
	if claims == nil {
		return nil, nil
	}

	// Verify session exists in store
	stored, err := s.store.Get(r.Context(), claims.SessionID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, nil
	}

	return claims, nil
}

func (s *Service) parseCookie(r *http.Request) *SessionClaims {
	cookie, err := r.Cookie(s.name)
	if err != nil {
		return nil
	}

	token, err := jwt.ParseWithClaims(cookie.Value, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		log.Debug().Err(err).Msg("Rejected session cookie")
		return nil
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil
	}
	return claims
}

type contextKey struct{}

// WithClaims attaches session claims to ctx.
func WithClaims(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// FromContext returns the session claims attached by WithClaims.
func FromContext(ctx context.Context) (*SessionClaims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*SessionClaims)
	return claims, ok && claims != nil
}
