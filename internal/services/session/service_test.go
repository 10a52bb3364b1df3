package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deepgram/assistant/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.SessionConfig {
	return config.SessionConfig{
		JWTSecret:    "test-secret-0123456789",
		CookieName:   "assistant_session",
		CookieSecure: false,
		Lifetime:     time.Hour,
	}
}

func requestWith(cookies []*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestCreateAndValidateSession(t *testing.T) {
	svc := NewServiceWithStore(testConfig(), NewMemoryStore())

	w := httptest.NewRecorder()
	claims, err := svc.CreateSession(context.Background(), w)
	require.NoError(t, err)
	require.NotEmpty(t, claims.SessionID)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "assistant_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	got, err := svc.ValidateSession(requestWith(cookies))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, claims.SessionID, got.SessionID)
}

func TestValidateSessionWithoutCookie(t *testing.T) {
	svc := NewServiceWithStore(testConfig(), NewMemoryStore())

	got, err := svc.ValidateSession(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestValidateSessionRejectsForeignSignature(t *testing.T) {
	svc := NewServiceWithStore(testConfig(), NewMemoryStore())

	other := testConfig()
	other.JWTSecret = "another-secret-0123456789"
	forger := NewServiceWithStore(other, NewMemoryStore())

	w := httptest.NewRecorder()
	_, err := forger.CreateSession(context.Background(), w)
	require.NoError(t, err)

	got, err := svc.ValidateSession(requestWith(w.Result().Cookies()))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestValidateSessionRequiresStoredSession(t *testing.T) {
	cfg := testConfig()
	svc := NewServiceWithStore(cfg, NewMemoryStore())

	// A correctly signed token for a session the store never saw.
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		SessionID:        "unknown",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	got, err := svc.ValidateSession(requestWith([]*http.Cookie{{Name: cfg.CookieName, Value: token}}))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))},
		SessionID:        "s1",
	}
	require.NoError(t, store.Set(context.Background(), "s1", claims, time.Minute))

	got, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.NotNil(t, got)

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	got, err = store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreDropsLapsedSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	// No ExpiresAt: only the store ttl bounds these.
	for i := 0; i < 500; i++ {
		id := fmt.Sprintf("s%d", i)
		require.NoError(t, store.Set(ctx, id, &SessionClaims{SessionID: id}, time.Minute))
	}
	require.Equal(t, 500, store.sessions.Len())

	now = now.Add(2 * time.Minute)
	got, err := store.Get(ctx, "s0")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Set(ctx, "fresh", &SessionClaims{SessionID: "fresh"}, time.Minute))
	assert.Equal(t, 1, store.sessions.Len())
}

func TestContextClaims(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithClaims(context.Background(), &SessionClaims{SessionID: "s1"})
	claims, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "s1", claims.SessionID)
}
