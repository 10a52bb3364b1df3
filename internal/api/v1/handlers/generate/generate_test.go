package generate

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deepgram/assistant/internal/services/chat"
	"github.com/deepgram/assistant/internal/services/chat/chattest"
	generationsvc "github.com/deepgram/assistant/internal/services/generation"
	"github.com/deepgram/assistant/internal/services/session"
	"github.com/deepgram/assistant/pkg/httpext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(session.WithClaims(req.Context(), &session.SessionClaims{SessionID: "s1"}))
}

func TestHandleOptions(t *testing.T) {
	w := httptest.NewRecorder()
	HandleOptions(w, httptest.NewRequest(http.MethodGet, "/v1/generate/options", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp OptionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.ContentTypes, 6)
	assert.Len(t, resp.Tones, 5)
	assert.Equal(t, LengthRange{Min: 100, Max: 2000, Step: 100, Default: 500}, resp.Length)
	assert.Equal(t, "blog", string(resp.Defaults.ContentType))
	assert.Equal(t, "professional", string(resp.Defaults.Tone))
}

func TestHandleTemplates(t *testing.T) {
	w := httptest.NewRecorder()
	HandleTemplates(w, httptest.NewRequest(http.MethodGet, "/v1/generate/templates", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Product Launch Announcement")
}

func TestHandleGenerate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fake       *chattest.Fake
		wantStatus int
		wantCalls  int
	}{
		{
			name:       "success",
			body:       `{"content_type":"blog","topic":"AI trends","tone":"casual","length":500}`,
			fake:       &chattest.Fake{Completion: "# AI trends"},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "blank topic",
			body:       `{"topic":"  "}`,
			fake:       &chattest.Fake{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "length out of range",
			body:       `{"topic":"x","length":5000}`,
			fake:       &chattest.Fake{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed",
			body:       `{"topic":`,
			fake:       &chattest.Fake{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "provider failure",
			body:       `{"topic":"x"}`,
			fake:       &chattest.Fake{CompleteErr: &chat.ProviderError{Op: "completion", Err: errors.New("down")}},
			wantStatus: http.StatusBadGateway,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := generationsvc.NewServiceWithStore(tt.fake, generationsvc.NewMemoryStore())

			w := httptest.NewRecorder()
			HandleGenerate(svc, w, sessionRequest(http.MethodPost, "/v1/generate", tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalls, tt.fake.CompleteCalls())
		})
	}
}

func TestHandleGenerateResponse(t *testing.T) {
	svc := generationsvc.NewServiceWithStore(&chattest.Fake{Completion: "# AI trends"}, generationsvc.NewMemoryStore())

	w := httptest.NewRecorder()
	HandleGenerate(svc, w, sessionRequest(http.MethodPost, "/v1/generate",
		`{"content_type":"blog","topic":"AI trends","tone":"casual","length":500}`))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Prompt  string `json:"prompt"`
		Content string `json:"content"`
		Toast   struct {
			Title string `json:"title"`
		} `json:"toast"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, `Write a blog about "AI trends" in a casual tone. The content should be approximately 500 words long.`, resp.Prompt)
	assert.Equal(t, "# AI trends", resp.Content)
	assert.Equal(t, "Content generated", resp.Toast.Title)
}

func TestHandleGenerateProviderFailureIsRetryable(t *testing.T) {
	fake := &chattest.Fake{CompleteErr: &chat.ProviderError{Op: "completion", Err: errors.New("down")}}
	svc := generationsvc.NewServiceWithStore(fake, generationsvc.NewMemoryStore())

	w := httptest.NewRecorder()
	HandleGenerate(svc, w, sessionRequest(http.MethodPost, "/v1/generate", `{"topic":"x"}`))

	var resp httpext.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Retryable)
}

func TestHandleOutput(t *testing.T) {
	svc := generationsvc.NewServiceWithStore(&chattest.Fake{Completion: "done"}, generationsvc.NewMemoryStore())

	w := httptest.NewRecorder()
	HandleOutput(svc, w, sessionRequest(http.MethodGet, "/v1/generate/output", ""))
	assert.Equal(t, http.StatusNotFound, w.Code)

	HandleGenerate(svc, httptest.NewRecorder(), sessionRequest(http.MethodPost, "/v1/generate", `{"topic":"x"}`))

	w = httptest.NewRecorder()
	HandleOutput(svc, w, sessionRequest(http.MethodGet, "/v1/generate/output", ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"content":"done"`)
}

func TestHandleGenerateWithoutSession(t *testing.T) {
	svc := generationsvc.NewServiceWithStore(&chattest.Fake{}, generationsvc.NewMemoryStore())

	w := httptest.NewRecorder()
	HandleGenerate(svc, w, httptest.NewRequest(http.MethodPost, "/v1/generate", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleGenerateValidationNamesField(t *testing.T) {
	svc := generationsvc.NewServiceWithStore(&chattest.Fake{}, generationsvc.NewMemoryStore())

	w := httptest.NewRecorder()
	HandleGenerate(svc, w, sessionRequest(http.MethodPost, "/v1/generate", `{"topic":"x","tone":"angry"}`))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp httpext.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tone", resp.Field)
	assert.False(t, resp.Retryable)
}
