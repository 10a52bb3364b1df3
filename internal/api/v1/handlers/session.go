package handlers

import (
	"net/http"
	"time"

	"github.com/deepgram/assistant/internal/services/session"
	"github.com/deepgram/assistant/pkg/httpext"
)

type SessionResponse struct {
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HandleSession reports the session established by the session middleware.
func HandleSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok {
		httpext.JsonError(w, "No active session", http.StatusUnauthorized)
		return
	}

	resp := SessionResponse{SessionID: claims.SessionID}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	httpext.JsonResponse(w, http.StatusOK, resp)
}
