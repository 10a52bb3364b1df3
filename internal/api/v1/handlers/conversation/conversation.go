package conversation

import (
	"encoding/json"
	"errors"
	"net/http"

	domain "github.com/deepgram/assistant/internal/domain/conversation"
	"github.com/deepgram/assistant/internal/domain/shell"
	"github.com/deepgram/assistant/internal/services/chat"
	"github.com/deepgram/assistant/internal/services/conversation"
	"github.com/deepgram/assistant/internal/services/session"
	"github.com/deepgram/assistant/pkg/httpext"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// SubmitRequest is the body of a message submission.
type SubmitRequest struct {
	Content string `json:"content"`
}

// sessionID returns the conversation of the request's session. Routes are
// mounted behind session middleware, so a missing session is a wiring bug.
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := session.FromContext(r.Context())
	if !ok {
		log.Error().Str("path", r.URL.Path).Msg("Conversation route reached without session")
		httpext.JsonError(w, "No active session", http.StatusUnauthorized)
		return "", false
	}
	return claims.SessionID, true
}

// HandleGetConversation returns the ordered messages and lifecycle state.
func HandleGetConversation(svc *conversation.Service, w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	snap, err := svc.Snapshot(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("conversation_id", id).Msg("Failed to load conversation")
		httpext.JsonError(w, "Failed to load conversation", http.StatusInternalServerError)
		return
	}

	httpext.JsonResponse(w, http.StatusOK, snap)
}

// HandleCancel aborts the response in flight, if any.
func HandleCancel(svc *conversation.Service, w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if !svc.Cancel(id) {
		httpext.JsonError(w, domain.ErrNotInFlight.Error(), http.StatusConflict)
		return
	}

	log.Info().Str("conversation_id", id).Msg("Cancel requested")
	httpext.JsonResponse(w, http.StatusOK, map[string]bool{"canceled": true})
}

// HandleReset starts a new chat.
func HandleReset(svc *conversation.Service, w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := svc.Reset(r.Context(), id); err != nil {
		log.Error().Err(err).Str("conversation_id", id).Msg("Failed to reset conversation")
		httpext.JsonError(w, "Failed to reset conversation", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRawMessage returns one message's content as plain text, the payload
// of the copy action.
func HandleRawMessage(svc *conversation.Service, w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	msg, err := svc.Message(r.Context(), id, mux.Vars(r)["id"])
	if errors.Is(err, conversation.ErrMessageNotFound) {
		httpext.JsonError(w, "Message not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("conversation_id", id).Msg("Failed to load message")
		httpext.JsonError(w, "Failed to load message", http.StatusInternalServerError)
		return
	}

	toast, err := json.Marshal(shell.ToastCopied)
	if err == nil {
		w.Header().Set("X-Toast", string(toast))
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(msg.Content))
}

// errorStatus maps a submission error that happened before any event was
// sent onto an HTTP status.
func errorStatus(err error) (int, httpext.ErrorResponse) {
	switch {
	case domain.IsValidationError(err):
		return http.StatusBadRequest, httpext.ErrorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict, httpext.ErrorResponse{Error: err.Error()}
	case chat.IsProviderError(err):
		return http.StatusBadGateway, httpext.ErrorResponse{
			Error:     "The assistant could not respond. Please try again.",
			Retryable: true,
		}
	default:
		return http.StatusInternalServerError, httpext.ErrorResponse{Error: "Internal server error"}
	}
}
