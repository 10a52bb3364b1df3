package conversation

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/deepgram/assistant/internal/services/conversation"
	"github.com/deepgram/assistant/pkg/httpext"
	"github.com/rs/zerolog/log"
)

// sseWriter writes conversation events as Server-Sent Events. Headers are
// only committed with the first event, so errors raised before anything was
// streamed can still be answered with a JSON status.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func (s *sseWriter) emit(e conversation.Event) error {
	if !s.started {
		h := s.w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", e.Type, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// HandleSubmitMessage submits a user message and streams the reply as
// Server-Sent Events: submitted, delta..., then done or error. The request
// is canceled when the client goes away.
func HandleSubmitMessage(svc *conversation.Service, w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed JSON request")
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		httpext.JsonError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	sse := &sseWriter{w: w, flusher: flusher}
	err := svc.Submit(r.Context(), id, req.Content, sse.emit)
	if err == nil {
		return
	}

	if sse.started {
		// The failure was delivered as an error event.
		log.Debug().Err(err).Str("conversation_id", id).Msg("Stream ended with error")
		return
	}

	status, resp := errorStatus(err)
	log.Warn().Err(err).Int("status", status).Str("conversation_id", id).Msg("Message rejected")
	httpext.JsonErrorWithDetails(w, status, resp)
}
