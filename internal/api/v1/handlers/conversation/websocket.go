package conversation

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/deepgram/assistant/internal/assistant"
	"github.com/deepgram/assistant/internal/connections"
	domain "github.com/deepgram/assistant/internal/domain/conversation"
	"github.com/deepgram/assistant/internal/services/conversation"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// HandleWebSocket serves the chat view over a websocket. Closing the socket
// cancels the response in flight.
func HandleWebSocket(svc *conversation.Service, manager *connections.Manager, w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	conn := manager.AddConnection(ws, id)
	timeouts := manager.GetTimeouts()

	ctx, cancel := context.WithCancel(r.Context())
	var inflight sync.WaitGroup
	defer func() {
		cancel()
		inflight.Wait()
		manager.RemoveConnection(conn)
		_ = ws.Close()
		log.Info().Str("session_id", id).Msg("WebSocket connection closed")
	}()

	log.Info().Str("session_id", id).Msg("WebSocket connection established")

	_ = ws.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	})

	go pingLoop(ctx, conn, timeouts.PingPeriod)

	for {
		var msg assistant.ClientMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("session_id", id).Msg("Unexpected WebSocket closure")
			}
			return
		}

		switch msg.Type {
		case assistant.TypeMessage:
			inflight.Add(1)
			go func(content string) {
				defer inflight.Done()
				submitOverSocket(ctx, svc, conn, id, content)
			}(msg.Content)

		case assistant.TypeCancel:
			if !svc.Cancel(id) {
				writeFrame(conn, assistant.AssistantResponse{
					RequestID: uuid.New().String(),
					Status:    assistant.StatusError,
					Error:     domain.ErrNotInFlight.Error(),
				})
			}

		default:
			writeFrame(conn, assistant.AssistantResponse{
				RequestID: uuid.New().String(),
				Status:    assistant.StatusError,
				Error:     "unknown message type " + msg.Type,
			})
		}
	}
}

func submitOverSocket(ctx context.Context, svc *conversation.Service, conn *connections.Conn, id, content string) {
	requestID := uuid.New().String()

	emit := func(e conversation.Event) error {
		return conn.WriteJSON(toResponse(requestID, e))
	}

	err := svc.Submit(ctx, id, content, emit)
	if err == nil {
		return
	}

	// Rejections happen before any event was emitted.
	if domain.IsValidationError(err) || errors.Is(err, domain.ErrBusy) {
		writeFrame(conn, assistant.AssistantResponse{
			RequestID: requestID,
			Status:    assistant.StatusError,
			Error:     err.Error(),
		})
		return
	}

	log.Debug().Err(err).Str("request_id", requestID).Msg("Socket submission ended with error")
}

// toResponse converts a conversation event to its wire frame.
func toResponse(requestID string, e conversation.Event) assistant.AssistantResponse {
	resp := assistant.AssistantResponse{
		RequestID: requestID,
		Delta:     e.Delta,
		Toast:     e.Toast,
	}
	if e.Message != nil {
		resp.MessageID = e.Message.ID
		resp.Role = string(e.Message.Role)
		resp.Content = e.Message.Content
	}

	switch e.Type {
	case conversation.EventSubmitted:
		resp.Status = assistant.StatusSubmitted
	case conversation.EventDelta:
		resp.Status = assistant.StatusStreaming
	case conversation.EventDone:
		resp.Status = assistant.StatusComplete
	case conversation.EventError:
		resp.Status = assistant.StatusError
		if !e.Retryable {
			resp.Status = assistant.StatusCanceled
		}
		resp.Content = e.Partial
		resp.Error = e.Error
		resp.Retryable = e.Retryable
	}
	return resp
}

func writeFrame(conn *connections.Conn, resp assistant.AssistantResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Debug().Err(err).Msg("Failed to write WebSocket frame")
	}
}

func pingLoop(ctx context.Context, conn *connections.Conn, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.Ping(); err != nil {
				log.Debug().Err(err).Str("session_id", conn.SessionID()).Msg("WebSocket ping failed")
				return
			}
		}
	}
}
