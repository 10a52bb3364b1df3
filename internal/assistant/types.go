// Package assistant defines the websocket wire format of the chat view.
package assistant

import (
	"github.com/deepgram/assistant/internal/domain/shell"
)

// Client message types
const (
	TypeMessage = "message"
	TypeCancel  = "cancel"
)

// ClientMessage is a frame sent by the chat view.
type ClientMessage struct {
	Type      string `json:"type"`
	Content   string `json:"content,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

// AssistantResponse is a frame sent to the chat view.
type AssistantResponse struct {
	RequestID string       `json:"request_id"`
	MessageID string       `json:"message_id,omitempty"`
	Role      string       `json:"role,omitempty"`
	Content   string       `json:"content"`
	Delta     string       `json:"delta,omitempty"`
	Status    string       `json:"status"` // "submitted", "streaming", "complete", "canceled" or "error"
	Toast     *shell.Toast `json:"toast,omitempty"`
	Error     string       `json:"error,omitempty"`
	Retryable bool         `json:"retryable,omitempty"`
}

// ResponseStatus defines the possible states of an assistant response
const (
	StatusSubmitted = "submitted"
	StatusStreaming = "streaming"
	StatusComplete  = "complete"
	StatusCanceled  = "canceled"
	StatusError     = "error"
)
