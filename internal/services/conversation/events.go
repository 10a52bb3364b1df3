package conversation

import (
	domain "github.com/deepgram/assistant/internal/domain/conversation"
	"github.com/deepgram/assistant/internal/domain/shell"
)

type EventType string

const (
	EventSubmitted EventType = "submitted"
	EventDelta     EventType = "delta"
	EventDone      EventType = "done"
	EventError     EventType = "error"
)

// Event is one step of a submission, in the order it happened.
type Event struct {
	Type EventType `json:"type"`

	// Message is the user message for submitted events and a snapshot of
	// the assistant message for delta and done events.
	Message *domain.Message `json:"message,omitempty"`
	Delta   string          `json:"delta,omitempty"`
	Toast   *shell.Toast    `json:"toast,omitempty"`

	Error     string `json:"error,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
	// Partial holds the content streamed before a failure. It is not part
	// of the conversation.
	Partial string `json:"partial,omitempty"`
}

// Emitter delivers events to the view that submitted the message. An error
// from the emitter means the view is gone and cancels the request.
type Emitter func(Event) error

// Snapshot is the observable state of a conversation.
type Snapshot struct {
	ID       string           `json:"id"`
	State    domain.State     `json:"state"`
	Messages []domain.Message `json:"messages"`
	Pending  *domain.Message  `json:"pending,omitempty"`
}
