package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/deepgram/assistant/internal/domain/conversation"
)

var (
	// ErrEmptyResponse is returned when the provider answers without content.
	ErrEmptyResponse = errors.New("no response choices returned")
)

// ProviderError wraps failures of the external completion provider. They
// are surfaced to users as retryable notices.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("completion provider %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err originated at the provider.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// Stream is a lazy, finite sequence of text deltas for one request. Recv
// returns io.EOF once the provider has finished. A Stream cannot be
// restarted.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Service defines the interface for completion operations
type Service interface {
	// StreamChat streams the assistant's reply to the conversation history.
	StreamChat(ctx context.Context, history []conversation.Message) (Stream, error)

	// Complete issues one single-shot completion for prompt.
	Complete(ctx context.Context, prompt string) (string, error)
}
