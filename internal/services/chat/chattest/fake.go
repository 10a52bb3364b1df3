// Package chattest provides an in-memory chat.Service for tests.
package chattest

import (
	"context"
	"io"
	"sync"

	"github.com/deepgram/assistant/internal/domain/conversation"
	"github.com/deepgram/assistant/internal/services/chat"
)

// Fake replays scripted deltas. Set StreamErr or FailAfter to simulate
// provider failures, and Gate to hold the stream open between deltas.
type Fake struct {
	mu sync.Mutex

	Deltas     []string
	Completion string

	StreamErr   error
	CompleteErr error
	// FailAfter makes Recv fail with FailErr once this many deltas were sent.
	FailAfter int
	FailErr   error
	// Gate, when set, must yield a value before each delta is released.
	Gate chan struct{}

	streamCalls   int
	completeCalls int
	histories     [][]conversation.Message
	prompts       []string
}

var _ chat.Service = (*Fake)(nil)

func (f *Fake) StreamChat(ctx context.Context, history []conversation.Message) (chat.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.streamCalls++
	f.histories = append(f.histories, append([]conversation.Message(nil), history...))
	if f.StreamErr != nil {
		return nil, f.StreamErr
	}

	return &fakeStream{
		ctx:       ctx,
		deltas:    append([]string(nil), f.Deltas...),
		failAfter: f.FailAfter,
		failErr:   f.FailErr,
		gate:      f.Gate,
	}, nil
}

func (f *Fake) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.completeCalls++
	f.prompts = append(f.prompts, prompt)
	if f.CompleteErr != nil {
		return "", f.CompleteErr
	}
	return f.Completion, nil
}

func (f *Fake) StreamCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.streamCalls
}

func (f *Fake) CompleteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completeCalls
}

// LastHistory returns the history passed to the most recent StreamChat.
func (f *Fake) LastHistory() []conversation.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.histories) == 0 {
		return nil
	}
	return f.histories[len(f.histories)-1]
}

func (f *Fake) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

type fakeStream struct {
	ctx       context.Context
	deltas    []string
	sent      int
	failAfter int
	failErr   error
	gate      chan struct{}
	closed    bool
}

func (s *fakeStream) Recv() (string, error) {
	if s.failErr != nil && s.sent >= s.failAfter {
		return "", s.failErr
	}
	if s.sent >= len(s.deltas) {
		return "", io.EOF
	}
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-s.ctx.Done():
			return "", s.ctx.Err()
		}
	}
	if err := s.ctx.Err(); err != nil {
		return "", err
	}

	d := s.deltas[s.sent]
	s.sent++
	return d, nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}
