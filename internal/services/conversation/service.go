package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	domain "github.com/deepgram/assistant/internal/domain/conversation"
	"github.com/deepgram/assistant/internal/domain/shell"
	"github.com/deepgram/assistant/internal/infrastructure/redis"
	"github.com/deepgram/assistant/internal/services/chat"
	"github.com/rs/zerolog/log"
)

var (
	// ErrCanceled is returned by Submit when the request was canceled before
	// the stream finished.
	ErrCanceled = errors.New("response canceled")

	// ErrMessageNotFound is returned when a message id is not part of the
	// conversation.
	ErrMessageNotFound = errors.New("message not found")
)

const conversationLifetime = 24 * time.Hour

// entry is the live state of one conversation. It stays in Service.entries
// only while some caller holds it; committed messages live in the store.
type entry struct {
	mu     sync.Mutex
	conv   *domain.Conversation
	cancel context.CancelFunc

	refs int // guarded by Service.mu
}

type Service struct {
	chat  chat.Service
	store Store

	mu      sync.Mutex
	entries map[string]*entry
}

func NewService(chatService chat.Service, redisService *redis.Service) *Service {
	var store Store
	if redisService != nil {
		log.Info().Msg("Using Redis for conversation storage")
		store = NewRedisStore(redisService, conversationLifetime)
	} else {
		log.Info().Msg("Using in-memory conversation storage")
		store = NewMemoryStore()
	}
	return NewServiceWithStore(chatService, store)
}

func NewServiceWithStore(chatService chat.Service, store Store) *Service {
	return &Service{
		chat:    chatService,
		store:   store,
		entries: make(map[string]*entry),
	}
}

// acquire returns the live conversation for id, restoring it from the store
// when nobody holds it. Every acquire must be paired with a release.
func (s *Service) acquire(ctx context.Context, id string) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok {
		e.refs++
		return e, nil
	}

	messages, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	e := &entry{conv: domain.Restore(id, messages), refs: 1}
	s.entries[id] = e
	return e, nil
}

// release drops the caller's hold on e and forgets it once unused.
func (s *Service) release(id string, e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.refs--
	if e.refs <= 0 && s.entries[id] == e {
		delete(s.entries, id)
	}
}

// Submit appends text as a user message and streams the assistant reply,
// reporting each step through emit. Blank text is rejected before the
// completion client is involved.
func (s *Service) Submit(ctx context.Context, id, text string, emit Emitter) error {
	if err := domain.ValidateInput(text); err != nil {
		return err
	}

	e, err := s.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer s.release(id, e)

	e.mu.Lock()
	userMsg, err := e.conv.Submit(text)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	history := e.conv.Messages()
	conv := e.conv
	reqCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	// Persisted under e.mu; Reset deletes under the same lock.
	s.persist(ctx, id, history)
	e.mu.Unlock()
	defer cancel()

	log.Info().
		Str("conversation_id", id).
		Str("message_id", userMsg.ID).
		Int("history", len(history)).
		Msg("Message submitted")

	if err := emit(Event{Type: EventSubmitted, Message: &userMsg}); err != nil {
		return s.fail(reqCtx, e, conv, viewGone(err), emit)
	}

	stream, err := s.chat.StreamChat(reqCtx, history)
	if err != nil {
		return s.fail(reqCtx, e, conv, err, emit)
	}
	defer stream.Close()

	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return s.fail(reqCtx, e, conv, err, emit)
		}

		e.mu.Lock()
		if e.conv != conv {
			e.mu.Unlock()
			return s.fail(reqCtx, e, conv, ErrCanceled, emit)
		}
		snapshot, err := conv.ApplyDelta(delta)
		e.mu.Unlock()
		if err != nil {
			return s.fail(reqCtx, e, conv, err, emit)
		}

		if err := emit(Event{Type: EventDelta, Message: &snapshot, Delta: delta}); err != nil {
			return s.fail(reqCtx, e, conv, viewGone(err), emit)
		}
	}

	e.mu.Lock()
	if e.conv != conv {
		e.mu.Unlock()
		return s.fail(reqCtx, e, conv, ErrCanceled, emit)
	}
	reply, err := conv.Finish()
	e.cancel = nil
	if err == nil {
		s.persist(ctx, id, conv.Messages())
	}
	e.mu.Unlock()
	if err != nil {
		return err
	}

	log.Info().
		Str("conversation_id", id).
		Str("message_id", reply.ID).
		Int("length", len(reply.Content)).
		Msg("Response complete")

	toast := shell.ToastResponseComplete
	if err := emit(Event{Type: EventDone, Message: &reply, Toast: &toast}); err != nil {
		log.Debug().Err(err).Str("conversation_id", id).Msg("View gone before completion was delivered")
	}
	return nil
}

func viewGone(err error) error {
	return fmt.Errorf("%w: %v", ErrCanceled, err)
}

// fail returns the conversation to idle and notifies the view. Provider
// failures are retryable; cancellation is not.
func (s *Service) fail(reqCtx context.Context, e *entry, conv *domain.Conversation, cause error, emit Emitter) error {
	canceled := errors.Is(cause, ErrCanceled) || reqCtx.Err() != nil

	var partial string
	e.mu.Lock()
	if e.conv == conv {
		partial = conv.Fail()
		e.cancel = nil
	}
	e.mu.Unlock()

	event := Event{Type: EventError, Partial: partial}
	if canceled {
		event.Error = ErrCanceled.Error()
		log.Info().Str("conversation_id", conv.ID()).Msg("Response canceled")
	} else {
		event.Error = "The assistant could not respond. Please try again."
		event.Retryable = true
		log.Error().Err(cause).Str("conversation_id", conv.ID()).Msg("Response failed")
	}

	if err := emit(event); err != nil {
		log.Debug().Err(err).Str("conversation_id", conv.ID()).Msg("View gone before failure was delivered")
	}

	if canceled {
		return ErrCanceled
	}
	return cause
}

// Cancel aborts the in-flight request of conversation id. It reports
// whether there was one.
func (s *Service) Cancel(id string) bool {
	s.mu.Lock()
	e, ok := s.entries[id]
	s.mu.Unlock()
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel == nil {
		return false
	}
	e.cancel()
	return true
}

func (s *Service) Snapshot(ctx context.Context, id string) (Snapshot, error) {
	e, err := s.acquire(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	defer s.release(id, e)

	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		ID:       id,
		State:    e.conv.State(),
		Messages: e.conv.Messages(),
	}
	if pending, ok := e.conv.Pending(); ok {
		snap.Pending = &pending
	}
	return snap, nil
}

// Messages returns the committed messages in order.
func (s *Service) Messages(ctx context.Context, id string) ([]domain.Message, error) {
	snap, err := s.Snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	return snap.Messages, nil
}

// Message looks up one committed message.
func (s *Service) Message(ctx context.Context, id, messageID string) (domain.Message, error) {
	messages, err := s.Messages(ctx, id)
	if err != nil {
		return domain.Message{}, err
	}
	for _, m := range messages {
		if m.ID == messageID {
			return m, nil
		}
	}
	return domain.Message{}, ErrMessageNotFound
}

// Reset starts a new, empty conversation under the same id, canceling any
// request in flight.
func (s *Service) Reset(ctx context.Context, id string) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{conv: domain.New(id)}
		s.entries[id] = e
	}
	e.refs++
	s.mu.Unlock()
	defer s.release(id, e)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.conv = domain.New(id)

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}

	log.Info().Str("conversation_id", id).Msg("Conversation reset")
	return nil
}

func (s *Service) persist(ctx context.Context, id string, messages []domain.Message) {
	if err := s.store.Save(context.WithoutCancel(ctx), id, messages); err != nil {
		log.Error().Err(err).Str("conversation_id", id).Msg("Failed to persist conversation")
	}
}
