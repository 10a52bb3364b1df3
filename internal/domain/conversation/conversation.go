package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle position of a conversation's outstanding request.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// MarshalText lets State appear as its name in JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = StateIdle
	case "submitting":
		*s = StateSubmitting
	case "streaming":
		*s = StateStreaming
	default:
		return fmt.Errorf("unknown conversation state %q", text)
	}
	return nil
}

// Conversation is the ordered, append-only list of messages exchanged in one
// session together with the state of the request currently in flight.
//
// A Conversation is not safe for concurrent use; callers serialise access.
type Conversation struct {
	id       string
	messages []Message
	state    State
	pending  *Message

	now   func() time.Time
	newID func() string
}

// New returns an empty, idle conversation.
func New(id string) *Conversation {
	return Restore(id, nil)
}

// Restore rebuilds an idle conversation from previously committed messages.
func Restore(id string, messages []Message) *Conversation {
	c := &Conversation{
		id:    id,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	c.messages = append(c.messages, messages...)
	return c
}

func (c *Conversation) ID() string {
	return c.id
}

func (c *Conversation) State() State {
	return c.state
}

// Messages returns a copy of the committed messages in insertion order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of committed messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Pending returns the in-progress assistant message, if streaming.
func (c *Conversation) Pending() (Message, bool) {
	if c.pending == nil {
		return Message{}, false
	}
	return *c.pending, true
}

// ValidateInput rejects text that trims to nothing.
func ValidateInput(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "content", Reason: "message must not be empty"}
	}
	return nil
}

// Submit appends the user's message and moves the conversation to
// Submitting. Empty input and submissions while busy leave the conversation
// untouched.
func (c *Conversation) Submit(text string) (Message, error) {
	if err := ValidateInput(text); err != nil {
		return Message{}, err
	}
	if c.state != StateIdle {
		return Message{}, ErrBusy
	}

	msg := Message{
		ID:        c.newID(),
		Role:      RoleUser,
		Content:   text,
		CreatedAt: c.now(),
	}
	c.messages = append(c.messages, msg)
	c.state = StateSubmitting
	return msg, nil
}

// ApplyDelta appends a streamed fragment to the in-progress assistant
// message, creating it on the first fragment. It returns a snapshot of the
// message after the append.
func (c *Conversation) ApplyDelta(delta string) (Message, error) {
	switch c.state {
	case StateSubmitting:
		c.pending = &Message{
			ID:        c.newID(),
			Role:      RoleAssistant,
			CreatedAt: c.now(),
		}
		c.state = StateStreaming
	case StateStreaming:
	default:
		return Message{}, ErrNotInFlight
	}

	c.pending.Content += delta
	return *c.pending, nil
}

// Finish commits the assistant message directly after the user message that
// triggered it and returns the conversation to Idle. A stream that ended
// without any fragment still yields one (empty) assistant message.
func (c *Conversation) Finish() (Message, error) {
	if c.state == StateIdle {
		return Message{}, ErrNotInFlight
	}
	if c.pending == nil {
		c.pending = &Message{
			ID:        c.newID(),
			Role:      RoleAssistant,
			CreatedAt: c.now(),
		}
	}

	msg := *c.pending
	c.messages = append(c.messages, msg)
	c.pending = nil
	c.state = StateIdle
	return msg, nil
}

// Fail abandons the outstanding request. The partially streamed content is
// returned to the caller and is not added to the conversation.
func (c *Conversation) Fail() (partial string) {
	if c.pending != nil {
		partial = c.pending.Content
	}
	c.pending = nil
	c.state = StateIdle
	return partial
}
