package conversation

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies who authored a Message. Only the two roles below exist in
// a conversation; anything else is rejected at the boundary by ParseRole.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole normalises an external role string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAssistant:
		return RoleAssistant, nil
	default:
		return "", &ValidationError{Field: "role", Reason: fmt.Sprintf("unsupported role %q", s)}
	}
}

func (r Role) String() string {
	return string(r)
}

// Message is one entry of a conversation. Messages are values: once a
// Message has been appended to a Conversation it is never changed.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}
