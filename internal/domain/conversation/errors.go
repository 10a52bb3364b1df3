package conversation

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a submission arrives while a response is still
	// outstanding for the same conversation.
	ErrBusy = errors.New("a response is already in progress")

	// ErrNotInFlight is returned when a delta or completion arrives for a
	// conversation that has no outstanding request.
	ErrNotInFlight = errors.New("no response in progress")
)

// ValidationError reports user input that cannot enter the conversation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
