package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the actor is not allowed to perform the requested
	// transition. Handlers map it to 403.
	ErrUnauthorized = errors.New("actor not authorized for this transition")

	// ErrInvalidTransition means the requested status is not reachable from
	// the booking's current status. Handlers map it to 409. A lost
	// conditional update at the persistence layer surfaces as this error too:
	// the precondition no longer holds.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	errScheduledInPast = errors.New("scheduled time must be in the future")
)

func errRequired(field string) error {
	return fmt.Errorf("%s is required", field)
}
