package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDateRange   = errors.New("end date must not be before start date")
	ErrStartDateInPast    = errors.New("start date must not be in the past")
	ErrMissingDocument    = errors.New("client has no identity document on file")
	ErrUnverifiedDocument = errors.New("client's identity document is not verified")
	ErrCarUnavailable     = errors.New("car is not available for the requested dates")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("operation not permitted for this user")
)

// StateTransitionError reports an operation attempted from a state that does
// not permit it. It carries the actual state and the attempted event so
// callers can name both in diagnostics.
type StateTransitionError struct {
	From  RentalState
	Event ContractEvent
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot apply %s to a contract in state %s", e.Event, e.From)
}

// IsStateTransition reports whether err is a StateTransitionError.
func IsStateTransition(err error) bool {
	var ste *StateTransitionError
	return errors.As(err, &ste)
}
