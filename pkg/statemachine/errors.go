package statemachine

import (
	"errors"
	"fmt"
)

// NoTransitionError indicates the (state, event) pair is not in the table.
type NoTransitionError struct {
	From  string
	Event string
}

func (e *NoTransitionError) Error() string {
	return fmt.Sprintf("no transition from state %q for event %q", e.From, e.Event)
}

// RejectedError indicates every candidate transition was blocked by guards.
type RejectedError struct {
	From  string
	Event string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("transition from state %q for event %q rejected by guards", e.From, e.Event)
}

// ActionError wraps a failure from a transition action.
type ActionError struct {
	From  string
	To    string
	Event string
	Err   error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action failed on %q -> %q for event %q: %v", e.From, e.To, e.Event, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// IsNoTransition reports whether err is a *NoTransitionError.
func IsNoTransition(err error) bool {
	var e *NoTransitionError
	return errors.As(err, &e)
}

// IsRejected reports whether err is a *RejectedError.
func IsRejected(err error) bool {
	var e *RejectedError
	return errors.As(err, &e)
}
