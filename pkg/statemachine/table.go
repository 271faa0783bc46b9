package statemachine

import (
	"context"
	"sync"
)

// Guard evaluates whether a transition should be allowed based on runtime state.
type Guard[S ~string, E ~string] func(ctx context.Context, from S, event E, data any) bool

// Action executes side effects during a transition. Returning an error aborts it.
type Action[S ~string, E ~string] func(ctx context.Context, from, to S, event E, data any) error

// rule is one permitted edge in the transition table.
type rule[S ~string, E ~string] struct {
	to      S
	guards  []Guard[S, E]
	actions []Action[S, E]
}

// Table is a transition table keyed by (from state, event). It is stateless:
// callers own the current state and ask the table where an event leads.
// Multiple rules for the same (from, event) pair are evaluated in
// registration order and the first rule whose guards all pass wins, which
// enables guard-based branching.
type Table[S ~string, E ~string] struct {
	mu    sync.RWMutex
	rules map[S]map[E][]rule[S, E]
}

// NewTable creates an empty transition table.
func NewTable[S ~string, E ~string]() *Table[S, E] {
	return &Table[S, E]{rules: make(map[S]map[E][]rule[S, E])}
}

// Permit registers a transition from -> to triggered by event.
// Returns the table for chaining.
func (t *Table[S, E]) Permit(from, to S, event E) *Table[S, E] {
	return t.PermitWhen(from, to, event, nil, nil)
}

// PermitWhen registers a guarded transition with optional actions.
func (t *Table[S, E]) PermitWhen(from, to S, event E, guards []Guard[S, E], actions []Action[S, E]) *Table[S, E] {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rules[from]; !ok {
		t.rules[from] = make(map[E][]rule[S, E])
	}
	t.rules[from][event] = append(t.rules[from][event], rule[S, E]{to: to, guards: guards, actions: actions})
	return t
}

// Target resolves the destination state for event fired from the given state,
// running the winning rule's actions. Returns a *NoTransitionError when the
// (from, event) pair is not in the table and a *RejectedError when every
// candidate rule was blocked by its guards.
func (t *Table[S, E]) Target(ctx context.Context, from S, event E, data any) (S, error) {
	t.mu.RLock()
	candidates := t.rules[from][event]
	t.mu.RUnlock()

	if len(candidates) == 0 {
		var zero S
		return zero, &NoTransitionError{From: string(from), Event: string(event)}
	}

	for _, r := range candidates {
		if !r.pass(ctx, from, event, data) {
			continue
		}
		for _, action := range r.actions {
			if action == nil {
				continue
			}
			if err := action(ctx, from, r.to, event, data); err != nil {
				var zero S
				return zero, &ActionError{From: string(from), To: string(r.to), Event: string(event), Err: err}
			}
		}
		return r.to, nil
	}

	var zero S
	return zero, &RejectedError{From: string(from), Event: string(event)}
}

// Allows reports whether firing event from the given state could succeed,
// without running any actions.
func (t *Table[S, E]) Allows(ctx context.Context, from S, event E, data any) bool {
	t.mu.RLock()
	candidates := t.rules[from][event]
	t.mu.RUnlock()

	for _, r := range candidates {
		if r.pass(ctx, from, event, data) {
			return true
		}
	}
	return false
}

func (r rule[S, E]) pass(ctx context.Context, from S, event E, data any) bool {
	for _, guard := range r.guards {
		if guard != nil && !guard(ctx, from, event, data) {
			return false
		}
	}
	return true
}
