package statemachine

import (
	"context"
	"sync"
)

// Machine is a stateful wrapper around a Table that tracks the current state.
// Safe for concurrent use.
type Machine[S ~string, E ~string] struct {
	table   *Table[S, E]
	initial S

	mu      sync.RWMutex
	current S
}

// NewMachine creates a machine positioned at the initial state.
// The table may be shared between machines; it is only read.
func NewMachine[S ~string, E ~string](table *Table[S, E], initial S) *Machine[S, E] {
	return &Machine[S, E]{table: table, initial: initial, current: initial}
}

// Current returns the machine's current state.
func (m *Machine[S, E]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Fire attempts the transition triggered by event. On success the machine
// moves to the destination state; on failure the state is unchanged.
func (m *Machine[S, E]) Fire(ctx context.Context, event E, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := m.table.Target(ctx, m.current, event, data)
	if err != nil {
		return err
	}
	m.current = next
	return nil
}

// CanFire reports whether event is currently permitted.
func (m *Machine[S, E]) CanFire(ctx context.Context, event E, data any) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.table.Allows(ctx, m.current, event, data)
}

// Reset returns the machine to its initial state.
func (m *Machine[S, E]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}
