// Package statemachine implements a small finite state machine on top of a
// transition table keyed by (state, event), with optional guards and actions.
//
// The Table is stateless and shareable: entities that persist their own
// status (like notifications) consult a package-level table to validate and
// resolve transitions, while Machine adds current-state tracking for callers
// that want the classic stateful API.
//
//	table := statemachine.NewTable[Status, Event]().
//		Permit(StatusPending, StatusSent, EventSend).
//		Permit(StatusSent, StatusDelivered, EventDeliver)
//
//	next, err := table.Target(ctx, current, EventSend, nil)
package statemachine
