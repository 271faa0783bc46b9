package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/statemachine"
)

// Event triggers a notification status transition.
type Event string

const (
	eventSend    Event = "send"
	eventDeliver Event = "deliver"
	eventRead    Event = "read"
	eventFail    Event = "fail"
	eventCancel  Event = "cancel"
	eventExpire  Event = "expire"
)

// transitions is the shared delivery-lifecycle table. Notifications own
// their current status; the table only answers whether an event is legal
// from a given status. Read, cancelled and expired are terminal: nothing
// leads out of them. A failed notification may be re-sent (retry), fail
// again on the next attempt, or be given up on.
var transitions = statemachine.NewTable[Status, Event]().
	Permit(StatusPending, StatusSent, eventSend).
	Permit(StatusPending, StatusFailed, eventFail).
	Permit(StatusPending, StatusCancelled, eventCancel).
	Permit(StatusPending, StatusExpired, eventExpire).
	Permit(StatusSent, StatusDelivered, eventDeliver).
	Permit(StatusSent, StatusRead, eventRead).
	Permit(StatusSent, StatusFailed, eventFail).
	Permit(StatusSent, StatusCancelled, eventCancel).
	Permit(StatusSent, StatusExpired, eventExpire).
	Permit(StatusDelivered, StatusRead, eventRead).
	Permit(StatusDelivered, StatusExpired, eventExpire).
	Permit(StatusFailed, StatusSent, eventSend).
	Permit(StatusFailed, StatusFailed, eventFail).
	Permit(StatusFailed, StatusCancelled, eventCancel).
	Permit(StatusFailed, StatusExpired, eventExpire)

// fire resolves the event against the transition table, translating
// table-level errors into the package's domain error.
func fire(from Status, event Event) (Status, error) {
	to, err := transitions.Target(context.Background(), from, event, nil)
	if err != nil {
		if statemachine.IsNoTransition(err) || statemachine.IsRejected(err) {
			return "", errors.Join(ErrInvalidStatusTransition,
				fmt.Errorf("cannot %s a %s notification", event, from))
		}
		return "", err
	}
	return to, nil
}
