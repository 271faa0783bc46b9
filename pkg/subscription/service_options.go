package subscription

import (
	"log/slog"

	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/clock"
)

// ServiceOption configures a Service instance.
type ServiceOption func(*service)

// WithClock overrides the wall clock. Tests pass clock.Fixed to make
// trial-end and grace-period arithmetic deterministic.
func WithClock(c clock.Clock) ServiceOption {
	return func(s *service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the structured logger. Without it the service logs
// nowhere.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStatusChangeHook registers a callback fired after every persisted
// status change. Used to bridge lifecycle events into the notification
// pipeline without coupling this package to it.
func WithStatusChangeHook(fn StatusChangeFunc) ServiceOption {
	return func(s *service) {
		if fn != nil {
			s.onStatus = fn
		}
	}
}
