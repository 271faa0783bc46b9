package pg

import (
	"context"
	"errors"
)

// Pinger is the connectivity probe Healthcheck depends on. *pgxpool.Pool
// satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthcheck returns a readiness probe that reports ErrHealthcheckFailed
// when the database does not answer a ping.
func Healthcheck(db Pinger) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := db.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
