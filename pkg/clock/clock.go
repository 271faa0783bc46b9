package clock

import (
	"sync"
	"time"
)

// Clock provides the current time to components that need it.
// Injecting a Clock instead of calling time.Now directly keeps
// grace-period, quiet-hours and expiry calculations deterministic in tests.
type Clock interface {
	// Now returns the current time in UTC.
	Now() time.Time
}

// System returns a Clock backed by the wall clock.
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed returns a Clock frozen at the given instant.
func Fixed(t time.Time) *FixedClock {
	return &FixedClock{now: t.UTC()}
}

// FixedClock is a manually controlled Clock for tests.
type FixedClock struct {
	mu  sync.RWMutex
	now time.Time
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Set moves the clock to the given instant.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC()
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
