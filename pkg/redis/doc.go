// Package redis provides connection helpers for the Redis instance used by
// the real-time notification deliverer: env-driven configuration,
// connect-with-retry, and a health check closure.
package redis
