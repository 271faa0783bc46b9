// Package pg provides PostgreSQL connection helpers for the billing stores:
// env-driven pool configuration, connect-with-retry, a health check closure,
// and error classification helpers for not-found and constraint violations.
package pg
