// Package logger provides slog helpers shared across the billing and
// notification packages: a factory with sane production defaults and
// typed attribute constructors for the identifiers that appear in
// nearly every log line (user, subscription, payment, notification).
package logger
