package redis

import "errors"

var (
	ErrEmptyConnectionURL           = errors.New("empty redis connection URL, use REDIS_URL env var")
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection URL")
	ErrRedisNotReady                = errors.New("redis is not ready after the configured connect retries")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed, connection is not available")
)
