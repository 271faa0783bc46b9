package config

import "errors"

// ErrParsingConfig is returned when environment variables cannot be parsed
// into the target struct.
var ErrParsingConfig = errors.New("config: failed to parse environment variables")
