package constants

import "errors"

// Configuration errors.
var (
	ErrNoAPIEndpoint     = errors.New("no API endpoint configured")
	ErrInvalidTimeout    = errors.New("timeout must be positive")
	ErrUnknownOutput     = errors.New("unknown output format")
	ErrUnknownSink       = errors.New("unknown sink")
	ErrUnknownConfigKey  = errors.New("unknown configuration key")
	ErrNoConfigFile      = errors.New("no config file available")
	ErrSinkPathRequired  = errors.New("sink requires a path")
	ErrSinkNATSRequired  = errors.New("sink requires a NATS URL")
	ErrInvalidBookRange  = errors.New("invalid book id range")
	ErrInvalidBookID     = errors.New("book id must be a positive integer")
	ErrMissingBookBucket = errors.New("books bucket missing")
)
