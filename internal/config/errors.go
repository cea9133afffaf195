package config

import "errors"

// ErrInvalidConfig marks a loaded configuration that Validate rejects.
// ErrLoadConfig wraps failures reading the config file or decoding values.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
