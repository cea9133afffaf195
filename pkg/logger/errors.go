package logger

import "errors"

var (
	// ErrUnknownLevel is returned for level names SetLevelString does not know.
	ErrUnknownLevel = errors.New("unknown log level")
	// ErrUnknownFormat is returned by Init for formats other than text and json.
	ErrUnknownFormat = errors.New("unknown log format")
)
