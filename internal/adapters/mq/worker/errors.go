package worker

import "errors"

var (
	// ErrStopped is returned when a worker is shut down twice.
	ErrStopped = errors.New("worker already stopped")
	// ErrShutdownTimeout is returned when workers outlive the shutdown deadline.
	ErrShutdownTimeout = errors.New("worker shutdown timed out")
)
