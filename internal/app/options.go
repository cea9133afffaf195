package service

import (
	"github.com/okian/ringside/internal/adapters/repository"
	"github.com/okian/ringside/internal/domain/booking"
	"github.com/okian/ringside/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of booking workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending booking requests.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many request ids are remembered for idempotent
// submission.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore replaces the default in-memory store. The caller keeps ownership
// and closes it.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithBookerOptions passes options through to the booker. Bookings draw
// from a source derived from the seed and the request id, so a WithSource
// here only reaches direct BookSegment calls.
func WithBookerOptions(opts ...booking.Option) Option {
	return func(s *Service) {
		s.bookerOpts = append(s.bookerOpts, opts...)
	}
}

// WithSeed makes booking reproducible: a request id booked under the same
// seed and roster always yields the same show, whatever the worker count.
// Zero picks a fresh seed.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}
