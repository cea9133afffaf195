package booking

import (
	"time"

	"github.com/okian/ringside/internal/domain/finance"
	"github.com/okian/ringside/internal/domain/pool"
	"github.com/okian/ringside/internal/domain/random"
)

// Option applies a configuration option to the Booker.
type Option func(*Booker)

// WithSource sets the random source shared by pool generation and match
// simulation. The source is wrapped so concurrent bookings are safe.
func WithSource(src random.Source) Option {
	return func(b *Booker) {
		if src != nil {
			b.draws.src = random.Locked(src)
		}
	}
}

// WithPoolOptions passes options through to the pool generator.
func WithPoolOptions(opts ...pool.Option) Option {
	return func(b *Booker) {
		b.poolOpts = append(b.poolOpts, opts...)
	}
}

// WithFinance sets the financial projection model.
func WithFinance(m *finance.Model) Option {
	return func(b *Booker) {
		if m != nil {
			b.finance = m
		}
	}
}

// WithMinPoints sets the point floor for eligible performers.
func WithMinPoints(points float64) Option {
	return func(b *Booker) {
		if points >= 0 {
			b.minPoints = points
		}
	}
}

// WithExclusionWindow sets how many recently booked performers are held
// back from the next segments of the same production.
func WithExclusionWindow(size int) Option {
	return func(b *Booker) {
		if size >= 0 {
			b.window = size
		}
	}
}

// WithClock sets the time source used to stamp productions.
func WithClock(now func() time.Time) Option {
	return func(b *Booker) {
		if now != nil {
			b.now = now
		}
	}
}
