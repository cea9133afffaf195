// Package random provides the injectable random source used by the simulation
// engine together with weighted-choice helpers.
//
// Every core function takes a Source explicitly. The process-wide generator is
// only reached through Default, which the orchestration layer passes in.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// Source yields uniformly distributed values in [0, 1).
// *math/rand.Rand satisfies Source.
type Source interface {
	Float64() float64
}

// New returns a seeded, reproducible source. The returned source is not safe
// for concurrent use; give each goroutine its own.
func New(seed int64) Source {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // simulation randomness, not security sensitive
}

// globalSource delegates to the math/rand top-level generator, which is
// goroutine-safe.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() } //nolint:gosec // simulation randomness

// Default returns the process-wide generator.
func Default() Source { return globalSource{} }

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Locked wraps src with a mutex so a seeded source can be shared between
// goroutines. Draw order across goroutines is not deterministic.
func Locked(src Source) Source {
	if src == nil {
		return Default()
	}
	if _, ok := src.(*lockedSource); ok {
		return src
	}
	return &lockedSource{src: src}
}

type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// sequence replays a fixed list of values, wrapping around at the end.
type sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequence returns a Source that cycles through values. Values outside
// [0, 1) are clamped into range. An empty sequence always yields 0.
func NewSequence(values ...float64) Source {
	vs := make([]float64, len(values))
	for i, v := range values {
		switch {
		case v < 0:
			v = 0
		case v >= 1:
			v = 0.999999
		}
		vs[i] = v
	}
	return &sequence{values: vs}
}

func (s *sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}
