package service

import (
	"sync"

	"github.com/okian/ringside/internal/domain/model"
)

// sequencer releases finished bookings in submission order. Workers finish
// out of order; results are applied to the store in the order requests
// were accepted so streaks, balances and listings replay under a seed.
type sequencer struct {
	mu    sync.Mutex
	next  uint64
	flush uint64
	seqs  map[string]uint64
	done  map[uint64]outcome
}

// outcome is a finished booking. A failed booking has ok false.
type outcome struct {
	id         string
	production model.Production
	ok         bool
}

func newSequencer() *sequencer {
	return &sequencer{
		seqs: make(map[string]uint64),
		done: make(map[uint64]outcome),
	}
}

// reserve gives id the next slot. Callers serialize reserve and release.
func (q *sequencer) reserve(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seqs[id] = q.next
	q.next++
}

// release returns the slot taken by the latest reserve of id.
func (q *sequencer) release(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if seq, ok := q.seqs[id]; ok && seq == q.next-1 {
		delete(q.seqs, id)
		q.next--
	}
}

// complete marks id finished and hands every outcome that is now in order
// to apply, under the sequencer lock. Unknown ids are applied at once.
func (q *sequencer) complete(o outcome, apply func(outcome)) {
	q.mu.Lock()
	defer q.mu.Unlock()

	seq, ok := q.seqs[o.id]
	if !ok {
		apply(o)
		return
	}
	delete(q.seqs, o.id)
	q.done[seq] = o

	for {
		ready, ok := q.done[q.flush]
		if !ok {
			return
		}
		delete(q.done, q.flush)
		q.flush++
		apply(ready)
	}
}

// waiting returns how many finished outcomes are held back.
func (q *sequencer) waiting() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.done)
}
