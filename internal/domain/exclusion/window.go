// Package exclusion tracks a bounded window of recently used ids.
//
// Booking uses a window to keep performers from being reused across
// consecutive segments; the service uses one to make request submission
// idempotent.
package exclusion

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
	"github.com/samber/lo"
)

// DefaultMaxSize is the window size used when none is configured.
const DefaultMaxSize = 50000

// Window records ids and evicts the oldest once full. It is safe for
// concurrent use.
type Window struct {
	maxSize int
	cache   *lru.Cache
}

// New creates a window with configuration options.
func New(opts ...Option) *Window {
	w := &Window{maxSize: DefaultMaxSize}

	for _, opt := range opts {
		opt(w)
	}

	// lru.New only fails for a non-positive size, which options rule out.
	cache, err := lru.New(w.maxSize)
	if err != nil {
		panic(err)
	}
	w.cache = cache

	return w
}

// SeenAndRecord atomically checks if id is in the window and records it if
// not. Returns true if id was already present. A hit does not refresh the
// id's position.
func (w *Window) SeenAndRecord(_ context.Context, id string) bool {
	seen, _ := w.cache.ContainsOrAdd(id, struct{}{})
	return seen
}

// Record adds ids to the window, moving already present ids to the most
// recent position.
func (w *Window) Record(_ context.Context, ids ...string) {
	for _, id := range ids {
		w.cache.Add(id, struct{}{})
	}
}

// Unrecord removes id from the window so it can be used again.
func (w *Window) Unrecord(_ context.Context, id string) {
	w.cache.Remove(id)
}

// Contains reports whether id is in the window.
func (w *Window) Contains(id string) bool {
	return w.cache.Contains(id)
}

// IDs returns the window contents, most recent first.
func (w *Window) IDs() []string {
	ids := lo.Map(w.cache.Keys(), func(k interface{}, _ int) string { return k.(string) })
	return lo.Reverse(ids)
}

// Size returns the number of ids in the window.
func (w *Window) Size() int64 {
	return int64(w.cache.Len())
}

// MaxSize returns the window capacity.
func (w *Window) MaxSize() int {
	return w.maxSize
}
