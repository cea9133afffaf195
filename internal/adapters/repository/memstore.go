package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/pkg/metrics"
)

const defaultMetricsUpdateInterval = 5 * time.Second

// MemoryStore is an in-memory Store. Lists come back in insertion order so
// seeded simulations stay reproducible.
type MemoryStore struct {
	mu sync.RWMutex

	performers      map[string]model.Performer
	performerOrder  []string
	brands          map[string]model.Brand
	productions     map[string]model.Production
	productionOrder []string

	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewMemoryStore constructs a store with configuration options. Background
// metrics updates run until ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		performers:            make(map[string]model.Performer),
		brands:                make(map[string]model.Brand),
		productions:           make(map[string]model.Production),
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.startMetricsUpdater(ctx)

	return s
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// PutPerformer implements Store.PutPerformer.
func (s *MemoryStore) PutPerformer(_ context.Context, p model.Performer) error {
	defer observeUpdate(time.Now())

	if p.ID == "" {
		return fmt.Errorf("%w: performer id is empty", ErrInvalidRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.performers[p.ID]; !ok {
		s.performerOrder = append(s.performerOrder, p.ID)
	}
	s.performers[p.ID] = p
	return nil
}

// Performer implements Store.Performer.
func (s *MemoryStore) Performer(_ context.Context, id string) (model.Performer, error) {
	defer observeQuery(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.performers[id]
	if !ok {
		return model.Performer{}, notFound("performer", id)
	}
	return p, nil
}

// Performers implements Store.Performers.
func (s *MemoryStore) Performers(_ context.Context, brandID string) ([]model.Performer, error) {
	defer observeQuery(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.performersLocked(brandID), nil
}

func (s *MemoryStore) performersLocked(brandID string) []model.Performer {
	out := make([]model.Performer, 0, len(s.performerOrder))
	for _, id := range s.performerOrder {
		p := s.performers[id]
		if brandID == "" || p.BrandID == brandID {
			out = append(out, p)
		}
	}
	return out
}

// PutBrand implements Store.PutBrand.
func (s *MemoryStore) PutBrand(_ context.Context, b model.Brand) error {
	defer observeUpdate(time.Now())

	if b.ID == "" {
		return fmt.Errorf("%w: brand id is empty", ErrInvalidRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.brands[b.ID] = b
	return nil
}

// Brand implements Store.Brand.
func (s *MemoryStore) Brand(_ context.Context, id string) (model.Brand, error) {
	defer observeQuery(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.brands[id]
	if !ok {
		return model.Brand{}, notFound("brand", id)
	}
	return b, nil
}

// AdjustBalance implements Store.AdjustBalance.
func (s *MemoryStore) AdjustBalance(_ context.Context, brandID string, delta float64) (model.Brand, error) {
	defer observeUpdate(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.brands[brandID]
	if !ok {
		return model.Brand{}, notFound("brand", brandID)
	}
	b.Balance += delta
	s.brands[brandID] = b
	return b, nil
}

// SaveProduction implements Store.SaveProduction.
func (s *MemoryStore) SaveProduction(_ context.Context, p model.Production) error {
	defer observeUpdate(time.Now())

	if p.ID == "" {
		return fmt.Errorf("%w: production id is empty", ErrInvalidRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.productions[p.ID]; !ok {
		s.productionOrder = append(s.productionOrder, p.ID)
	}
	p.Segments = slices.Clone(p.Segments)
	s.productions[p.ID] = p
	return nil
}

// Production implements Store.Production.
func (s *MemoryStore) Production(_ context.Context, id string) (model.Production, error) {
	defer observeQuery(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.productions[id]
	if !ok {
		return model.Production{}, notFound("production", id)
	}
	p.Segments = slices.Clone(p.Segments)
	return p, nil
}

// Productions implements Store.Productions.
func (s *MemoryStore) Productions(_ context.Context, brandID string) ([]model.Production, error) {
	defer observeQuery(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Production, 0, len(s.productionOrder))
	for _, id := range s.productionOrder {
		p := s.productions[id]
		if brandID == "" || p.BrandID == brandID {
			p.Segments = slices.Clone(p.Segments)
			out = append(out, p)
		}
	}
	return out, nil
}

// RecordResults implements Store.RecordResults.
func (s *MemoryStore) RecordResults(_ context.Context, appearances []model.Appearance) error {
	defer observeUpdate(time.Now())

	decided := lo.Filter(appearances, func(a model.Appearance, _ int) bool { return a.Winner || a.Loser })

	s.mu.Lock()
	defer s.mu.Unlock()

	if missing, ok := lo.Find(decided, func(a model.Appearance) bool {
		_, known := s.performers[a.PerformerID]
		return !known
	}); ok {
		return notFound("performer", missing.PerformerID)
	}

	for _, a := range decided {
		p := s.performers[a.PerformerID]
		if a.Winner {
			p = p.RecordWin()
		} else {
			p = p.RecordLoss()
		}
		s.performers[a.PerformerID] = p
	}
	return nil
}

// Standings implements Store.Standings.
func (s *MemoryStore) Standings(_ context.Context, brandID string, n int) ([]Standing, error) {
	defer observeQuery(time.Now())

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	rows := lo.Map(s.performersLocked(brandID), func(p model.Performer, _ int) Standing {
		return Standing{
			PerformerID: p.ID,
			Name:        p.Name,
			Wins:        p.Wins,
			Losses:      p.Losses,
			Streak:      p.Streak,
			Points:      p.Points,
		}
	})
	s.mu.RUnlock()

	sortStandings(rows)
	assignRanksWithTies(rows)

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.performers)
}

// sortStandings orders by wins desc, losses asc, then id asc.
func sortStandings(rows []Standing) {
	slices.SortStableFunc(rows, func(a, b Standing) int {
		if a.Wins != b.Wins {
			return b.Wins - a.Wins
		}
		if a.Losses != b.Losses {
			return a.Losses - b.Losses
		}
		return strings.Compare(a.PerformerID, b.PerformerID)
	})
}

// assignRanksWithTies gives equal records the same rank; ranks are
// consecutive.
func assignRanksWithTies(rows []Standing) {
	rank := 0
	for i := range rows {
		if i == 0 || rows[i].Wins != rows[i-1].Wins || rows[i].Losses != rows[i-1].Losses {
			rank++
		}
		rows[i].Rank = rank
	}
}

// startMetricsUpdater starts a background goroutine that updates repository metrics.
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *MemoryStore) updateMetrics() {
	s.mu.RLock()
	performers, brands, productions := len(s.performers), len(s.brands), len(s.productions)
	s.mu.RUnlock()

	metrics.UpdateRepositoryRecords("performers", performers)
	metrics.UpdateRepositoryRecords("brands", brands)
	metrics.UpdateRepositoryRecords("productions", productions)
	metrics.UpdateTotalPerformers(performers)
}

func notFound(kind, id string) error {
	metrics.RecordErrorByComponent("repository", "not_found")
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

func observeUpdate(start time.Time) {
	metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
}

func observeQuery(start time.Time) {
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
}
