// Package service wires the booking engine to its queue, workers and store.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ringside/internal/adapters/mq/queue"
	"github.com/okian/ringside/internal/adapters/mq/worker"
	"github.com/okian/ringside/internal/adapters/repository"
	"github.com/okian/ringside/internal/domain/booking"
	"github.com/okian/ringside/internal/domain/exclusion"
	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/random"
	"github.com/okian/ringside/pkg/logger"
	"github.com/okian/ringside/pkg/metrics"
)

const drainPollInterval = 10 * time.Millisecond

// bookerAdapter exposes the service's booking step to workers.
type bookerAdapter struct {
	s *Service
}

func (a *bookerAdapter) Book(ctx context.Context, req model.BookingRequest) (model.Production, error) { //nolint:gocritic // hugeParam: matches worker.Booker
	p, err := a.s.book(ctx, req)
	if err != nil {
		a.s.requests.Unrecord(ctx, req.ID)
		a.s.seq.complete(outcome{id: req.ID}, func(o outcome) { _ = a.s.apply(ctx, o) })
	}
	return p, err
}

// recorderAdapter exposes the service's persistence step to workers.
type recorderAdapter struct {
	s *Service
}

// Record hands p to the sequencer. The returned error belongs to p; failures
// of earlier productions released by the same call are logged.
func (a *recorderAdapter) Record(ctx context.Context, p model.Production) error { //nolint:gocritic // hugeParam: matches worker.Recorder
	var own error
	a.s.seq.complete(outcome{id: p.ID, production: p, ok: true}, func(o outcome) {
		err := a.s.apply(ctx, o)
		if o.id == p.ID {
			own = err
			return
		}
		if err != nil {
			metrics.RecordErrorByComponent("service", "record_error")
			a.s.logger.Error(ctx, "recording held production failed",
				logger.String("productionID", o.id),
				logger.Error(err),
			)
		}
	})
	return own
}

// Service books productions for brands whose rosters live in the store.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	ownStore bool
	booker   *booking.Booker
	requests *exclusion.Window
	seq      *sequencer
	queue    *queue.InMemoryQueue
	pool     *worker.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	seed        int64
	bookerOpts  []booking.Option

	// State
	started  bool
	pending  atomic.Int64
	submitMu sync.Mutex

	logger logger.Logger
}

// New constructs a Service. The store and booker are ready immediately, so
// BookProduction works before Start; Submit needs a started service.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
		dedupeSize:  exclusion.DefaultMaxSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore(context.Background())
		s.ownStore = true
	}
	if s.seed == 0 {
		seed, err := random.NewSeed()
		if err != nil {
			s.logger.Warn(context.Background(), "falling back to clock seed", logger.Error(err))
			seed = time.Now().UnixNano()
		}
		s.seed = seed
	}

	s.booker = booking.NewBooker(append([]booking.Option{booking.WithSource(random.New(s.seed))}, s.bookerOpts...)...)
	s.requests = exclusion.New(exclusion.WithMaxSize(s.dedupeSize))
	s.seq = newSequencer()

	return s
}

// Start creates the queue and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting booking service...")

	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithBufferSize(s.queueSize),
	)
	s.pool = worker.NewPool(s.workerCount, s.queue, &bookerAdapter{s: s}, &recorderAdapter{s: s})
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "booking service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Any("seed", s.seed),
	)

	return nil
}

// Stop closes the queue, lets workers finish the backlog and releases the
// store if the service created it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer s.closeStore()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping booking service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "booking service stopped")
}

func (s *Service) closeStore() {
	if !s.ownStore {
		return
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

// Seed returns the seed every booking source is derived from.
func (s *Service) Seed() int64 {
	return s.seed
}

// RegisterBrand stores a brand and its roster. Performers without a brand
// are assigned to it.
func (s *Service) RegisterBrand(ctx context.Context, brand model.Brand, roster []model.Performer) error {
	if err := s.store.PutBrand(ctx, brand); err != nil {
		return fmt.Errorf("register brand %q: %w", brand.ID, err)
	}
	for _, p := range roster {
		if p.BrandID == "" {
			p.BrandID = brand.ID
		}
		if err := s.store.PutPerformer(ctx, p); err != nil {
			return fmt.Errorf("register performer %q: %w", p.ID, err)
		}
	}
	metrics.UpdateTotalPerformers(s.store.Count(ctx))
	s.logger.Info(ctx, "brand registered",
		logger.String("brandID", brand.ID),
		logger.String("brand", brand.Name),
		logger.Int("roster", len(roster)),
	)
	return nil
}

// Submit queues req for asynchronous booking and returns its id. Ids are
// generated when empty. Resubmitting a remembered id is accepted without
// booking the show twice; an id whose booking failed is forgotten so it can
// be retried. ok is false when the service is not running,
// the request is invalid or the queue is full.
func (s *Service) Submit(ctx context.Context, req model.BookingRequest) (string, bool) { //nolint:gocritic // hugeParam: request is copied into the queue
	s.mu.RLock()
	defer s.mu.RUnlock()

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if !s.started {
		s.logger.Warn(ctx, "submit on stopped service", logger.String("requestID", req.ID))
		return req.ID, false
	}
	if req.Segments <= 0 || req.BrandID == "" {
		metrics.RecordBookingError()
		s.logger.Warn(ctx, "rejecting invalid booking request",
			logger.String("requestID", req.ID),
			logger.String("brandID", req.BrandID),
			logger.Int("segments", req.Segments),
		)
		return req.ID, false
	}

	if s.requests.SeenAndRecord(ctx, req.ID) {
		metrics.RecordRequestDuplicate()
		s.logger.Debug(ctx, "duplicate booking request, skipping", logger.String("requestID", req.ID))
		return req.ID, true
	}

	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	s.pending.Add(1)
	s.seq.reserve(req.ID)
	if !s.queue.Enqueue(ctx, req) {
		s.seq.release(req.ID)
		s.pending.Add(-1)
		s.requests.Unrecord(ctx, req.ID)
		s.logger.Warn(ctx, "booking queue rejected request", logger.String("requestID", req.ID))
		return req.ID, false
	}
	return req.ID, true
}

// Drain blocks until every accepted request has been booked or failed, or
// ctx is done.
func (s *Service) Drain(ctx context.Context) error {
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for s.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("drain with %d pending: %w", s.pending.Load(), ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}

// BookProduction books and records req synchronously.
func (s *Service) BookProduction(ctx context.Context, req model.BookingRequest) (model.Production, error) { //nolint:gocritic // hugeParam: request passed by value
	p, err := s.book(ctx, req)
	if err != nil {
		return model.Production{}, err
	}
	if err := s.record(ctx, p); err != nil {
		return model.Production{}, err
	}
	return p, nil
}

// Production returns a stored production.
func (s *Service) Production(ctx context.Context, id string) (model.Production, error) {
	return s.store.Production(ctx, id)
}

// Productions returns the stored productions of a brand in booking order.
func (s *Service) Productions(ctx context.Context, brandID string) ([]model.Production, error) {
	return s.store.Productions(ctx, brandID)
}

// Brand returns a stored brand with its current balance.
func (s *Service) Brand(ctx context.Context, id string) (model.Brand, error) {
	return s.store.Brand(ctx, id)
}

// Standings returns the top n performers of a brand by record.
func (s *Service) Standings(ctx context.Context, brandID string, n int) ([]repository.Standing, error) {
	return s.store.Standings(ctx, brandID, n)
}

func (s *Service) book(ctx context.Context, req model.BookingRequest) (model.Production, error) { //nolint:gocritic // hugeParam: request passed by value
	brand, err := s.store.Brand(ctx, req.BrandID)
	if err != nil {
		metrics.RecordBookingError()
		return model.Production{}, fmt.Errorf("booking request %s: %w", req.ID, err)
	}
	roster, err := s.store.Performers(ctx, brand.ID)
	if err != nil {
		metrics.RecordBookingError()
		return model.Production{}, fmt.Errorf("booking request %s: %w", req.ID, err)
	}

	p, err := s.booker.BookProductionFrom(ctx, random.Derive(s.seed, req.ID), req, roster, brand)
	if err != nil {
		metrics.RecordBookingError()
		return model.Production{}, err
	}
	return p, nil
}

// apply records a finished booking and settles its pending count.
func (s *Service) apply(ctx context.Context, o outcome) error { //nolint:gocritic // hugeParam: outcome passed by value
	defer s.pending.Add(-1)
	if !o.ok {
		return nil
	}
	return s.record(ctx, o.production)
}

// record applies match results and the show's profit, then stores it.
func (s *Service) record(ctx context.Context, p model.Production) error { //nolint:gocritic // hugeParam: production passed by value
	for _, seg := range p.Segments {
		if err := s.store.RecordResults(ctx, seg.Appearances); err != nil {
			return fmt.Errorf("recording results of %s: %w", seg.ID, err)
		}
	}

	brand, err := s.store.AdjustBalance(ctx, p.BrandID, p.Profit)
	if err != nil {
		return fmt.Errorf("adjusting balance for %s: %w", p.ID, err)
	}

	if err := s.store.SaveProduction(ctx, p); err != nil {
		return fmt.Errorf("saving production %s: %w", p.ID, err)
	}

	if p.Attendance < 0 {
		s.logger.Warn(ctx, "negative attendance projection",
			logger.String("productionID", p.ID),
			logger.Int("attendance", p.Attendance),
		)
	}
	s.logger.Info(ctx, "production recorded",
		logger.String("productionID", p.ID),
		logger.String("name", p.Name),
		logger.Int("segments", len(p.Segments)),
		logger.Int("skipped", p.Skipped),
		logger.Float64("rating", p.Rating),
		logger.Float64("profit", p.Profit),
		logger.Float64("balance", brand.Balance),
	)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"dedupeSize":      s.dedupeSize,
		"pending":         s.pending.Load(),
		"seenRequests":    s.requests.Size(),
		"totalPerformers": s.store.Count(ctx),
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		ws := s.pool.Stats()

		stats["queueLength"] = queueLen
		stats["activeWorkers"] = ws.Active
		stats["processed"] = ws.Processed
		stats["failed"] = ws.Failed
		stats["heldResults"] = s.seq.waiting()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(ws.Workers)
	}

	return stats
}
