// Package worker books queued production requests in the background.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/pkg/logger"
	"github.com/okian/ringside/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Request is what workers read off the queue.
type Request = model.BookingRequest

// Booker turns a request into a booked production.
type Booker interface {
	Book(ctx context.Context, req Request) (model.Production, error)
}

// Recorder persists a booked production.
type Recorder interface {
	Record(ctx context.Context, p model.Production) error
}

// Queue defines how workers receive requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Request
}

// Worker processes requests using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled, Shutdown is called or
	// the queue is drained after being closed.
	Run(ctx context.Context)

	// Shutdown stops the worker after the request in flight, if any.
	Shutdown(ctx context.Context) error
}

// Stats is a snapshot of pool activity.
type Stats struct {
	Workers   int   `json:"workers"`
	Active    int64 `json:"active"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

type counters struct {
	active    atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	booker   Booker
	recorder Recorder
	name     string
	counters *counters

	stopped  atomic.Bool
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, booker Booker, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		booker:   booker,
		recorder: recorder,
		name:     "worker",
		counters: &counters{},
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	requests := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case req, ok := <-requests:
			if !ok {
				return
			}
			if err := w.processRequest(ctx, req); err != nil {
				w.logger.Error(ctx, "error processing request", logger.Error(err))
			}
		}
	}
}

// Shutdown signals the worker and waits for Run to return.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	if !w.signal() {
		return ErrStopped
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("%w: %w", ErrShutdownTimeout, ctx.Err())
	}
}

// signal closes the shutdown channel once and reports whether it did.
func (w *InMemoryWorker) signal() bool {
	if !w.stopped.CompareAndSwap(false, true) {
		return false
	}
	close(w.shutdown)
	return true
}

func (w *InMemoryWorker) processRequest(ctx context.Context, req Request) error { //nolint:gocritic // hugeParam: Request is passed by value for channel semantics
	start := time.Now()
	metrics.UpdateWorkerActiveCount(int(w.counters.active.Add(1)))
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.counters.active.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	production, err := w.booker.Book(ctx, req)
	if err != nil {
		w.fail("booking_error")
		return fmt.Errorf("failed to book request %s: %w", req.ID, err)
	}

	if err := w.recorder.Record(ctx, production); err != nil {
		w.fail("record_error")
		return fmt.Errorf("failed to record production %s: %w", production.ID, err)
	}

	w.counters.processed.Add(1)
	w.logger.Debug(ctx, "production booked",
		logger.String("requestID", req.ID),
		logger.String("productionID", production.ID),
		logger.Int("segments", len(production.Segments)),
		logger.Float64("rating", production.Rating),
	)
	return nil
}

func (w *InMemoryWorker) fail(kind string) {
	w.counters.failed.Add(1)
	metrics.RecordWorkerError()
	metrics.RecordErrorByComponent("worker", kind)
	metrics.RecordErrorByType(kind, "high")
}

// Pool manages multiple workers.
type Pool struct {
	workers  []*InMemoryWorker
	queue    Queue
	counters *counters

	started  atomic.Bool
	stopOnce sync.Once
	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a new worker pool. A count below one uses a multiple of
// the CPU count.
func NewPool(workerCount int, queue Queue, booker Booker, recorder Recorder) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    queue,
		counters: &counters{},
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			booker,
			recorder,
			WithName("worker-"+strconv.Itoa(i)),
			withCounters(pool.counters),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	go p.startMetricsUpdater(ctx)
}

// Stats returns a snapshot of pool activity.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   len(p.workers),
		Active:    p.counters.active.Load(),
		Processed: p.counters.processed.Load(),
		Failed:    p.counters.failed.Load(),
	}
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			metrics.UpdateWorkerCount(len(p.workers))
			metrics.UpdateWorkerActiveCount(int(p.counters.active.Load()))
		}
	}
}

// Stop signals every worker and waits briefly for each to finish. Queued
// requests that were not picked up stay in the queue.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.shutdown) })

	for _, worker := range p.workers {
		worker.signal()
	}
	if !p.started.Load() {
		return
	}
	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
			p.logger.Warn(context.Background(), "worker did not stop in time", logger.String("worker", worker.name))
		}
	}
}

// Shutdown closes the queue and lets workers drain the backlog. Workers
// still busy when ctx (or the pool deadline) expires are stopped.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	if !p.started.Load() {
		p.Stop()
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var err error
	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.String("worker", worker.name))
			err = fmt.Errorf("%w: %w", ErrShutdownTimeout, shutdownCtx.Err())
		}
		if err != nil {
			break
		}
	}

	p.Stop()
	return err
}
