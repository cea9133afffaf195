package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/samber/lo"

	"github.com/okian/ringside/internal/adapters/http/api"
	"github.com/okian/ringside/internal/adapters/http/swagger"
	"github.com/okian/ringside/internal/adapters/roster"
	app "github.com/okian/ringside/internal/app"
	"github.com/okian/ringside/internal/config"
	"github.com/okian/ringside/internal/domain/booking"
	"github.com/okian/ringside/internal/domain/finance"
	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/pool"
	"github.com/okian/ringside/internal/domain/random"
	"github.com/okian/ringside/pkg/logger"
	"github.com/okian/ringside/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	seasonTimeout             = 5 * time.Minute
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	standingsShown            = 5
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithLevel(cfg.LogLevel)); err != nil {
		os.Stderr.WriteString("failed to configure logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	svc, err := newService(cfg, log)
	if err != nil {
		log.Error(ctx, "invalid booking configuration", logger.Error(err))
		return
	}
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	brand := model.Brand{ID: brandID(cfg.BrandName), Name: cfg.BrandName}
	performers, err := loadRoster(ctx, cfg, brand.ID, svc.Seed())
	if err != nil {
		log.Error(ctx, "failed to load roster", logger.Error(err))
		return
	}
	if err := svc.RegisterBrand(ctx, brand, performers); err != nil {
		log.Error(ctx, "failed to register brand", logger.Error(err))
		return
	}

	mux := newMux(ctx, svc)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
		}
	}()

	seasonCtx, cancelSeason := context.WithTimeout(ctx, seasonTimeout)
	summary, err := runSeason(seasonCtx, svc, brand, cfg.Productions, cfg.SegmentsPerProduction)
	cancelSeason()
	if err != nil {
		log.Error(ctx, "season interrupted", logger.Error(err))
	} else {
		logSummary(ctx, log, summary)
	}

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// newService maps configuration onto the booking service.
func newService(cfg *config.Config, log logger.Logger) (*app.Service, error) {
	participants, err := cfg.ParticipantOutcomes()
	if err != nil {
		return nil, err
	}
	genders, err := cfg.GenderOutcomes()
	if err != nil {
		return nil, err
	}

	poolOpts := []pool.Option{pool.WithTeamProbability(cfg.TeamProbability)}
	if participants != nil {
		poolOpts = append(poolOpts, pool.WithParticipantCounts(participants))
	}
	if genders != nil {
		poolOpts = append(poolOpts, pool.WithGenderWeights(genders))
	}

	return app.New(
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithSeed(cfg.Seed),
		app.WithBookerOptions(
			booking.WithPoolOptions(poolOpts...),
			booking.WithMinPoints(cfg.MinPoints),
			booking.WithExclusionWindow(cfg.ExclusionWindow),
			booking.WithFinance(finance.NewModel(
				finance.WithBaseAttendance(cfg.BaseAttendance),
				finance.WithTicketPrice(cfg.TicketPrice),
				finance.WithMerchMultiplier(cfg.MerchMultiplier),
				finance.WithTVMultiplier(cfg.TVMultiplier),
			)),
		),
	), nil
}

// loadRoster reads the configured roster file or generates one from seed.
func loadRoster(ctx context.Context, cfg *config.Config, brandID string, seed int64) ([]model.Performer, error) {
	if cfg.RosterFile != "" {
		return roster.Load(ctx, cfg.RosterFile, brandID)
	}
	return roster.Generate(random.New(seed), cfg.RosterSize, brandID), nil
}

func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, api.DefaultMaxLimit).Register(ctx, mux)
	return mux
}

// brandID derives a stable id from a brand name.
func brandID(name string) string {
	id := strings.Join(strings.Fields(strings.ToLower(name)), "-")
	if id == "" {
		return "main"
	}
	return id
}

type seasonSummary struct {
	Brand       model.Brand
	Productions []model.Production
	Skipped     int
	Revenue     float64
	Profit      float64
	Rating      float64
	Best        model.Production
	Standings   []api.Standing
}

// runSeason submits one booking request per week, waits for all of them and
// summarises the results.
func runSeason(ctx context.Context, svc *app.Service, brand model.Brand, weeks, segments int) (seasonSummary, error) {
	for week := 1; week <= weeks; week++ {
		req := model.BookingRequest{
			ID:       fmt.Sprintf("%s-week-%02d", brand.ID, week),
			BrandID:  brand.ID,
			Name:     fmt.Sprintf("%s Week %d", brand.Name, week),
			Segments: segments,
		}
		if _, ok := svc.Submit(ctx, req); !ok {
			return seasonSummary{}, fmt.Errorf("booking request %s was not accepted", req.ID)
		}
	}
	if err := svc.Drain(ctx); err != nil {
		return seasonSummary{}, err
	}

	shows, err := svc.Productions(ctx, brand.ID)
	if err != nil {
		return seasonSummary{}, err
	}
	current, err := svc.Brand(ctx, brand.ID)
	if err != nil {
		return seasonSummary{}, err
	}
	standings, err := svc.Standings(ctx, brand.ID, standingsShown)
	if err != nil {
		return seasonSummary{}, err
	}

	summary := seasonSummary{
		Brand:       current,
		Productions: shows,
		Skipped:     lo.SumBy(shows, func(p model.Production) int { return p.Skipped }),
		Revenue:     lo.SumBy(shows, func(p model.Production) float64 { return p.TotalRevenue }),
		Profit:      lo.SumBy(shows, func(p model.Production) float64 { return p.Profit }),
		Standings:   standings,
	}
	if len(shows) > 0 {
		summary.Rating = lo.SumBy(shows, func(p model.Production) float64 { return p.Rating }) / float64(len(shows))
		summary.Best = lo.MaxBy(shows, func(a, b model.Production) bool { return a.Rating > b.Rating })
	}
	return summary, nil
}

func logSummary(ctx context.Context, log logger.Logger, s seasonSummary) { //nolint:gocritic // hugeParam: read-only summary
	log.Info(ctx, "season complete",
		logger.String("brand", s.Brand.Name),
		logger.Int("productions", len(s.Productions)),
		logger.Int("skippedSegments", s.Skipped),
		logger.Float64("revenue", s.Revenue),
		logger.Float64("profit", s.Profit),
		logger.Float64("balance", s.Brand.Balance),
		logger.Float64("averageRating", s.Rating),
		logger.String("bestShow", s.Best.Name),
	)
	for _, row := range s.Standings {
		log.Info(ctx, "standings",
			logger.Int("rank", row.Rank),
			logger.String("name", row.Name),
			logger.Int("wins", row.Wins),
			logger.Int("losses", row.Losses),
			logger.Int("streak", row.Streak),
		)
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater mirrors service stats into gauges.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()
	if n, ok := stats["totalPerformers"].(int); ok {
		metrics.UpdateTotalPerformers(n)
	}
	if n, ok := stats["workerCount"].(int); ok {
		metrics.UpdateWorkerCount(n)
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
