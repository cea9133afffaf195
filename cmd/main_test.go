package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/ringside/internal/adapters/roster"
	app "github.com/okian/ringside/internal/app"
	"github.com/okian/ringside/internal/config"
	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/random"
	"github.com/okian/ringside/pkg/logger"
)

func init() {
	_ = logger.Init(logger.WithLevel("error"))
}

func testConfig() *config.Config {
	cfg := config.New(context.Background())
	cfg.WorkerCount = 2
	cfg.QueueSize = 32
	cfg.Seed = 11
	cfg.MinPoints = 0
	cfg.RosterSize = 16
	return cfg
}

func TestMainConfiguration(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When configuration comes from the environment", func() {
			_ = os.Setenv("RINGSIDE_ADDR", ":8081")
			_ = os.Setenv("RINGSIDE_QUEUE_SIZE", "100")
			_ = os.Setenv("RINGSIDE_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("RINGSIDE_ADDR")
				_ = os.Unsetenv("RINGSIDE_QUEUE_SIZE")
				_ = os.Unsetenv("RINGSIDE_WORKER_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 100)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When the address is empty", func() {
			_ = os.Setenv("RINGSIDE_ADDR", "")
			defer func() { _ = os.Unsetenv("RINGSIDE_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestBrandID(t *testing.T) {
	convey.Convey("Given brand names", t, func() {
		convey.So(brandID("Monday Night Mayhem"), convey.ShouldEqual, "monday-night-mayhem")
		convey.So(brandID("  Raw   Power "), convey.ShouldEqual, "raw-power")
		convey.So(brandID("   "), convey.ShouldEqual, "main")
	})
}

func TestNewService(t *testing.T) {
	convey.Convey("Given a configuration", t, func() {
		cfg := testConfig()

		convey.Convey("When the weights are valid", func() {
			cfg.ParticipantWeights = map[string]float64{"2": 1, "3": 1}
			cfg.GenderWeights = map[string]float64{"female": 1}
			svc, err := newService(cfg, logger.Get())

			convey.Convey("Then the service is built with the configured seed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.Seed(), convey.ShouldEqual, 11)
			})
		})

		convey.Convey("When a participant key is not a number", func() {
			cfg.ParticipantWeights = map[string]float64{"many": 1}
			svc, err := newService(cfg, logger.Get())

			convey.Convey("Then building fails with an invalid config error", func() {
				convey.So(svc, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a gender weight is negative", func() {
			cfg.GenderWeights = map[string]float64{"male": -1}
			_, err := newService(cfg, logger.Get())
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func TestLoadRoster(t *testing.T) {
	convey.Convey("Given a configuration", t, func() {
		ctx := context.Background()
		cfg := testConfig()

		convey.Convey("When no roster file is set", func() {
			performers, err := loadRoster(ctx, cfg, "raw", 5)

			convey.Convey("Then a roster is generated from the seed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(performers, convey.ShouldHaveLength, cfg.RosterSize)
				again, _ := loadRoster(ctx, cfg, "raw", 5)
				convey.So(again, convey.ShouldResemble, performers)
			})
		})

		convey.Convey("When a roster file is set", func() {
			path := filepath.Join(t.TempDir(), "roster.yaml")
			written := roster.Generate(random.New(3), 6, "raw")
			convey.So(roster.Write(path, written), convey.ShouldBeNil)
			cfg.RosterFile = path

			convey.Convey("Then the file is loaded", func() {
				performers, err := loadRoster(ctx, cfg, "raw", 5)
				convey.So(err, convey.ShouldBeNil)
				convey.So(performers, convey.ShouldResemble, written)
			})
		})

		convey.Convey("When the roster file is missing", func() {
			cfg.RosterFile = filepath.Join(t.TempDir(), "missing.yaml")
			_, err := loadRoster(ctx, cfg, "raw", 5)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestRunSeason(t *testing.T) {
	convey.Convey("Given a started service with a registered brand", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cfg := testConfig()
		svc, err := newService(cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		brand := model.Brand{ID: "raw", Name: "Raw"}
		performers, err := loadRoster(ctx, cfg, brand.ID, svc.Seed())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.RegisterBrand(ctx, brand, performers), convey.ShouldBeNil)

		convey.Convey("When a season is run", func() {
			summary, err := runSeason(ctx, svc, brand, 4, 3)

			convey.Convey("Then every week is booked and accounted for", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(summary.Productions, convey.ShouldHaveLength, 4)
				convey.So(summary.Brand.Balance, convey.ShouldAlmostEqual, summary.Profit, 1e-6)
				convey.So(len(summary.Standings), convey.ShouldBeLessThanOrEqualTo, standingsShown)
				convey.So(summary.Best.ID, convey.ShouldNotBeEmpty)
				convey.So(summary.Rating, convey.ShouldBeGreaterThanOrEqualTo, 0.0)
			})

			convey.Convey("And productions are named after their week", func() {
				names := make([]string, 0, len(summary.Productions))
				for _, p := range summary.Productions {
					names = append(names, p.Name)
				}
				convey.So(names, convey.ShouldContain, "Raw Week 1")
				convey.So(names, convey.ShouldContain, "Raw Week 4")
			})
		})

		convey.Convey("When the brand is unknown", func() {
			summary, err := runSeason(ctx, svc, model.Brand{ID: "ghost", Name: "Ghost"}, 1, 3)

			convey.Convey("Then the missing brand is reported", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(summary.Productions, convey.ShouldBeEmpty)
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given the application mux", t, func() {
		svc := app.New(app.WithWorkerCount(1))
		defer svc.Stop()
		mux := newMux(context.Background(), svc)

		for _, path := range []string{"/healthz", "/stats", "/standings?brand=raw&limit=5", "/api-docs", "/openapi.yaml"} {
			req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		}

		req := httptest.NewRequest(http.MethodGet, "/productions/missing", http.NoBody)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		svc := app.New(app.WithWorkerCount(1))
		defer svc.Stop()

		convey.Convey("Then they stop with their context", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
			convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("Then single updates do not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})
	})
}
