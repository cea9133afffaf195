package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/ringside/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.Productions, convey.ShouldEqual, 12)
				convey.So(cfg.SegmentsPerProduction, convey.ShouldEqual, 6)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("RINGSIDE_ADDR", ":8080")
			_ = os.Setenv("RINGSIDE_QUEUE_SIZE", "64")
			_ = os.Setenv("RINGSIDE_WORKER_COUNT", "3")
			_ = os.Setenv("RINGSIDE_SEED", "42")
			_ = os.Setenv("RINGSIDE_TICKET_PRICE", "75.5")
			_ = os.Setenv("RINGSIDE_BRAND_NAME", "Friday Night Fury")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.Seed, convey.ShouldEqual, 42)
				convey.So(cfg.TicketPrice, convey.ShouldEqual, 75.5)
				convey.So(cfg.BrandName, convey.ShouldEqual, "Friday Night Fury")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
# booking
productions: 4
segments_per_production: 5
exclusion_window: 3
team_probability: 0.5
participant_weights:
  "2": 0.5
  "3": 0.5
gender_weights:
  male: 0.5
  female: 0.5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RINGSIDE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Productions, convey.ShouldEqual, 4)
				convey.So(cfg.SegmentsPerProduction, convey.ShouldEqual, 5)
				convey.So(cfg.ExclusionWindow, convey.ShouldEqual, 3)
				convey.So(cfg.TeamProbability, convey.ShouldEqual, 0.5)
				convey.So(cfg.ParticipantWeights, convey.ShouldResemble, map[string]float64{"2": 0.5, "3": 0.5})
				convey.So(cfg.GenderWeights, convey.ShouldHaveLength, 2)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
queue_size: 300
worker_count: 24
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RINGSIDE_CONFIG", tmpFile)
			_ = os.Setenv("RINGSIDE_ADDR", ":8080")
			_ = os.Setenv("RINGSIDE_WORKER_COUNT", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RINGSIDE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("RINGSIDE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When an environment value has the wrong type", func() {
			_ = os.Setenv("RINGSIDE_QUEUE_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the loaded values fail validation", func() {
			_ = os.Setenv("RINGSIDE_SEGMENTS_PER_PRODUCTION", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "segments_per_production")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with YAML file containing an empty addr", func() {
			tmpFile := createTempConfigFile("addr: \"\"\nworker_count: 24\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RINGSIDE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return validation error for empty addr", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"RINGSIDE_CONFIG",
		"RINGSIDE_ADDR",
		"RINGSIDE_QUEUE_SIZE",
		"RINGSIDE_WORKER_COUNT",
		"RINGSIDE_SEED",
		"RINGSIDE_TICKET_PRICE",
		"RINGSIDE_BRAND_NAME",
		"RINGSIDE_SEGMENTS_PER_PRODUCTION",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "ringside-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
