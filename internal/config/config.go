// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/okian/ringside/internal/domain/finance"
	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/pool"
	"github.com/okian/ringside/internal/domain/random"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the ops HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory booking request queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of booking workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many request ids are remembered for idempotent submission.
	DedupeSize int `koanf:"dedupe_size"`

	// Seed makes a run reproducible for any worker count: the generated
	// roster and every show booked for a request id replay. Zero picks a
	// fresh seed.
	Seed int64 `koanf:"seed"`

	// RosterFile points at a YAML roster. Empty generates RosterSize performers.
	RosterFile string `koanf:"roster_file"`
	RosterSize int    `koanf:"roster_size"`

	BrandName             string `koanf:"brand_name"`
	Productions           int    `koanf:"productions"`
	SegmentsPerProduction int    `koanf:"segments_per_production"`

	// ExclusionWindow is how many recent performers sit out the next segment.
	ExclusionWindow int     `koanf:"exclusion_window"`
	MinPoints       float64 `koanf:"min_points"`
	TeamProbability float64 `koanf:"team_probability"`

	// ParticipantWeights maps participant counts ("2", "3", ...) to weights.
	// Empty uses the built-in distribution.
	ParticipantWeights map[string]float64 `koanf:"participant_weights"`

	// GenderWeights maps "male"/"female" to weights. Empty uses the built-in
	// distribution.
	GenderWeights map[string]float64 `koanf:"gender_weights"`

	BaseAttendance  int     `koanf:"base_attendance"`
	TicketPrice     float64 `koanf:"ticket_price"`
	MerchMultiplier float64 `koanf:"merch_multiplier"`
	TVMultiplier    float64 `koanf:"tv_multiplier"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		QueueSize:             1024,
		WorkerCount:           runtime.NumCPU(),
		DedupeSize:            50_000,
		RosterSize:            40,
		BrandName:             "Monday Night Mayhem",
		Productions:           12,
		SegmentsPerProduction: 6,
		ExclusionWindow:       6,
		MinPoints:             pool.DefaultMinPoints,
		TeamProbability:       pool.DefaultTeamProbability,
		BaseAttendance:        finance.DefaultBaseAttendance,
		TicketPrice:           finance.DefaultTicketPrice,
		MerchMultiplier:       finance.DefaultMerchMultiplier,
		TVMultiplier:          finance.DefaultTVMultiplier,
	}
}

// Validate reports the first invalid setting wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return invalid("addr must not be empty")
	case !slices.Contains([]string{"", "text", "json"}, strings.ToLower(c.LogFormat)):
		return invalid("log_format must be text or json, got %q", c.LogFormat)
	case c.SegmentsPerProduction <= 0:
		return invalid("segments_per_production must be positive, got %d", c.SegmentsPerProduction)
	case c.Productions < 0:
		return invalid("productions must not be negative, got %d", c.Productions)
	case c.RosterFile == "" && c.RosterSize <= 0:
		return invalid("roster_size must be positive without a roster_file, got %d", c.RosterSize)
	case c.ExclusionWindow < 0:
		return invalid("exclusion_window must not be negative, got %d", c.ExclusionWindow)
	case c.MinPoints < 0:
		return invalid("min_points must not be negative, got %g", c.MinPoints)
	case c.TeamProbability < 0 || c.TeamProbability > 1:
		return invalid("team_probability must be within [0,1], got %g", c.TeamProbability)
	case c.BaseAttendance < 0 || c.TicketPrice < 0 || c.MerchMultiplier < 0 || c.TVMultiplier < 0:
		return invalid("finance parameters must not be negative")
	}

	if _, err := c.ParticipantOutcomes(); err != nil {
		return err
	}
	if _, err := c.GenderOutcomes(); err != nil {
		return err
	}
	return nil
}

// ParticipantOutcomes converts ParticipantWeights into a distribution ordered
// by count. It returns nil when no weights are configured.
func (c *Config) ParticipantOutcomes() ([]random.Outcome[int], error) {
	if len(c.ParticipantWeights) == 0 {
		return nil, nil
	}

	outcomes := make([]random.Outcome[int], 0, len(c.ParticipantWeights))
	for key, weight := range c.ParticipantWeights {
		count, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || count < 1 {
			return nil, invalid("participant_weights key %q is not a positive count", key)
		}
		outcomes = append(outcomes, random.Outcome[int]{Value: count, Weight: weight})
	}
	slices.SortFunc(outcomes, func(a, b random.Outcome[int]) int { return a.Value - b.Value })

	if err := checkWeights("participant_weights", lo.Map(outcomes, func(o random.Outcome[int], _ int) float64 { return o.Weight })); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// GenderOutcomes converts GenderWeights into a distribution ordered by gender.
// It returns nil when no weights are configured.
func (c *Config) GenderOutcomes() ([]random.Outcome[model.Gender], error) {
	if len(c.GenderWeights) == 0 {
		return nil, nil
	}

	outcomes := make([]random.Outcome[model.Gender], 0, len(c.GenderWeights))
	for key, weight := range c.GenderWeights {
		g := model.Gender(strings.ToLower(strings.TrimSpace(key)))
		if g != model.GenderMale && g != model.GenderFemale {
			return nil, invalid("gender_weights key %q is not male or female", key)
		}
		outcomes = append(outcomes, random.Outcome[model.Gender]{Value: g, Weight: weight})
	}
	slices.SortFunc(outcomes, func(a, b random.Outcome[model.Gender]) int { return strings.Compare(string(a.Value), string(b.Value)) })

	if err := checkWeights("gender_weights", lo.Map(outcomes, func(o random.Outcome[model.Gender], _ int) float64 { return o.Weight })); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func checkWeights(name string, weights []float64) error {
	if lo.SomeBy(weights, func(w float64) bool { return w < 0 }) {
		return invalid("%s must not contain negative weights", name)
	}
	if lo.Sum(weights) <= 0 {
		return invalid("%s must have a positive total weight", name)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
