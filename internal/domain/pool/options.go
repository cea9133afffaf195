package pool

import (
	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/random"
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSource sets the random source used for every draw.
func WithSource(src random.Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.src = src
		}
	}
}

// WithParticipantCounts replaces the participant count distribution.
// Outcomes with a non-positive count or negative weight are ignored.
func WithParticipantCounts(outcomes []random.Outcome[int]) Option {
	return func(g *Generator) {
		valid := make([]random.Outcome[int], 0, len(outcomes))
		for _, o := range outcomes {
			if o.Value > 0 && o.Weight >= 0 {
				valid = append(valid, o)
			}
		}
		if len(valid) > 0 {
			g.counts = valid
		}
	}
}

// WithGenderWeights replaces the preferred-gender distribution.
func WithGenderWeights(outcomes []random.Outcome[model.Gender]) Option {
	return func(g *Generator) {
		valid := make([]random.Outcome[model.Gender], 0, len(outcomes))
		for _, o := range outcomes {
			if o.Weight >= 0 {
				valid = append(valid, o)
			}
		}
		if len(valid) > 0 {
			g.genders = valid
		}
	}
}

// WithTeamProbability sets the chance that a segment is a two-team contest.
func WithTeamProbability(p float64) Option {
	return func(g *Generator) {
		if p >= 0 && p <= 1 {
			g.teamProbability = p
		}
	}
}
