// Package pool selects and groups performers for a single segment.
package pool

import (
	"github.com/samber/lo"

	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/random"
)

// Defaults for segment generation.
const (
	DefaultMinPoints       = 40
	DefaultTeamProbability = 0.3

	minParticipants   = 2
	minTeamCandidates = 4
	teamCount         = 2
)

// DefaultParticipantCounts is the default segment size distribution.
func DefaultParticipantCounts() []random.Outcome[int] {
	return []random.Outcome[int]{
		{Value: 2, Weight: 0.7},
		{Value: 3, Weight: 0.2},
		{Value: 4, Weight: 0.1},
	}
}

// DefaultGenderWeights is the default preferred-gender distribution.
func DefaultGenderWeights() []random.Outcome[model.Gender] {
	return []random.Outcome[model.Gender]{
		{Value: model.GenderMale, Weight: 0.75},
		{Value: model.GenderFemale, Weight: 0.25},
	}
}

// Constraints narrow the roster for one generation call.
type Constraints struct {
	// MinPoints drops performers whose points fall below it.
	MinPoints float64
	// Exclude lists performer ids that must not be picked.
	Exclude []string
}

// DefaultConstraints returns constraints with the default point floor and no
// exclusions.
func DefaultConstraints() Constraints {
	return Constraints{MinPoints: DefaultMinPoints}
}

// Generator produces appearances for one segment. A Generator holds no state
// between calls beyond its configuration and random source.
type Generator struct {
	src             random.Source
	counts          []random.Outcome[int]
	genders         []random.Outcome[model.Gender]
	teamProbability float64
}

// NewGenerator creates a generator with configuration options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		src:             random.Default(),
		counts:          DefaultParticipantCounts(),
		genders:         DefaultGenderWeights(),
		teamProbability: DefaultTeamProbability,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate picks participants from roster and assigns them to sides.
//
// Fewer than two eligible performers yields an empty result; that is the
// "not enough participants" outcome, not an error. No performer appears twice.
func (g *Generator) Generate(roster []model.Performer, c Constraints) []model.Appearance {
	excluded := lo.Associate(c.Exclude, func(id string) (string, struct{}) { return id, struct{}{} })

	eligible := lo.Filter(roster, func(p model.Performer, _ int) bool {
		if !p.Active {
			return false
		}
		if p.Points < c.MinPoints {
			return false
		}
		_, skip := excluded[p.ID]
		return !skip
	})
	eligible = lo.UniqBy(eligible, func(p model.Performer) string { return p.ID })
	if len(eligible) < minParticipants {
		return []model.Appearance{}
	}

	count, _ := random.ChooseOutcome(g.src, g.counts)
	if count > len(eligible) {
		count = len(eligible)
	}

	candidates := g.preferGender(eligible, count)

	used := make(map[string]struct{}, count)
	if random.Chance(g.src, g.teamProbability) && len(candidates) >= minTeamCandidates {
		return g.teams(candidates, count, used)
	}
	return g.individuals(candidates, count, used)
}

// preferGender restricts the pool to a drawn gender when that still leaves
// enough candidates, otherwise it keeps the whole pool.
func (g *Generator) preferGender(eligible []model.Performer, count int) []model.Performer {
	preferred, ok := random.ChooseOutcome(g.src, g.genders)
	if !ok {
		return eligible
	}
	restricted := lo.Filter(eligible, func(p model.Performer, _ int) bool { return p.Gender == preferred })
	if len(restricted) >= count {
		return restricted
	}
	return eligible
}

// individuals gives every picked performer its own side.
func (g *Generator) individuals(candidates []model.Performer, count int, used map[string]struct{}) []model.Appearance {
	out := make([]model.Appearance, 0, count)
	for group := 1; group <= count; group++ {
		p, ok := g.pickUnused(candidates, used)
		if !ok {
			break
		}
		out = append(out, newAppearance(p, group))
	}
	return out
}

// teams forms two sides of count/2 performers each. A side that runs out of
// candidates stays short.
func (g *Generator) teams(candidates []model.Performer, count int, used map[string]struct{}) []model.Appearance {
	size := count / teamCount
	out := make([]model.Appearance, 0, size*teamCount)
	for group := 1; group <= teamCount; group++ {
		for i := 0; i < size; i++ {
			p, ok := g.pickUnused(candidates, used)
			if !ok {
				break
			}
			out = append(out, newAppearance(p, group))
		}
	}
	return out
}

// pickUnused draws uniformly among candidates not yet used in this call and
// marks the pick as used.
func (g *Generator) pickUnused(candidates []model.Performer, used map[string]struct{}) (model.Performer, bool) {
	free := lo.Filter(candidates, func(p model.Performer, _ int) bool {
		_, taken := used[p.ID]
		return !taken
	})
	p, ok := random.Pick(g.src, free)
	if ok {
		used[p.ID] = struct{}{}
	}
	return p, ok
}

func newAppearance(p model.Performer, group int) model.Appearance {
	return model.Appearance{
		PerformerID: p.ID,
		GroupID:     group,
		Manager:     false,
		Cost:        p.Cost,
	}
}
