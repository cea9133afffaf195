// Package match resolves the winning side of a segment.
package match

import (
	"github.com/samber/lo"

	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/random"
)

// Performance weight coefficients.
const (
	moraleFactor   = 0.5
	staminaFactor  = 0.3
	presenceFactor = 0.2
)

// Weight is a performer's share of the outcome draw:
// points + 0.5*morale + 0.3*stamina + 0.2*(popularity+charisma).
// Zero points count as 1 so nobody is locked out of winning.
func Weight(p model.Performer) float64 {
	points := p.Points
	if points == 0 {
		points = 1
	}
	return points +
		moraleFactor*p.Morale +
		staminaFactor*p.Stamina +
		presenceFactor*(p.Popularity+p.Charisma)
}

// Groups returns the distinct group ids in order of first appearance.
func Groups(participants []model.Participant) []int {
	return lo.Uniq(lo.Map(participants, func(p model.Participant, _ int) int { return p.GroupID }))
}

// Decided reports whether participants carry a result.
func Decided(participants []model.Participant) bool {
	return lo.SomeBy(participants, func(p model.Participant) bool { return p.Winner || p.Loser })
}

// Simulate picks a winning side by performance-weighted draw among
// non-manager participants and labels every participant by group.
//
// The input slice is never modified. A single side is no contest and comes
// back unchanged. Managers share their group's result.
func Simulate(src random.Source, participants []model.Participant) ([]model.Participant, error) {
	if len(participants) == 0 {
		return nil, ErrNoAppearances
	}

	out := make([]model.Participant, len(participants))
	copy(out, participants)

	if len(Groups(out)) < 2 {
		return out, nil
	}

	contenders := lo.Filter(out, func(p model.Participant, _ int) bool { return !p.Manager })
	if len(contenders) == 0 {
		return nil, ErrNoContenders
	}

	winner, _ := random.Choose(src, contenders, func(p model.Participant) float64 { return Weight(p.Performer) })

	for i := range out {
		won := out[i].GroupID == winner.GroupID
		out[i].Winner = won
		out[i].Loser = !won
	}
	return out, nil
}
