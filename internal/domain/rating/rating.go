// Package rating scores the entertainment quality of a segment.
//
// Scoring is a flat list of independent additive rules over the linked
// performers' attributes. It is deterministic and never fails.
package rating

import (
	"github.com/samber/lo"

	"github.com/okian/ringside/internal/domain/model"
)

// normalizer converts the accumulated rule score into the published score.
const normalizer = 100

// Diagnostics records the intermediate values a scoring pass looked at.
type Diagnostics struct {
	Performers int `json:"performers"`

	AvgPoints     float64 `json:"avg_points"`
	AvgMorale     float64 `json:"avg_morale"`
	AvgPopularity float64 `json:"avg_popularity"`
	AvgCharisma   float64 `json:"avg_charisma"`

	Stars           int  `json:"stars"`
	AllMoraleHigh   bool `json:"all_morale_high"`
	AllPopular      bool `json:"all_popular"`
	MixedAlignment  bool `json:"mixed_alignment"`
	SameAlignment   bool `json:"same_alignment"`
	HasFaceOrHeel   bool `json:"has_face_or_heel"`
	PointsScore     int  `json:"points_score"`
	MoraleScore     int  `json:"morale_score"`
	PopularityScore int  `json:"popularity_score"`
	AlignmentScore  int  `json:"alignment_score"`
	CharismaScore   int  `json:"charisma_score"`
	RawScore        int  `json:"raw_score"`
}

// Result is the outcome of a scoring pass.
type Result struct {
	Score   float64       `json:"score"`
	History []Diagnostics `json:"history"`
}

// Segment scores a segment from its participants. Fewer than two
// participants score zero with no history.
func Segment(participants []model.Participant) Result {
	if len(participants) < 2 {
		return Result{Score: 0, History: []Diagnostics{}}
	}

	ps := model.Performers(participants)
	d := Diagnostics{
		Performers:    len(ps),
		AvgPoints:     average(ps, func(p model.Performer) float64 { return p.Points }),
		AvgMorale:     average(ps, func(p model.Performer) float64 { return p.Morale }),
		AvgPopularity: average(ps, func(p model.Performer) float64 { return p.Popularity }),
		AvgCharisma:   average(ps, func(p model.Performer) float64 { return p.Charisma }),
		Stars:         lo.CountBy(ps, func(p model.Performer) bool { return p.Points >= 90 }),
	}

	d.PointsScore = pointsScore(ps, &d)
	d.MoraleScore = moraleScore(ps, &d)
	d.PopularityScore = popularityScore(ps, &d)
	d.AlignmentScore = alignmentScore(ps, &d)
	d.CharismaScore = charismaScore(ps, &d)
	d.RawScore = d.PointsScore + d.MoraleScore + d.PopularityScore + d.AlignmentScore + d.CharismaScore

	score := float64(d.RawScore) / normalizer
	if score < 0 {
		score = 0
	}
	return Result{Score: score, History: []Diagnostics{d}}
}

func pointsScore(ps []model.Performer, d *Diagnostics) int {
	score := 0
	if someone(ps, func(p model.Performer) bool { return p.Points >= 50 }) {
		score += 50
	}
	if d.AvgPoints > 50 {
		score += 50
	}
	if someone(ps, func(p model.Performer) bool { return p.Points == 0 }) {
		score -= 50
	}
	if someone(ps, func(p model.Performer) bool { return p.Points <= 20 }) {
		score -= 20
	}
	score += 100 * d.Stars
	return score
}

func moraleScore(ps []model.Performer, d *Diagnostics) int {
	score := 0
	if someone(ps, func(p model.Performer) bool { return p.Morale >= 50 }) {
		score += 50
	}
	d.AllMoraleHigh = lo.EveryBy(ps, func(p model.Performer) bool { return p.Morale >= 60 })
	if d.AllMoraleHigh {
		score += 20
	}
	if someone(ps, func(p model.Performer) bool { return p.Morale == 0 }) {
		score -= 5
	}
	if someone(ps, func(p model.Performer) bool { return p.Morale <= 20 }) {
		score -= 30
	}
	if d.AvgMorale > 50 {
		score += 50
	}
	return score
}

func popularityScore(ps []model.Performer, d *Diagnostics) int {
	score := 0
	if someone(ps, func(p model.Performer) bool { return p.Popularity <= 5 }) {
		score -= 50
	}
	if someone(ps, func(p model.Performer) bool { return p.Popularity <= 30 }) {
		score -= 50
	}
	d.AllPopular = lo.EveryBy(ps, func(p model.Performer) bool { return p.Popularity >= 80 })
	if d.AllPopular {
		score += 40
	}
	if someone(ps, func(p model.Performer) bool { return p.Popularity >= 90 }) {
		score += 70
	}
	for _, tier := range []struct {
		above float64
		bonus int
	}{{50, 50}, {80, 20}, {90, 10}, {95, 100}} {
		if d.AvgPopularity > tier.above {
			score += tier.bonus
		}
	}
	return score
}

func alignmentScore(ps []model.Performer, d *Diagnostics) int {
	score := 0
	alignments := lo.Uniq(lo.Map(ps, func(p model.Performer, _ int) model.Alignment { return p.Alignment }))
	d.MixedAlignment = len(alignments) >= 2
	d.SameAlignment = len(alignments) == 1
	d.HasFaceOrHeel = lo.Contains(alignments, model.AlignmentFace) || lo.Contains(alignments, model.AlignmentHeel)
	if d.MixedAlignment {
		score += 50
	}
	if d.SameAlignment {
		score -= 200
	}
	if d.HasFaceOrHeel {
		score += 50
	}
	return score
}

func charismaScore(ps []model.Performer, d *Diagnostics) int {
	score := 0
	if someone(ps, func(p model.Performer) bool { return p.Charisma >= 70 }) {
		score += 50
	}
	if d.AvgCharisma > 50 {
		score += 50
	}
	if someone(ps, func(p model.Performer) bool { return p.Charisma == 0 }) {
		score -= 50
	}
	if someone(ps, func(p model.Performer) bool { return p.Charisma <= 20 }) {
		score -= 50
	}
	return score
}

func someone(ps []model.Performer, pred func(model.Performer) bool) bool {
	return lo.SomeBy(ps, pred)
}

func average(ps []model.Performer, field func(model.Performer) float64) float64 {
	if len(ps) == 0 {
		return 0
	}
	return lo.SumBy(ps, field) / float64(len(ps))
}
