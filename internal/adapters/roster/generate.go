package roster

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/random"
)

type tier struct {
	name      string
	minPoints float64
	maxPoints float64
	baseFee   float64
}

func tiers() []random.Outcome[tier] {
	return []random.Outcome[tier]{
		{Value: tier{name: "main event", minPoints: 85, maxPoints: 100, baseFee: 5000}, Weight: 0.15},
		{Value: tier{name: "midcard", minPoints: 55, maxPoints: 85, baseFee: 2000}, Weight: 0.45},
		{Value: tier{name: "undercard", minPoints: 30, maxPoints: 55, baseFee: 500}, Weight: 0.4},
	}
}

func alignments() []random.Outcome[model.Alignment] {
	return []random.Outcome[model.Alignment]{
		{Value: model.AlignmentFace, Weight: 0.45},
		{Value: model.AlignmentHeel, Weight: 0.45},
		{Value: model.AlignmentNeutral, Weight: 0.1},
	}
}

func genders() []random.Outcome[model.Gender] {
	return []random.Outcome[model.Gender]{
		{Value: model.GenderMale, Weight: 0.7},
		{Value: model.GenderFemale, Weight: 0.3},
	}
}

var (
	firstNames = []string{ //nolint:gochecknoglobals // name pool
		"Rex", "Vera", "Diesel", "Nova", "Blaze", "Ivy", "Tank", "Roxy",
		"Axel", "Luna", "Brick", "Jade", "Cobra", "Sky", "Duke", "Raven",
	}
	lastNames = []string{ //nolint:gochecknoglobals // name pool
		"Steele", "Storm", "Crusher", "Valentine", "Hammer", "Knight",
		"Fury", "Cross", "Savage", "Rhodes", "Blackwood", "Vega",
	}
)

// Generate builds n synthetic performers for brandID. Points, popularity
// and fee follow a drawn card tier; the other attributes vary around it.
// Ids are drawn from src too, so a seed reproduces the whole roster.
func Generate(src random.Source, n int, brandID string) []model.Performer {
	if n <= 0 {
		return []model.Performer{}
	}

	ids := random.NewReader(src)
	used := make(map[string]int, n)
	out := make([]model.Performer, 0, n)
	for i := 0; i < n; i++ {
		t, _ := random.ChooseOutcome(src, tiers())
		align, _ := random.ChooseOutcome(src, alignments())
		gender, _ := random.ChooseOutcome(src, genders())

		points := between(src, t.minPoints, t.maxPoints)
		id, err := uuid.NewRandomFromReader(ids)
		if err != nil {
			id = uuid.New()
		}
		out = append(out, model.Performer{
			ID:         id.String(),
			Name:       uniqueName(src, used),
			BrandID:    brandID,
			Points:     points,
			Popularity: clamp(points + between(src, -20, 15)),
			Morale:     between(src, 40, 100),
			Stamina:    between(src, 40, 100),
			Charisma:   clamp(points + between(src, -30, 20)),
			Alignment:  align,
			Gender:     gender,
			Active:     true,
			Cost:       math.Round(t.baseFee * (0.5 + points/100)),
		})
	}
	return out
}

func uniqueName(src random.Source, used map[string]int) string {
	first, _ := random.Pick(src, firstNames)
	last, _ := random.Pick(src, lastNames)
	name := first + " " + last
	used[name]++
	if used[name] > 1 {
		name = fmt.Sprintf("%s %d", name, used[name])
	}
	return name
}

// between draws a whole number in [lower, upper).
func between(src random.Source, lower, upper float64) float64 {
	return math.Floor(lower + src.Float64()*(upper-lower))
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
