// Package model contains domain models passed between layers.
package model

import "strings"

// Alignment is a performer's storyline disposition.
type Alignment string

// Known alignments.
const (
	AlignmentFace    Alignment = "FACE"
	AlignmentHeel    Alignment = "HEEL"
	AlignmentNeutral Alignment = "NEUTRAL"
)

// ParseAlignment normalises s into an Alignment. Unknown or empty values map
// to AlignmentNeutral.
func ParseAlignment(s string) Alignment {
	switch Alignment(strings.ToUpper(strings.TrimSpace(s))) {
	case AlignmentFace:
		return AlignmentFace
	case AlignmentHeel:
		return AlignmentHeel
	default:
		return AlignmentNeutral
	}
}

// Gender is the division a performer competes in.
type Gender string

// Known genders.
const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender normalises s into a Gender. Unknown or empty values map to
// GenderMale.
func ParseGender(s string) Gender {
	if Gender(strings.ToLower(strings.TrimSpace(s))) == GenderFemale {
		return GenderFemale
	}
	return GenderMale
}

// Performer is a roster member. Every attribute is mandatory; defaults are
// applied where external data enters the system, never inside the engine.
// The engine reads performers but never mutates them.
type Performer struct {
	ID      string `json:"id" koanf:"id"`
	Name    string `json:"name" koanf:"name"`
	BrandID string `json:"brand_id" koanf:"brand_id"`

	// Points is overall quality, nominally 0-100 but not clamped.
	Points     float64 `json:"points" koanf:"points"`
	Popularity float64 `json:"popularity" koanf:"popularity"`
	Morale     float64 `json:"morale" koanf:"morale"`
	Stamina    float64 `json:"stamina" koanf:"stamina"`
	Charisma   float64 `json:"charisma" koanf:"charisma"`
	// Damage accumulates injuries and fatigue.
	Damage float64 `json:"damage" koanf:"damage"`

	Alignment Alignment `json:"alignment" koanf:"alignment"`
	Gender    Gender    `json:"gender" koanf:"gender"`

	Wins   int `json:"wins" koanf:"wins"`
	Losses int `json:"losses" koanf:"losses"`
	// Streak is positive for consecutive wins and negative for consecutive losses.
	Streak int `json:"streak" koanf:"streak"`

	Active bool `json:"active" koanf:"active"`
	// Cost is the booking fee.
	Cost float64 `json:"cost" koanf:"cost"`
}

// RecordWin returns p with a win applied to its career record.
func (p Performer) RecordWin() Performer {
	p.Wins++
	if p.Streak < 0 {
		p.Streak = 0
	}
	p.Streak++
	return p
}

// RecordLoss returns p with a loss applied to its career record.
func (p Performer) RecordLoss() Performer {
	p.Losses++
	if p.Streak > 0 {
		p.Streak = 0
	}
	p.Streak--
	return p
}
