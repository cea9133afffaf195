package model

// Appearance is one performer's role within one segment.
type Appearance struct {
	PerformerID string `json:"performer_id"`
	// GroupID identifies the side. Appearances sharing a GroupID are allies.
	GroupID int `json:"group_id"`
	// Manager marks a non-competing role; managers carry no weight in the
	// outcome draw but share their group's result.
	Manager bool `json:"manager"`
	// Cost is the performer's fee at booking time.
	Cost   float64 `json:"cost"`
	Winner bool    `json:"winner"`
	Loser  bool    `json:"loser"`
}

// Participant is an appearance joined with the performer it references.
// Joining is the caller's job; the match and rating engines only read it.
type Participant struct {
	Appearance
	Performer Performer `json:"performer"`
}

// Join attaches performers to appearances by id. Appearances whose performer
// is missing from roster are dropped.
func Join(appearances []Appearance, roster []Performer) []Participant {
	byID := make(map[string]Performer, len(roster))
	for _, p := range roster {
		byID[p.ID] = p
	}
	out := make([]Participant, 0, len(appearances))
	for _, a := range appearances {
		p, ok := byID[a.PerformerID]
		if !ok {
			continue
		}
		out = append(out, Participant{Appearance: a, Performer: p})
	}
	return out
}

// Appearances strips the joined performers.
func Appearances(ps []Participant) []Appearance {
	out := make([]Appearance, len(ps))
	for i, p := range ps {
		out[i] = p.Appearance
	}
	return out
}

// Performers returns the joined performers in order.
func Performers(ps []Participant) []Performer {
	out := make([]Performer, len(ps))
	for i, p := range ps {
		out[i] = p.Performer
	}
	return out
}
