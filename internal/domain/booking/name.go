package booking

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/okian/ringside/internal/domain/model"
)

const untitled = "Untitled Segment"

// SegmentName titles a segment from the names of its sides.
//
//	0 names  "Untitled Segment"
//	1 name   the name itself
//	2 names  "A vs B"
//	3 names  "Triple Threat: A vs B vs C"
//	4 names  "Fatal Four-Way: A vs B vs C vs D"
//	n names  "n-Way Match: A vs ..."
func SegmentName(names []string) string {
	joined := strings.Join(names, " vs ")
	switch len(names) {
	case 0:
		return untitled
	case 1:
		return names[0]
	case 2:
		return joined
	case 3:
		return "Triple Threat: " + joined
	case 4:
		return "Fatal Four-Way: " + joined
	default:
		return fmt.Sprintf("%d-Way Match: %s", len(names), joined)
	}
}

// Title names a segment from its participants. Members of a side are joined
// with " & "; a card of singles falls back to SegmentName.
func Title(participants []model.Participant) string {
	competitors := lo.Filter(participants, func(p model.Participant, _ int) bool { return !p.Manager })
	if len(competitors) == 0 {
		competitors = participants
	}

	groups := lo.Uniq(lo.Map(competitors, func(p model.Participant, _ int) int { return p.GroupID }))
	sides := lo.Map(groups, func(group int, _ int) string {
		members := lo.Filter(competitors, func(p model.Participant, _ int) bool { return p.GroupID == group })
		return strings.Join(lo.Map(members, func(p model.Participant, _ int) string { return displayName(p) }), " & ")
	})

	if len(competitors) > len(sides) {
		return strings.Join(sides, " vs ")
	}
	return SegmentName(sides)
}

func displayName(p model.Participant) string {
	if p.Performer.Name != "" {
		return p.Performer.Name
	}
	return p.PerformerID
}
