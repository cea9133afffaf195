package match_test

import (
	"testing"

	"github.com/okian/ringside/internal/domain/match"
	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/random"
	. "github.com/smartystreets/goconvey/convey"
)

func participant(id string, group int, p model.Performer) model.Participant {
	p.ID = id
	return model.Participant{
		Appearance: model.Appearance{PerformerID: id, GroupID: group},
		Performer:  p,
	}
}

func TestWeight(t *testing.T) {
	Convey("Given a performer with every attribute set", t, func() {
		p := model.Performer{Points: 80, Morale: 60, Stamina: 50, Popularity: 40, Charisma: 30}

		Convey("Then the weight follows the documented formula", func() {
			// 80 + 30 + 15 + 14
			So(match.Weight(p), ShouldAlmostEqual, 139.0, 1e-9)
		})
	})

	Convey("Given a performer with zero points and nothing else", t, func() {
		Convey("Then the weight floors at one point", func() {
			So(match.Weight(model.Performer{}), ShouldEqual, 1.0)
		})
	})
}

func TestSimulate(t *testing.T) {
	Convey("Given no participants", t, func() {
		_, err := match.Simulate(random.New(1), nil)

		Convey("Then it reports a contract violation", func() {
			So(err, ShouldEqual, match.ErrNoAppearances)
		})
	})

	Convey("Given participants on a single side", t, func() {
		in := []model.Participant{
			participant("a", 1, model.Performer{Points: 90}),
			participant("b", 1, model.Performer{Points: 50}),
		}
		out, err := match.Simulate(random.New(1), in)

		Convey("Then nobody wins or loses", func() {
			So(err, ShouldBeNil)
			So(out, ShouldResemble, in)
			So(match.Decided(out), ShouldBeFalse)
		})
	})

	Convey("Given two evenly matched sides", t, func() {
		a := model.Performer{Points: 95, Morale: 70, Stamina: 80, Popularity: 80, Charisma: 75, Alignment: model.AlignmentFace}
		b := model.Performer{Points: 90, Morale: 65, Stamina: 75, Popularity: 75, Charisma: 70, Alignment: model.AlignmentHeel}
		in := []model.Participant{participant("a", 1, a), participant("b", 2, b)}

		Convey("When simulated many times", func() {
			src := random.New(11)
			for i := 0; i < 200; i++ {
				out, err := match.Simulate(src, in)
				So(err, ShouldBeNil)

				winners, losers := 0, 0
				for _, p := range out {
					So(p.Winner && p.Loser, ShouldBeFalse)
					if p.Winner {
						winners++
					}
					if p.Loser {
						losers++
					}
				}

				So(winners, ShouldEqual, 1)
				So(losers, ShouldEqual, 1)
			}

			Convey("And the caller's slice is left untouched", func() {
				So(in[0].Winner || in[0].Loser, ShouldBeFalse)
				So(in[1].Winner || in[1].Loser, ShouldBeFalse)
			})
		})
	})

	Convey("Given a tag match with a manager in each corner", t, func() {
		heavy := model.Performer{Points: 100}
		light := model.Performer{Points: 1}
		manager := participant("m1", 1, model.Performer{Points: 0})
		manager.Manager = true
		rival := participant("m2", 2, model.Performer{Points: 100})
		rival.Manager = true
		in := []model.Participant{
			participant("a1", 1, heavy),
			participant("a2", 1, heavy),
			manager,
			participant("b1", 2, light),
			participant("b2", 2, light),
			rival,
		}

		Convey("When the draw lands in team one's weight", func() {
			// Team one holds 200 of 202 weight; managers carry none.
			out, err := match.Simulate(random.NewSequence(0.5), in)

			Convey("Then all of team one wins, managers included", func() {
				So(err, ShouldBeNil)
				for _, p := range out {
					if p.GroupID == 1 {
						So(p.Winner, ShouldBeTrue)
						So(p.Loser, ShouldBeFalse)
					} else {
						So(p.Winner, ShouldBeFalse)
						So(p.Loser, ShouldBeTrue)
					}
				}
			})
		})

		Convey("When the draw lands at the very end", func() {
			out, err := match.Simulate(random.NewSequence(0.999), in)

			Convey("Then team two takes it", func() {
				So(err, ShouldBeNil)
				So(out[3].Winner, ShouldBeTrue)
				So(out[5].Winner, ShouldBeTrue)
				So(out[0].Loser, ShouldBeTrue)
				So(out[2].Loser, ShouldBeTrue)
			})
		})
	})

	Convey("Given a triple threat", t, func() {
		in := []model.Participant{
			participant("a", 1, model.Performer{Points: 10}),
			participant("b", 2, model.Performer{Points: 10}),
			participant("c", 3, model.Performer{Points: 10}),
		}
		out, err := match.Simulate(random.NewSequence(0.5), in)

		Convey("Then the middle bucket wins and both others lose", func() {
			So(err, ShouldBeNil)
			So(out[1].Winner, ShouldBeTrue)
			So(out[0].Loser, ShouldBeTrue)
			So(out[2].Loser, ShouldBeTrue)
			So(match.Groups(out), ShouldResemble, []int{1, 2, 3})
		})
	})

	Convey("Given two sides made only of managers", t, func() {
		m1 := participant("a", 1, model.Performer{Points: 50})
		m1.Manager = true
		m2 := participant("b", 2, model.Performer{Points: 50})
		m2.Manager = true
		_, err := match.Simulate(random.New(1), []model.Participant{m1, m2})

		Convey("Then there is nobody to win", func() {
			So(err, ShouldEqual, match.ErrNoContenders)
		})
	})
}
