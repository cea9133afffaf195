package booking_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/ringside/internal/domain/booking"
	"github.com/okian/ringside/internal/domain/finance"
	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/pool"
	"github.com/okian/ringside/internal/domain/random"
)

var showTime = time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC)

func roster(n int) []model.Performer {
	out := make([]model.Performer, n)
	for i := range out {
		out[i] = model.Performer{
			ID:         fmt.Sprintf("p%d", i+1),
			Name:       fmt.Sprintf("Performer %d", i+1),
			Points:     60,
			Popularity: 50,
			Morale:     60,
			Stamina:    60,
			Charisma:   60,
			Alignment:  model.AlignmentFace,
			Gender:     model.GenderMale,
			Active:     true,
			Cost:       100,
		}
		if i%2 == 1 {
			out[i].Alignment = model.AlignmentHeel
		}
	}
	return out
}

func singles(seed int64) *booking.Booker {
	return booking.NewBooker(
		booking.WithSource(random.New(seed)),
		booking.WithPoolOptions(
			pool.WithParticipantCounts([]random.Outcome[int]{{Value: 2, Weight: 1}}),
			pool.WithTeamProbability(0),
		),
		booking.WithClock(func() time.Time { return showTime }),
	)
}

func performerIDs(p model.Production) []string {
	return lo.FlatMap(p.Segments, func(s model.Segment, _ int) []string {
		return lo.Map(s.Appearances, func(a model.Appearance, _ int) string { return a.PerformerID })
	})
}

func TestSegmentName(t *testing.T) {
	Convey("Given lists of side names", t, func() {
		Convey("Then each size gets its billing", func() {
			So(booking.SegmentName(nil), ShouldEqual, "Untitled Segment")
			So(booking.SegmentName([]string{"Ace"}), ShouldEqual, "Ace")
			So(booking.SegmentName([]string{"Ace", "Blaze"}), ShouldEqual, "Ace vs Blaze")
			So(booking.SegmentName([]string{"A", "B", "C"}), ShouldEqual, "Triple Threat: A vs B vs C")
			So(booking.SegmentName([]string{"A", "B", "C", "D"}), ShouldEqual, "Fatal Four-Way: A vs B vs C vs D")

			six := booking.SegmentName([]string{"A", "B", "C", "D", "E", "F"})
			So(six, ShouldStartWith, "6-Way Match")
			for _, n := range []string{"A", "B", "C", "D", "E", "F"} {
				So(six, ShouldContainSubstring, n)
			}
		})
	})
}

func TestTitle(t *testing.T) {
	p := func(id, name string, group int, manager bool) model.Participant {
		return model.Participant{
			Appearance: model.Appearance{PerformerID: id, GroupID: group, Manager: manager},
			Performer:  model.Performer{ID: id, Name: name},
		}
	}

	Convey("Given a tag team segment", t, func() {
		ps := []model.Participant{
			p("a", "Ace", 1, false), p("b", "Blaze", 1, false),
			p("c", "Crush", 2, false), p("d", "Dash", 2, false),
		}

		Convey("Then partners are joined on each side", func() {
			So(booking.Title(ps), ShouldEqual, "Ace & Blaze vs Crush & Dash")
		})
	})

	Convey("Given a triple threat with a manager at ringside", t, func() {
		ps := []model.Participant{
			p("a", "Ace", 1, false), p("m", "Manny", 1, true),
			p("b", "Blaze", 2, false), p("c", "Crush", 3, false),
		}

		Convey("Then the manager is left off the billing", func() {
			So(booking.Title(ps), ShouldEqual, "Triple Threat: Ace vs Blaze vs Crush")
		})
	})

	Convey("Given performers without names", t, func() {
		ps := []model.Participant{p("x1", "", 1, false), p("x2", "", 2, false)}

		Convey("Then ids stand in", func() {
			So(booking.Title(ps), ShouldEqual, "x1 vs x2")
		})
	})

	Convey("Given nobody", t, func() {
		So(booking.Title(nil), ShouldEqual, "Untitled Segment")
	})
}

func TestBookSegment(t *testing.T) {
	Convey("Given a booker for singles matches", t, func() {
		b := singles(3)

		Convey("When the roster is too small", func() {
			_, ok, err := b.BookSegment(roster(1), nil)

			Convey("Then nothing is booked and nothing fails", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the roster has two eligible performers", func() {
			booked, ok, err := b.BookSegment(roster(2), nil)

			Convey("Then a decided, rated singles match comes back", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(booked.Segment.ID, ShouldNotBeEmpty)
				So(booked.Segment.Appearances, ShouldHaveLength, 2)
				So(booked.Segment.Decided, ShouldBeTrue)
				So(booked.Segment.Name, ShouldContainSubstring, " vs ")
				So(booked.Segment.Rating, ShouldEqual, booked.Rating.Score)
				So(booked.Participants, ShouldHaveLength, 2)
			})
		})

		Convey("When every other performer is excluded", func() {
			_, ok, err := b.BookSegment(roster(3), []string{"p1", "p2"})

			Convey("Then the segment cannot be filled", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestBookProduction(t *testing.T) {
	ctx := context.Background()
	brand := model.Brand{ID: "raw", Name: "Raw"}

	Convey("Given a booker for singles matches", t, func() {
		b := singles(17)

		Convey("When the request has no segments", func() {
			_, err := b.BookProduction(ctx, model.BookingRequest{Segments: 0}, roster(4), brand)

			Convey("Then the request is rejected", func() {
				So(errors.Is(err, booking.ErrInvalidRequest), ShouldBeTrue)
			})
		})

		Convey("When a roster of eight fills three segments", func() {
			r := roster(8)
			prod, err := b.BookProduction(ctx, model.BookingRequest{ID: "show-1", Segments: 3}, r, brand)

			Convey("Then the recent window keeps everyone fresh", func() {
				So(err, ShouldBeNil)
				So(prod.ID, ShouldEqual, "show-1")
				So(prod.BrandID, ShouldEqual, "raw")
				So(prod.Name, ShouldEqual, "Raw Live")
				So(prod.Segments, ShouldHaveLength, 3)
				So(prod.Skipped, ShouldEqual, 0)

				ids := performerIDs(prod)
				So(ids, ShouldHaveLength, 6)
				So(lo.Uniq(ids), ShouldHaveLength, 6)
			})

			Convey("And the financials cover the unique performers on the card", func() {
				card := lo.Filter(r, func(p model.Performer, _ int) bool { return lo.Contains(performerIDs(prod), p.ID) })
				So(prod.Attendance, ShouldEqual, finance.Attendance(card, finance.DefaultBaseAttendance))
				So(prod.TalentCost, ShouldEqual, 600)
				So(prod.Profit, ShouldEqual, prod.TotalRevenue-prod.TalentCost)
				So(prod.BookedAt, ShouldEqual, showTime)

				mean := lo.SumBy(prod.Segments, func(s model.Segment) float64 { return s.Rating }) / 3
				So(prod.Rating, ShouldAlmostEqual, mean)
			})
		})

		Convey("When the window leaves too few performers", func() {
			prod, err := b.BookProduction(ctx, model.BookingRequest{Segments: 2}, roster(3), brand)

			Convey("Then recent performers are reused rather than skipping", func() {
				So(err, ShouldBeNil)
				So(prod.ID, ShouldNotBeEmpty)
				So(prod.Segments, ShouldHaveLength, 2)
				So(prod.Skipped, ShouldEqual, 0)
			})
		})

		Convey("When the request excludes performers", func() {
			prod, err := b.BookProduction(ctx, model.BookingRequest{Segments: 4, Exclude: []string{"p1", "p2"}}, roster(4), brand)

			Convey("Then they never appear, even under window pressure", func() {
				So(err, ShouldBeNil)
				So(prod.Segments, ShouldHaveLength, 4)
				So(performerIDs(prod), ShouldNotContain, "p1")
				So(performerIDs(prod), ShouldNotContain, "p2")
			})
		})

		Convey("When the roster cannot fill any segment", func() {
			prod, err := b.BookProduction(ctx, model.BookingRequest{Segments: 2}, roster(1), brand)

			Convey("Then every segment is skipped and the base crowd is projected", func() {
				So(err, ShouldBeNil)
				So(prod.Segments, ShouldBeEmpty)
				So(prod.Skipped, ShouldEqual, 2)
				So(prod.Rating, ShouldEqual, 0)
				So(prod.Attendance, ShouldEqual, finance.DefaultBaseAttendance)
				So(prod.TalentCost, ShouldEqual, 0)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := b.BookProduction(cctx, model.BookingRequest{Segments: 2}, roster(4), brand)

			Convey("Then booking stops with the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})

	Convey("Given a booker without a recent window", t, func() {
		b := booking.NewBooker(
			booking.WithSource(random.New(5)),
			booking.WithExclusionWindow(0),
			booking.WithMinPoints(0),
		)

		Convey("When many productions are booked concurrently", func() {
			var wg sync.WaitGroup
			errs := make([]error, 8)
			for i := range errs {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = b.BookProduction(ctx, model.BookingRequest{Segments: 3}, roster(10), brand)
				}(i)
			}
			wg.Wait()

			Convey("Then every booking succeeds", func() {
				for _, err := range errs {
					So(err, ShouldBeNil)
				}
			})
		})
	})
}

func TestBookProductionFrom(t *testing.T) {
	ctx := context.Background()
	brand := model.Brand{ID: "raw", Name: "Raw"}
	req := model.BookingRequest{ID: "raw-week-01", Segments: 4}

	Convey("Given a booker whose shared source keeps moving", t, func() {
		b := singles(3)
		_, _, _ = b.BookSegment(roster(8), nil)

		Convey("When the same request is booked twice from equal sources", func() {
			first, errA := b.BookProductionFrom(ctx, random.Derive(9, req.ID), req, roster(8), brand)
			_, _ = b.BookProduction(ctx, model.BookingRequest{Segments: 2}, roster(8), brand)
			second, errB := b.BookProductionFrom(ctx, random.Derive(9, req.ID), req, roster(8), brand)

			Convey("Then both shows are identical, segment ids included", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(second, ShouldResemble, first)
				So(first.Segments[0].ID, ShouldEqual, "raw-week-01-seg-01")
				So(first.Segments[3].ID, ShouldEqual, "raw-week-01-seg-04")
			})
		})

		Convey("When no source is given", func() {
			prod, err := b.BookProductionFrom(ctx, nil, req, roster(8), brand)

			Convey("Then the shared source is used", func() {
				So(err, ShouldBeNil)
				So(prod.Segments, ShouldHaveLength, 4)
			})
		})
	})
}
