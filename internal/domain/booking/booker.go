// Package booking turns a roster into simulated segments and productions.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/okian/ringside/internal/domain/exclusion"
	"github.com/okian/ringside/internal/domain/finance"
	"github.com/okian/ringside/internal/domain/match"
	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/pool"
	"github.com/okian/ringside/internal/domain/random"
	"github.com/okian/ringside/internal/domain/rating"
	"github.com/okian/ringside/pkg/metrics"
)

// DefaultExclusionWindow is how many recently booked performers sit out
// the following segments of a production.
const DefaultExclusionWindow = 6

// Booked is a simulated segment together with the joined participants it was
// built from.
type Booked struct {
	Segment      model.Segment
	Participants []model.Participant
	Rating       rating.Result
}

// Booker runs the generate, simulate and rate pipeline. A Booker is safe for
// concurrent use; its only shared state is the locked random source.
type Booker struct {
	draws     draws
	poolOpts  []pool.Option
	finance   *finance.Model
	minPoints float64
	window    int
	now       func() time.Time
}

// draws pairs a source with the pool generator drawing from it.
type draws struct {
	src       random.Source
	generator *pool.Generator
}

// NewBooker creates a booker with configuration options.
func NewBooker(opts ...Option) *Booker {
	b := &Booker{
		draws:     draws{src: random.Locked(random.Default())},
		finance:   finance.NewModel(),
		minPoints: pool.DefaultMinPoints,
		window:    DefaultExclusionWindow,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(b)
	}

	b.draws = b.drawsFrom(b.draws.src)

	return b
}

func (b *Booker) drawsFrom(src random.Source) draws {
	return draws{
		src:       src,
		generator: pool.NewGenerator(append([]pool.Option{pool.WithSource(src)}, b.poolOpts...)...),
	}
}

// BookSegment generates, simulates and rates one segment. ok is false when
// the roster has too few eligible performers outside exclude.
func (b *Booker) BookSegment(roster []model.Performer, exclude []string) (Booked, bool, error) {
	return b.bookSegment(b.draws, roster, exclude)
}

func (b *Booker) bookSegment(d draws, roster []model.Performer, exclude []string) (Booked, bool, error) {
	apps := d.generator.Generate(roster, pool.Constraints{MinPoints: b.minPoints, Exclude: exclude})
	if len(apps) == 0 {
		return Booked{}, false, nil
	}

	participants, err := match.Simulate(d.src, model.Join(apps, roster))
	if err != nil {
		return Booked{}, false, fmt.Errorf("simulate segment: %w", err)
	}

	res := rating.Segment(participants)
	return Booked{
		Segment: model.Segment{
			ID:          uuid.NewString(),
			Name:        Title(participants),
			Appearances: model.Appearances(participants),
			Rating:      res.Score,
			Decided:     match.Decided(participants),
		},
		Participants: participants,
		Rating:       res,
	}, true, nil
}

// BookProduction books req.Segments segments in order and projects the show
// financials over every performer that appeared. Performers used in recent
// segments are held back while others are available. Segments that cannot
// be filled are counted in Skipped. ctx is checked between segments.
func (b *Booker) BookProduction(
	ctx context.Context,
	req model.BookingRequest,
	roster []model.Performer,
	brand model.Brand,
) (model.Production, error) {
	return b.bookProduction(ctx, b.draws, req, roster, brand)
}

// BookProductionFrom is BookProduction drawing from src instead of the
// booker's shared source. Segment ids are derived from the production id,
// so the same source and request always give the same show. src must not
// be used concurrently elsewhere while the call runs.
func (b *Booker) BookProductionFrom(
	ctx context.Context,
	src random.Source,
	req model.BookingRequest,
	roster []model.Performer,
	brand model.Brand,
) (model.Production, error) {
	if src == nil {
		return b.BookProduction(ctx, req, roster, brand)
	}
	return b.bookProduction(ctx, b.drawsFrom(src), req, roster, brand)
}

func (b *Booker) bookProduction(
	ctx context.Context,
	d draws,
	req model.BookingRequest,
	roster []model.Performer,
	brand model.Brand,
) (model.Production, error) {
	if req.Segments <= 0 {
		return model.Production{}, fmt.Errorf("%w: segments must be positive, got %d", ErrInvalidRequest, req.Segments)
	}

	start := time.Now()
	prod := model.Production{
		ID:       req.ID,
		BrandID:  brand.ID,
		Name:     req.Name,
		Segments: make([]model.Segment, 0, req.Segments),
	}
	if prod.ID == "" {
		prod.ID = uuid.NewString()
	}
	if prod.Name == "" {
		prod.Name = brand.Name + " Live"
	}

	var recent *exclusion.Window
	if b.window > 0 {
		recent = exclusion.New(exclusion.WithMaxSize(b.window))
	}

	for i := 0; i < req.Segments; i++ {
		if err := ctx.Err(); err != nil {
			return model.Production{}, fmt.Errorf("booking production %s: %w", prod.ID, err)
		}

		booked, ok, err := b.bookFresh(d, roster, req.Exclude, recent)
		if err != nil {
			return model.Production{}, fmt.Errorf("booking production %s segment %d: %w", prod.ID, i+1, err)
		}
		if !ok {
			prod.Skipped++
			metrics.RecordSegmentSkipped()
			continue
		}

		if recent != nil {
			recent.Record(ctx, lo.Map(booked.Segment.Appearances, func(a model.Appearance, _ int) string { return a.PerformerID })...)
		}
		booked.Segment.ID = fmt.Sprintf("%s-seg-%02d", prod.ID, len(prod.Segments)+1)
		prod.Segments = append(prod.Segments, booked.Segment)
		metrics.RecordSegmentBooked(booked.Segment.Rating, booked.Segment.Decided)
	}

	appearances := lo.FlatMap(prod.Segments, func(s model.Segment, _ int) []model.Appearance { return s.Appearances })
	prod.Financials = b.finance.Project(card(appearances, roster), appearances)
	if len(prod.Segments) > 0 {
		prod.Rating = lo.SumBy(prod.Segments, func(s model.Segment) float64 { return s.Rating }) / float64(len(prod.Segments))
	}
	prod.BookedAt = b.now()

	metrics.RecordProductionBooked(prod.Attendance, prod.TotalRevenue)
	metrics.RecordBookingLatency(float64(time.Since(start).Microseconds()) / 1000)

	return prod, nil
}

// bookFresh prefers performers outside the recent window and falls back to
// the whole roster when the window leaves too few.
func (b *Booker) bookFresh(d draws, roster []model.Performer, exclude []string, recent *exclusion.Window) (Booked, bool, error) {
	if recent != nil && recent.Size() > 0 {
		booked, ok, err := b.bookSegment(d, roster, append(append([]string{}, exclude...), recent.IDs()...))
		if err != nil || ok {
			return booked, ok, err
		}
	}
	return b.bookSegment(d, roster, exclude)
}

// card returns the distinct performers behind appearances, in booking order.
func card(appearances []model.Appearance, roster []model.Performer) []model.Performer {
	byID := lo.KeyBy(roster, func(p model.Performer) string { return p.ID })
	ids := lo.Uniq(lo.Map(appearances, func(a model.Appearance, _ int) string { return a.PerformerID }))
	return lo.FilterMap(ids, func(id string, _ int) (model.Performer, bool) {
		p, ok := byID[id]
		return p, ok
	})
}
