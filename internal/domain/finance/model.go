package finance

import (
	"github.com/samber/lo"

	"github.com/okian/ringside/internal/domain/model"
)

// Option applies a configuration option to the Model.
type Option func(*Model)

// WithBaseAttendance sets the crowd a show draws before roster multipliers.
func WithBaseAttendance(base int) Option {
	return func(m *Model) {
		if base >= 0 {
			m.baseAttendance = base
		}
	}
}

// WithTicketPrice sets the per-seat price.
func WithTicketPrice(price float64) Option {
	return func(m *Model) {
		if price >= 0 {
			m.ticketPrice = price
		}
	}
}

// WithMerchMultiplier sets merchandise income per attendee.
func WithMerchMultiplier(multiplier float64) Option {
	return func(m *Model) {
		if multiplier >= 0 {
			m.merchMultiplier = multiplier
		}
	}
}

// WithTVMultiplier sets viewers per attendee.
func WithTVMultiplier(multiplier float64) Option {
	return func(m *Model) {
		if multiplier >= 0 {
			m.tvMultiplier = multiplier
		}
	}
}

// Model bundles the projection parameters a promotion runs with.
type Model struct {
	baseAttendance  int
	ticketPrice     float64
	merchMultiplier float64
	tvMultiplier    float64
}

// NewModel creates a projection model with configuration options.
func NewModel(opts ...Option) *Model {
	m := &Model{
		baseAttendance:  DefaultBaseAttendance,
		ticketPrice:     DefaultTicketPrice,
		merchMultiplier: DefaultMerchMultiplier,
		tvMultiplier:    DefaultTVMultiplier,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Project computes the show financials for the performers on the card and
// the appearances booked for them.
func (m *Model) Project(card []model.Performer, appearances []model.Appearance) model.Financials {
	attendance := Attendance(card, m.baseAttendance)
	revenue := ComputeRevenue(attendance, m.ticketPrice, m.merchMultiplier)
	cost := lo.SumBy(appearances, func(a model.Appearance) float64 { return a.Cost })

	return model.Financials{
		Attendance:       attendance,
		AttendanceIncome: revenue.AttendanceIncome,
		MerchIncome:      revenue.MerchIncome,
		TotalRevenue:     revenue.TotalRevenue,
		Viewership:       Viewership(attendance, m.tvMultiplier),
		TalentCost:       cost,
		Profit:           revenue.TotalRevenue - cost,
	}
}
