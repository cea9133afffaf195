// Package finance projects attendance, revenue and viewership for a show.
package finance

import (
	"math"

	"github.com/samber/lo"

	"github.com/okian/ringside/internal/domain/model"
)

// Default projection parameters.
const (
	DefaultBaseAttendance  = 5000
	DefaultTicketPrice     = 50.0
	DefaultMerchMultiplier = 15.0
	DefaultTVMultiplier    = 3.5

	starThreshold  = 90
	starBoost      = 0.3
	baselinePoints = 50
)

// Revenue splits show income by source.
type Revenue struct {
	AttendanceIncome float64 `json:"attendance_income"`
	MerchIncome      float64 `json:"merch_income"`
	TotalRevenue     float64 `json:"total_revenue"`
}

// Attendance projects the crowd for roster from base.
//
// Each performer with 90+ points adds 30% to the star multiplier; average
// popularity and average points above or below 50 scale the rest. An empty
// roster returns base. The result is not clamped and can go negative for
// rosters far below 50 points.
func Attendance(roster []model.Performer, base int) int {
	if len(roster) == 0 {
		return base
	}

	n := float64(len(roster))
	stars := lo.CountBy(roster, func(p model.Performer) bool { return p.Points >= starThreshold })
	avgPopularity := lo.SumBy(roster, func(p model.Performer) float64 { return p.Popularity }) / n
	avgPoints := lo.SumBy(roster, func(p model.Performer) float64 { return p.Points }) / n

	starMultiplier := 1 + starBoost*float64(stars)
	popularityMultiplier := 1 + avgPopularity/100
	pointsMultiplier := 1 + (avgPoints-baselinePoints)/100

	return int(math.Floor(float64(base) * starMultiplier * popularityMultiplier * pointsMultiplier))
}

// ComputeRevenue turns attendance into income. Merchandise is floored to a
// whole amount; the total is the exact sum of both parts.
func ComputeRevenue(attendance int, ticketPrice, merchMultiplier float64) Revenue {
	att := float64(attendance)
	r := Revenue{
		AttendanceIncome: att * ticketPrice,
		MerchIncome:      math.Floor(att * merchMultiplier),
	}
	r.TotalRevenue = r.AttendanceIncome + r.MerchIncome
	return r
}

// Viewership projects the television audience from attendance.
func Viewership(attendance int, tvMultiplier float64) int {
	return int(math.Floor(float64(attendance) * tvMultiplier))
}
