package model

import "time"

// Brand is an organisational division with its own roster and finances.
type Brand struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// Segment is one bookable unit of a show.
type Segment struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Appearances []Appearance `json:"appearances"`
	Rating      float64      `json:"rating"`
	// Decided is false for no-contest segments (one side only).
	Decided bool `json:"decided"`
}

// Financials are the projected show-level numbers.
type Financials struct {
	Attendance       int     `json:"attendance"`
	AttendanceIncome float64 `json:"attendance_income"`
	MerchIncome      float64 `json:"merch_income"`
	TotalRevenue     float64 `json:"total_revenue"`
	Viewership       int     `json:"viewership"`
	// TalentCost sums the cost snapshots of every booked appearance.
	TalentCost float64 `json:"talent_cost"`
	Profit     float64 `json:"profit"`
}

// Production is a full show composed of segments.
type Production struct {
	ID        string    `json:"id"`
	BrandID   string    `json:"brand_id"`
	Name      string    `json:"name"`
	Segments  []Segment `json:"segments"`
	Skipped   int       `json:"skipped"`
	Financials
	// Rating is the mean segment rating.
	Rating   float64   `json:"rating"`
	BookedAt time.Time `json:"booked_at"`
}

// BookingRequest asks for one production to be booked and simulated.
type BookingRequest struct {
	ID       string `json:"id"`
	BrandID  string `json:"brand_id"`
	Name     string `json:"name"`
	Segments int    `json:"segments"`
	// Exclude lists performers that must not be booked on this show.
	Exclude []string `json:"exclude"`
}
