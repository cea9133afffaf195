// Package repository stores performers, brands and productions.
package repository

import (
	"context"

	"github.com/okian/ringside/internal/domain/model"
)

// Standing is one row of a brand's win/loss table.
type Standing struct {
	Rank        int     `json:"rank"`
	PerformerID string  `json:"performer_id"`
	Name        string  `json:"name"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Streak      int     `json:"streak"`
	Points      float64 `json:"points"`
}

// Store provides read/write access to the promotion's records.
type Store interface {
	// PutPerformer inserts or replaces a performer.
	PutPerformer(ctx context.Context, p model.Performer) error
	// Performer returns ErrNotFound if the id is unknown.
	Performer(ctx context.Context, id string) (model.Performer, error)
	// Performers lists a brand's performers in insertion order. An empty
	// brandID lists everyone.
	Performers(ctx context.Context, brandID string) ([]model.Performer, error)

	PutBrand(ctx context.Context, b model.Brand) error
	Brand(ctx context.Context, id string) (model.Brand, error)
	// AdjustBalance adds delta to a brand's balance and returns the result.
	AdjustBalance(ctx context.Context, brandID string, delta float64) (model.Brand, error)

	SaveProduction(ctx context.Context, p model.Production) error
	Production(ctx context.Context, id string) (model.Production, error)
	Productions(ctx context.Context, brandID string) ([]model.Production, error)

	// RecordResults applies the wins and losses carried by appearances to
	// the referenced performers. Nothing is applied if any performer is
	// unknown.
	RecordResults(ctx context.Context, appearances []model.Appearance) error

	// Standings returns the top n performers of a brand by wins, then fewest
	// losses. Performers with the same record share a rank.
	Standings(ctx context.Context, brandID string, n int) ([]Standing, error)

	// Count returns the number of performers.
	Count(ctx context.Context) int
}
