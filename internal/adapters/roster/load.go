// Package roster loads performers from YAML files or generates synthetic ones.
//
// Missing attributes are defaulted here, where external data enters the
// system; the engine itself never fills in blanks.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"

	"github.com/okian/ringside/internal/domain/model"
)

// Sentinel errors for roster loading.
var (
	ErrLoadRoster    = errors.New("load roster failed")
	ErrInvalidRoster = errors.New("invalid roster")
)

// document is the on-disk roster layout.
//
//	performers:
//	  - name: Ace
//	    points: 92
//	    alignment: FACE
type document struct {
	Performers []entry `koanf:"performers"`
}

type entry struct {
	ID         string  `koanf:"id"`
	Name       string  `koanf:"name"`
	BrandID    string  `koanf:"brand_id"`
	Points     float64 `koanf:"points"`
	Popularity float64 `koanf:"popularity"`
	Morale     float64 `koanf:"morale"`
	Stamina    float64 `koanf:"stamina"`
	Charisma   float64 `koanf:"charisma"`
	Damage     float64 `koanf:"damage"`
	Alignment  string  `koanf:"alignment"`
	Gender     string  `koanf:"gender"`
	Wins       int     `koanf:"wins"`
	Losses     int     `koanf:"losses"`
	Streak     int     `koanf:"streak"`
	Active     *bool   `koanf:"active"`
	Cost       float64 `koanf:"cost"`
}

// Load reads the roster at path. brandID is assigned to performers that do
// not name a brand themselves.
func Load(_ context.Context, path, brandID string) ([]model.Performer, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadRoster, path, err)
	}

	var f document
	if err := k.UnmarshalWithConf("", &f, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadRoster, path, err)
	}

	performers := lo.Map(f.Performers, func(e entry, _ int) model.Performer { return e.performer(brandID) })
	if err := validate(performers); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return performers, nil
}

func (e entry) performer(brandID string) model.Performer {
	p := model.Performer{
		ID:         strings.TrimSpace(e.ID),
		Name:       strings.TrimSpace(e.Name),
		BrandID:    e.BrandID,
		Points:     e.Points,
		Popularity: e.Popularity,
		Morale:     e.Morale,
		Stamina:    e.Stamina,
		Charisma:   e.Charisma,
		Damage:     e.Damage,
		Alignment:  model.ParseAlignment(e.Alignment),
		Gender:     model.ParseGender(e.Gender),
		Wins:       e.Wins,
		Losses:     e.Losses,
		Streak:     e.Streak,
		Active:     e.Active == nil || *e.Active,
		Cost:       e.Cost,
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.BrandID == "" {
		p.BrandID = brandID
	}
	return p
}

func validate(performers []model.Performer) error {
	if unnamed, ok := lo.Find(performers, func(p model.Performer) bool { return p.Name == "" }); ok {
		return fmt.Errorf("%w: performer %s has no name", ErrInvalidRoster, unnamed.ID)
	}
	if dups := lo.FindDuplicatesBy(performers, func(p model.Performer) string { return p.ID }); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate performer id %s", ErrInvalidRoster, dups[0].ID)
	}
	return nil
}
