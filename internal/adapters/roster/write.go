package roster

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/samber/lo"

	"github.com/okian/ringside/internal/domain/model"
)

// Marshal renders performers in the layout Load reads.
func Marshal(performers []model.Performer) ([]byte, error) {
	doc := map[string]interface{}{
		"performers": lo.Map(performers, func(p model.Performer, _ int) map[string]interface{} {
			return map[string]interface{}{
				"id":         p.ID,
				"name":       p.Name,
				"brand_id":   p.BrandID,
				"points":     p.Points,
				"popularity": p.Popularity,
				"morale":     p.Morale,
				"stamina":    p.Stamina,
				"charisma":   p.Charisma,
				"damage":     p.Damage,
				"alignment":  string(p.Alignment),
				"gender":     string(p.Gender),
				"wins":       p.Wins,
				"losses":     p.Losses,
				"streak":     p.Streak,
				"active":     p.Active,
				"cost":       p.Cost,
			}
		}),
	}
	out, err := yaml.Parser().Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal roster: %w", err)
	}
	return out, nil
}

// Write stores performers at path, replacing any existing file.
func Write(path string, performers []model.Performer) error {
	out, err := Marshal(performers)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("write roster %s: %w", path, err)
	}
	return nil
}
