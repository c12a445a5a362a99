// Package rewards holds the case reward configuration and the weighted draw
// over it.
package rewards

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/baharkarakas/case-market/internal/models"
)

// weightTolerance is the floating-point drift accepted when summing tier
// weights. Whatever drift remains is absorbed by the last tier at draw time.
const weightTolerance = 1e-9

type ItemTemplate struct {
	Name   string        `json:"name" yaml:"name"`
	Rarity models.Rarity `json:"rarity,omitempty" yaml:"rarity,omitempty"`
}

type Tier struct {
	Rarity models.Rarity  `json:"rarity" yaml:"rarity"`
	Weight float64        `json:"weight" yaml:"weight"`
	Items  []ItemTemplate `json:"items" yaml:"items"`
}

// Table is an ordered list of rarity tiers. The order is canonical: Draw walks
// tiers front to back, so the last tier absorbs rounding at the upper bound.
type Table struct {
	Tiers []Tier `json:"tiers" yaml:"tiers"`
}

// DefaultTable is the built-in configuration, rarest tier first.
func DefaultTable() Table {
	return Table{Tiers: []Tier{
		{
			Rarity: models.RarityLegendary,
			Weight: 0.05,
			Items: []ItemTemplate{
				{Name: "🔥 Fire Sword", Rarity: models.RarityLegendary},
				{Name: "💎 Diamond Crown", Rarity: models.RarityLegendary},
				{Name: "⚡ Bolt of Zeus", Rarity: models.RarityLegendary},
			},
		},
		{
			Rarity: models.RarityEpic,
			Weight: 0.15,
			Items: []ItemTemplate{
				{Name: "🗡️ Steel Blade", Rarity: models.RarityEpic},
				{Name: "🛡️ Hero Shield", Rarity: models.RarityEpic},
				{Name: "🏹 Elven Bow", Rarity: models.RarityEpic},
			},
		},
		{
			Rarity: models.RarityRare,
			Weight: 0.30,
			Items: []ItemTemplate{
				{Name: "⚔️ Iron Sword", Rarity: models.RarityRare},
				{Name: "🔮 Magic Crystal", Rarity: models.RarityRare},
				{Name: "🪙 Gold Coin", Rarity: models.RarityRare},
			},
		},
		{
			Rarity: models.RarityCommon,
			Weight: 0.50,
			Items: []ItemTemplate{
				{Name: "🪨 Lucky Stone", Rarity: models.RarityCommon},
				{Name: "🌿 Healing Herb", Rarity: models.RarityCommon},
				{Name: "🍞 Bread", Rarity: models.RarityCommon},
			},
		},
	}}
}

// Validate reports a configuration error when the table cannot be drawn
// from: no tiers, duplicate or empty rarities, non-positive weights, empty
// item pools, or weights that do not sum to 1.
func (t Table) Validate() error {
	if len(t.Tiers) == 0 {
		return fmt.Errorf("%w: reward table has no tiers", models.ErrConfiguration)
	}
	seen := make(map[models.Rarity]struct{}, len(t.Tiers))
	var sum float64
	for i, tier := range t.Tiers {
		if tier.Rarity == "" {
			return fmt.Errorf("%w: tier %d has no rarity", models.ErrConfiguration, i)
		}
		if _, dup := seen[tier.Rarity]; dup {
			return fmt.Errorf("%w: duplicate tier %q", models.ErrConfiguration, tier.Rarity)
		}
		seen[tier.Rarity] = struct{}{}
		if math.IsNaN(tier.Weight) || math.IsInf(tier.Weight, 0) || tier.Weight <= 0 {
			return fmt.Errorf("%w: tier %q weight must be > 0", models.ErrConfiguration, tier.Rarity)
		}
		if len(tier.Items) == 0 {
			return fmt.Errorf("%w: tier %q has an empty item pool", models.ErrConfiguration, tier.Rarity)
		}
		sum += tier.Weight
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: tier weights sum to %v, want 1", models.ErrConfiguration, sum)
	}
	return nil
}

// normalize fills in item rarity tags from their tier.
func (t Table) normalize() Table {
	out := Table{Tiers: make([]Tier, len(t.Tiers))}
	for i, tier := range t.Tiers {
		items := make([]ItemTemplate, len(tier.Items))
		for j, it := range tier.Items {
			if it.Rarity == "" {
				it.Rarity = tier.Rarity
			}
			items[j] = it
		}
		tier.Items = items
		out.Tiers[i] = tier
	}
	return out
}

// ParseYAML decodes and validates a table. JSON documents are valid YAML,
// so this also accepts JSON.
func ParseYAML(b []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(b, &t); err != nil {
		return Table{}, fmt.Errorf("%w: decode reward table: %v", models.ErrConfiguration, err)
	}
	t = t.normalize()
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// ParseJSON decodes and validates a table stored as JSON.
func ParseJSON(b []byte) (Table, error) {
	var t Table
	if err := json.Unmarshal(b, &t); err != nil {
		return Table{}, fmt.Errorf("%w: decode reward table: %v", models.ErrConfiguration, err)
	}
	t = t.normalize()
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// LoadFile reads a table from path. An empty path yields DefaultTable.
func LoadFile(path string) (Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("%w: read reward table: %v", models.ErrConfiguration, err)
	}
	return ParseYAML(b)
}
