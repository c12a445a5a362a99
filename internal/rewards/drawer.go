package rewards

import (
	"fmt"
	"math/rand/v2"

	"github.com/baharkarakas/case-market/internal/models"
)

// Source yields the randomness a draw consumes. Float64 must return a
// uniform sample in [0,1); IntN a uniform integer in [0,n).
type Source interface {
	Float64() float64
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() } //nolint:gosec // game randomness
func (globalSource) IntN(n int) int   { return rand.IntN(n) }   //nolint:gosec // game randomness

// GlobalSource draws from the process-wide generator, which is safe for
// concurrent use.
var GlobalSource Source = globalSource{}

// Draw picks a tier by weight, then one item uniformly from that tier.
//
// Tiers are walked in table order, accumulating weights; the first tier whose
// cumulative weight is >= the sample wins. If rounding leaves the total just
// under the sample, the last tier is selected.
func Draw(t Table, src Source) (models.Rarity, ItemTemplate, error) {
	if len(t.Tiers) == 0 {
		return "", ItemTemplate{}, fmt.Errorf("%w: reward table has no tiers", models.ErrConfiguration)
	}

	r := src.Float64()
	selected := len(t.Tiers) - 1
	var cumulative float64
	for i, tier := range t.Tiers {
		cumulative += tier.Weight
		if cumulative >= r {
			selected = i
			break
		}
	}

	tier := t.Tiers[selected]
	if len(tier.Items) == 0 {
		return "", ItemTemplate{}, fmt.Errorf("%w: tier %q has an empty item pool", models.ErrConfiguration, tier.Rarity)
	}
	item := tier.Items[src.IntN(len(tier.Items))]
	if item.Rarity == "" {
		item.Rarity = tier.Rarity
	}
	return tier.Rarity, item, nil
}
