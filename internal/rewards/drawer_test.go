package rewards

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/case-market/internal/models"
)

// seqSource replays fixed samples.
type seqSource struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *seqSource) Float64() float64 {
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *seqSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)] % n
	s.ii++
	return v
}

func fixed(r float64, idx int) *seqSource {
	return &seqSource{floats: []float64{r}, ints: []int{idx}}
}

func TestDraw_ZeroSelectsFirstTier(t *testing.T) {
	tables := []Table{
		DefaultTable(),
		{Tiers: []Tier{
			{Rarity: "a", Weight: 0.25, Items: []ItemTemplate{{Name: "a1"}}},
			{Rarity: "b", Weight: 0.25, Items: []ItemTemplate{{Name: "b1"}}},
			{Rarity: "c", Weight: 0.5, Items: []ItemTemplate{{Name: "c1"}}},
		}},
		{Tiers: []Tier{
			{Rarity: "x", Weight: 0.7, Items: []ItemTemplate{{Name: "x1"}}},
			{Rarity: "y", Weight: 0.3, Items: []ItemTemplate{{Name: "y1"}}},
		}},
	}
	for _, tbl := range tables {
		rarity, _, err := Draw(tbl, fixed(0.0, 0))
		require.NoError(t, err)
		assert.Equal(t, tbl.Tiers[0].Rarity, rarity)
	}
}

func TestDraw_JustUnderOneSelectsLastTier(t *testing.T) {
	r := math.Nextafter(1, 0)
	tbl := DefaultTable()
	rarity, item, err := Draw(tbl, fixed(r, 0))
	require.NoError(t, err)
	assert.Equal(t, models.RarityCommon, rarity)
	assert.Equal(t, models.RarityCommon, item.Rarity)
}

func TestDraw_TierBoundaries(t *testing.T) {
	tests := []struct {
		r    float64
		want models.Rarity
	}{
		{0.01, models.RarityLegendary},
		{0.05, models.RarityLegendary},
		{0.1, models.RarityEpic},
		{0.4, models.RarityRare},
		{0.9, models.RarityCommon},
	}
	for _, tt := range tests {
		rarity, _, err := Draw(DefaultTable(), fixed(tt.r, 0))
		require.NoError(t, err)
		assert.Equal(t, tt.want, rarity, "r=%v", tt.r)
	}
}

func TestDraw_RoundingFallsBackToLastTier(t *testing.T) {
	// Weights sum just under 1; a sample above the sum must still land.
	tbl := Table{Tiers: []Tier{
		{Rarity: "a", Weight: 0.3, Items: []ItemTemplate{{Name: "a1"}}},
		{Rarity: "b", Weight: 0.3, Items: []ItemTemplate{{Name: "b1"}}},
		{Rarity: "c", Weight: 0.3999999, Items: []ItemTemplate{{Name: "c1"}}},
	}}
	rarity, item, err := Draw(tbl, fixed(0.99999999, 0))
	require.NoError(t, err)
	assert.Equal(t, models.Rarity("c"), rarity)
	assert.Equal(t, "c1", item.Name)
	assert.Equal(t, models.Rarity("c"), item.Rarity)
}

func TestDraw_PicksItemFromPool(t *testing.T) {
	rarity, item, err := Draw(DefaultTable(), fixed(0.0, 2))
	require.NoError(t, err)
	assert.Equal(t, models.RarityLegendary, rarity)
	assert.Equal(t, "⚡ Bolt of Zeus", item.Name)
}

func TestDraw_ConfigurationErrors(t *testing.T) {
	_, _, err := Draw(Table{}, fixed(0.5, 0))
	assert.ErrorIs(t, err, models.ErrConfiguration)

	empty := Table{Tiers: []Tier{
		{Rarity: "a", Weight: 0.5, Items: []ItemTemplate{{Name: "a1"}}},
		{Rarity: "b", Weight: 0.5},
	}}
	_, _, err = Draw(empty, fixed(0.9, 0))
	assert.ErrorIs(t, err, models.ErrConfiguration)

	// The empty tier is only fatal when selected.
	rarity, _, err := Draw(empty, fixed(0.1, 0))
	require.NoError(t, err)
	assert.Equal(t, models.Rarity("a"), rarity)
}

func TestDraw_FrequenciesConvergeToWeights(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}
	tbl := DefaultTable()
	src := rand.New(rand.NewPCG(42, 7))

	const n = 200_000
	counts := make(map[models.Rarity]int)
	for i := 0; i < n; i++ {
		rarity, _, err := Draw(tbl, src)
		require.NoError(t, err)
		counts[rarity]++
	}
	for _, tier := range tbl.Tiers {
		got := float64(counts[tier.Rarity]) / n
		assert.InDelta(t, tier.Weight, got, 0.01, "tier %s", tier.Rarity)
	}
}

func TestDraw_ConcurrentGlobalSource(t *testing.T) {
	tbl := DefaultTable()
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				if _, _, err := Draw(tbl, GlobalSource); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
