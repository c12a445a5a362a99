package rewards

import (
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/baharkarakas/case-market/internal/models"
)

const defaultCatalogSize = 256

// Catalog resolves the reward table for a case. Cases without their own
// configuration use the fallback table; per-case tables are parsed once per
// revision and cached.
type Catalog struct {
	fallback Table
	cache    *lru.Cache[string, Table]
}

func NewCatalog(fallback Table, size int) (*Catalog, error) {
	if err := fallback.Validate(); err != nil {
		return nil, err
	}
	if size <= 0 {
		size = defaultCatalogSize
	}
	cache, err := lru.New[string, Table](size)
	if err != nil {
		return nil, fmt.Errorf("reward catalog cache: %w", err)
	}
	return &Catalog{fallback: fallback, cache: cache}, nil
}

func (c *Catalog) Fallback() Table { return c.fallback }

// TableFor returns the table a case draws from.
func (c *Catalog) TableFor(cs models.Case) (Table, error) {
	raw := cs.RewardTable
	if len(raw) == 0 || string(raw) == "null" {
		return c.fallback, nil
	}

	key := cs.ID + "@" + strconv.FormatInt(cs.UpdatedAt.UnixNano(), 10)
	if t, ok := c.cache.Get(key); ok {
		return t, nil
	}
	t, err := ParseJSON(raw)
	if err != nil {
		return Table{}, fmt.Errorf("case %s: %w", cs.ID, err)
	}
	c.cache.Add(key, t)
	return t, nil
}
