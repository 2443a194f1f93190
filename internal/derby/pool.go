package derby

import (
	"math"

	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/core"
)

// GeneratePool creates the competitor pool for a seed.
// IDs run 1..Size, names come from the configured list (padded with
// "Horse N"), and conditions are drawn in ID order.
func GeneratePool(cfg config.PoolConfig, seed int64) []Competitor {
	rng := core.NewRandom(seed)

	colorSeed := int64(math.Floor(rng.Next() * 1_000_000))
	colors := Palette(cfg.Size, colorSeed)

	pool := make([]Competitor, 0, cfg.Size)
	for i := 0; i < cfg.Size; i++ {
		name := fallbackName(i + 1)
		if i < len(cfg.Names) && cfg.Names[i] != "" {
			name = cfg.Names[i]
		}

		pool = append(pool, Competitor{
			ID:        i + 1,
			Name:      name,
			Color:     colors[i],
			Condition: rng.IntRange(cfg.MinCondition, cfg.MaxCondition),
		})
	}
	return pool
}
