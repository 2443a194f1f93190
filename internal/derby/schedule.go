package derby

import (
	"fmt"

	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/core"
)

// BuildSchedule creates the race program for a pool.
// One generator is advanced across rounds: each round shuffles every pool
// ID and keeps the first CompetitorsPerRound.
func BuildSchedule(pool []Competitor, seed int64, cfg config.ScheduleConfig) ([]RoundAssignment, error) {
	rounds := cfg.RoundCount()
	if len(cfg.Distances) < rounds {
		return nil, fmt.Errorf("%w: %d distances for %d rounds", ErrDistanceTable, len(cfg.Distances), rounds)
	}

	ids := make([]int, len(pool))
	for i, c := range pool {
		ids[i] = c.ID
	}

	rng := core.NewRandom(seed)
	schedule := make([]RoundAssignment, 0, rounds)
	for i := 0; i < rounds; i++ {
		shuffled := core.Shuffle(rng, ids)
		field := min(cfg.CompetitorsPerRound, len(shuffled))

		schedule = append(schedule, RoundAssignment{
			RoundNumber:   i + 1,
			Distance:      cfg.Distances[i],
			CompetitorIDs: shuffled[:field:field],
		})
	}
	return schedule, nil
}
