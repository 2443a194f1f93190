package derby

import (
	"math"
	"sort"

	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/core"
)

// RoundSeed derives the simulation seed of a round from the base seed.
// Each round is reproducible on its own, independent of earlier rounds.
func RoundSeed(base int64, roundNumber int) int64 {
	return base + int64(roundNumber)
}

// SimulateRound computes the final ranking of a round.
// It is a pure function: the same assignment, pool and seed always give
// the same result. IDs not present in the pool are skipped and do not
// consume a draw.
func SimulateRound(assignment RoundAssignment, pool []Competitor, seed int64, params config.SimulationConfig) RoundResult {
	rng := core.NewRandom(seed)
	byID := indexPool(pool)
	baseTimeMs := float64(assignment.Distance) * params.PaceMsPerMeter

	entries := make([]ResultEntry, 0, len(assignment.CompetitorIDs))
	for _, id := range assignment.CompetitorIDs {
		competitor, ok := byID[id]
		if !ok {
			continue
		}

		conditionFactor := (float64(competitor.Condition) - params.ConditionMidpoint) / params.ConditionScale
		randomFactor := (rng.Next() - 0.5) * params.RandomSpread
		multiplier := 1 - conditionFactor - randomFactor

		entries = append(entries, ResultEntry{
			CompetitorID: id,
			ElapsedMs:    math.Max(baseTimeMs*multiplier, baseTimeMs*params.FloorRatio),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ElapsedMs < entries[j].ElapsedMs
	})
	for i := range entries {
		entries[i].Position = i + 1
	}

	return RoundResult{
		RoundNumber: assignment.RoundNumber,
		Entries:     entries,
	}
}
