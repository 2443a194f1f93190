package derby

import (
	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/core"
)

// SegmentSeed derives the generator seed for a round's progress curves.
func SegmentSeed(base int64, roundNumber, roundIndex int) int64 {
	return base*31 + int64(roundNumber)*1009 + int64(roundIndex)
}

// BuildSegments returns cumulative time boundaries (ms) for one competitor.
//
// The distance is split into equal segments, each run at a random speed
// multiplier; the naive durations are then rescaled so they sum to the
// competitor's already-fixed elapsed time. The last boundary is exactly
// entry.ElapsedMs.
//
// A non-positive elapsed time or distance yields uniform boundaries and
// consumes no draws. Negative elapsed times clamp to zero.
func BuildSegments(entry ResultEntry, distance int, rng *core.Random, cfg config.SegmentConfig) []float64 {
	count := max(cfg.Count, 1)
	totalMs := entry.ElapsedMs

	if totalMs <= 0 || distance <= 0 {
		return uniformSegments(max(totalMs, 0), count)
	}

	segmentDistance := float64(distance) / float64(count)
	baselineSpeed := float64(distance) / (totalMs / 1000)

	durations := make([]float64, count)
	var sum float64
	for i := range durations {
		multiplier := rng.FloatRange(cfg.MinMultiplier, cfg.MaxMultiplier)
		durations[i] = segmentDistance / (baselineSpeed * multiplier) * 1000
		sum += durations[i]
	}

	if sum <= 0 {
		return uniformSegments(totalMs, count)
	}

	scale := totalMs / sum
	boundaries := make([]float64, count)
	var cumulative float64
	for i, d := range durations {
		cumulative += d * scale
		boundaries[i] = cumulative
	}
	boundaries[count-1] = totalMs // no floating-point drift at the finish

	return boundaries
}

func uniformSegments(totalMs float64, count int) []float64 {
	boundaries := make([]float64, count)
	step := totalMs / float64(count)
	for i := range boundaries {
		boundaries[i] = step * float64(i+1)
	}
	boundaries[count-1] = totalMs
	return boundaries
}

// SegmentProgress maps elapsed time to the fraction of distance covered.
// Without boundaries it falls back to elapsed/total. Always in [0, 1].
func SegmentProgress(boundaries []float64, elapsedMs, totalMs float64) float64 {
	if len(boundaries) == 0 {
		if totalMs <= 0 {
			return 0
		}
		return clamp01(elapsedMs / totalMs)
	}

	if elapsedMs >= boundaries[len(boundaries)-1] {
		return 1
	}

	perSegment := 1 / float64(len(boundaries))
	previous := 0.0
	for i, end := range boundaries {
		if elapsedMs < end {
			duration := max(end-previous, 1)
			local := max((elapsedMs-previous)/duration, 0)
			return clamp01((float64(i) + local) * perSegment)
		}
		previous = end
	}
	return 1
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
