package core

import "math"

// LCG parameters from Numerical Recipes.
const (
	lcgMultiplier uint32  = 1664525
	lcgIncrement  uint32  = 1013904223
	lcgModulus    float64 = 1 << 32
)

// Random is a seeded linear congruential generator.
// The same seed yields the same sequence on every platform, which is what
// makes schedules and round results reproducible.
type Random struct {
	state uint32
}

// NewRandom creates a generator from the low 32 bits of seed.
func NewRandom(seed int64) *Random {
	return &Random{state: uint32(seed)} //nolint:gosec // truncation is the seeding rule
}

// Next returns the next uniform value in [0, 1).
func (r *Random) Next() float64 {
	r.state = lcgMultiplier*r.state + lcgIncrement
	return float64(r.state) / lcgModulus
}

// IntRange returns an integer in [min, max], both inclusive.
func (r *Random) IntRange(min, max int) int {
	return int(math.Floor(r.Next()*float64(max-min+1))) + min
}

// FloatRange returns a value in [min, max).
func (r *Random) FloatRange(min, max float64) float64 {
	return min + r.Next()*(max-min)
}

// Shuffle returns a Fisher-Yates shuffled copy of items.
// Iterates from the end, swapping each index i with one drawn from [0, i].
func Shuffle[T any](r *Random, items []T) []T {
	result := make([]T, len(items))
	copy(result, items)
	for i := len(result) - 1; i > 0; i-- {
		j := int(math.Floor(r.Next() * float64(i+1)))
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// Pick returns count items chosen by shuffling. A count at or above the
// length returns a plain copy without consuming the stream.
func Pick[T any](r *Random, items []T, count int) []T {
	if count >= len(items) {
		result := make([]T, len(items))
		copy(result, items)
		return result
	}
	if count <= 0 {
		return []T{}
	}
	return Shuffle(r, items)[:count]
}
