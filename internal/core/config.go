// Package core holds the deterministic random source and the clock
// abstraction shared by the engine and the front ends.
package core

// RuntimeConfig contains configuration passed to the race screen at
// initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Board refresh ticks per second (default 30)
	Seed     int64 // Seed for pool generation and race program
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// DefaultSeed is used when a pool has to exist before any seed was chosen.
const DefaultSeed int64 = 123456789
