package config

import (
	_ "embed"
)

//go:embed defaults/race.yaml
var defaultRaceYAML []byte

// DefaultNames is the built-in competitor name list.
var DefaultNames = []string{
	"Apollo Blaze",
	"Crimson Charger",
	"Silver Comet",
	"Midnight Arrow",
	"Golden Gale",
	"Storm Whisper",
	"Velvet Thunder",
	"Emerald Echo",
	"Blaze Runner",
	"Sapphire Surge",
	"Dusk Dancer",
	"Aurora Sprint",
	"Rapid Horizon",
	"Cinder Strike",
	"Moonlit Mirage",
	"Bronze Bolt",
	"Whirl Wonder",
	"Ivory Ignition",
	"Scarlet Spirit",
	"Thunder Trail",
}

// DefaultRaceConfig returns the default race configuration.
func DefaultRaceConfig() RaceConfig {
	names := make([]string, len(DefaultNames))
	copy(names, DefaultNames)

	return RaceConfig{
		Pool: PoolConfig{
			Size:         20,
			MinCondition: 1,
			MaxCondition: 100,
			Names:        names,
		},
		Schedule: ScheduleConfig{
			Distances:           []int{1200, 1400, 1600, 1800, 2000, 2200},
			CompetitorsPerRound: 10,
			Rounds:              6,
		},
		Simulation: SimulationConfig{
			PaceMsPerMeter:    10,
			ConditionMidpoint: 50,
			ConditionScale:    200,
			RandomSpread:      0.2,
			FloorRatio:        0.7,
		},
		Segments: SegmentConfig{
			Count:         4,
			MinMultiplier: 0.7,
			MaxMultiplier: 1.3,
		},
		Timing: TimingConfig{
			MinRoundMs: 3500,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultRaceYAML
}
