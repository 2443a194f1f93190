// Package config provides YAML-based race configuration loading and
// pace presets for the derby engine.
package config

import "time"

// RaceConfig contains all tunable parameters of a race program.
type RaceConfig struct {
	Pool       PoolConfig       `yaml:"pool"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Simulation SimulationConfig `yaml:"simulation"`
	Segments   SegmentConfig    `yaml:"segments"`
	Timing     TimingConfig     `yaml:"timing"`
}

// PoolConfig defines how the competitor pool is generated.
type PoolConfig struct {
	Size         int      `yaml:"size"`
	MinCondition int      `yaml:"min_condition"`
	MaxCondition int      `yaml:"max_condition"`
	Names        []string `yaml:"names"`
}

// ScheduleConfig defines the race program.
type ScheduleConfig struct {
	Distances           []int `yaml:"distances"`             // Meters, one per round
	CompetitorsPerRound int   `yaml:"competitors_per_round"` // Field size
	Rounds              int   `yaml:"rounds"`                // 0 = one per distance
}

// RoundCount returns the number of rounds the schedule asks for.
func (s ScheduleConfig) RoundCount() int {
	if s.Rounds <= 0 {
		return len(s.Distances)
	}
	return s.Rounds
}

// SimulationConfig defines the finishing-time model.
//
//	base       = distance * PaceMsPerMeter
//	condition  = (condition - ConditionMidpoint) / ConditionScale
//	random     = (u - 0.5) * RandomSpread
//	elapsed    = max(base * (1 - condition - random), base * FloorRatio)
type SimulationConfig struct {
	PaceMsPerMeter    float64 `yaml:"pace_ms_per_meter"`
	ConditionMidpoint float64 `yaml:"condition_midpoint"`
	ConditionScale    float64 `yaml:"condition_scale"`
	RandomSpread      float64 `yaml:"random_spread"`
	FloorRatio        float64 `yaml:"floor_ratio"`
}

// SegmentConfig defines the live progress curves.
type SegmentConfig struct {
	Count         int     `yaml:"count"`
	MinMultiplier float64 `yaml:"min_multiplier"`
	MaxMultiplier float64 `yaml:"max_multiplier"`
}

// TimingConfig defines round timing limits.
type TimingConfig struct {
	MinRoundMs int `yaml:"min_round_ms"` // Floor for a round's wall-clock duration
}

// MinRoundDuration returns the minimum round duration.
func (t TimingConfig) MinRoundDuration() time.Duration {
	return time.Duration(t.MinRoundMs) * time.Millisecond
}

// PacePreset represents a named pace level.
type PacePreset string

const (
	PaceSprint   PacePreset = "sprint"
	PaceClassic  PacePreset = "classic"
	PaceMarathon PacePreset = "marathon"
)
