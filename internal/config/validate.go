package config

import "fmt"

// ValidationError contains details about validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate checks the configuration for values the engine cannot run with.
// A round count larger than the distance table is reported later, when the
// schedule is built.
func (c RaceConfig) Validate() error {
	if c.Pool.Size <= 0 {
		return ValidationError{Code: "POOL_SIZE", Message: fmt.Sprintf("pool size must be positive, got %d", c.Pool.Size)}
	}
	if c.Pool.MinCondition > c.Pool.MaxCondition {
		return ValidationError{
			Code:    "CONDITION_RANGE",
			Message: fmt.Sprintf("min_condition %d exceeds max_condition %d", c.Pool.MinCondition, c.Pool.MaxCondition),
		}
	}

	if len(c.Schedule.Distances) == 0 {
		return ValidationError{Code: "DISTANCES", Message: "at least one distance is required"}
	}
	for i, d := range c.Schedule.Distances {
		if d <= 0 {
			return ValidationError{Code: "DISTANCES", Message: fmt.Sprintf("distance #%d must be positive, got %d", i+1, d)}
		}
	}
	if c.Schedule.CompetitorsPerRound <= 0 {
		return ValidationError{
			Code:    "FIELD_SIZE",
			Message: fmt.Sprintf("competitors_per_round must be positive, got %d", c.Schedule.CompetitorsPerRound),
		}
	}

	if c.Simulation.PaceMsPerMeter <= 0 {
		return ValidationError{Code: "PACE", Message: "pace_ms_per_meter must be positive"}
	}
	if c.Simulation.ConditionScale == 0 {
		return ValidationError{Code: "CONDITION_SCALE", Message: "condition_scale must not be zero"}
	}
	if c.Simulation.FloorRatio <= 0 {
		return ValidationError{Code: "FLOOR_RATIO", Message: "floor_ratio must be positive"}
	}

	if c.Segments.Count < 1 {
		return ValidationError{Code: "SEGMENTS", Message: fmt.Sprintf("segment count must be at least 1, got %d", c.Segments.Count)}
	}
	if c.Segments.MinMultiplier <= 0 || c.Segments.MinMultiplier > c.Segments.MaxMultiplier {
		return ValidationError{
			Code:    "SEGMENT_BAND",
			Message: fmt.Sprintf("invalid multiplier band [%v, %v]", c.Segments.MinMultiplier, c.Segments.MaxMultiplier),
		}
	}

	if c.Timing.MinRoundMs < 0 {
		return ValidationError{Code: "MIN_ROUND", Message: "min_round_ms must not be negative"}
	}

	return nil
}
