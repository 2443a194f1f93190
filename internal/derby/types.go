// Package derby implements the deterministic race simulation and the
// pausable round lifecycle that drives a multi-round competition.
//
// Everything random is derived from a single seed: the same pool and seed
// always produce the same schedule, the same round results and the same
// progress curves. The presentation layer only issues commands to an
// Engine and reads Board projections.
package derby

import "fmt"

// Competitor is a member of the pool. Immutable once generated.
type Competitor struct {
	ID        int    `yaml:"id"`
	Name      string `yaml:"name"`
	Color     string `yaml:"color"`     // Opaque to the engine
	Condition int    `yaml:"condition"` // Higher is faster
}

// RoundAssignment is one round of the program.
type RoundAssignment struct {
	RoundNumber   int   `yaml:"round"` // 1-based
	Distance      int   `yaml:"distance"`
	CompetitorIDs []int `yaml:"competitors"`
}

// ResultEntry is one competitor's finish in a round.
type ResultEntry struct {
	Position     int     `yaml:"position"` // 1-based rank
	CompetitorID int     `yaml:"competitor"`
	ElapsedMs    float64 `yaml:"elapsed_ms"`
}

// RoundResult is the ranking of one round, sorted by position.
type RoundResult struct {
	RoundNumber int           `yaml:"round"`
	Entries     []ResultEntry `yaml:"entries"`
}

// Winner returns the first-place entry, or false for an empty round.
func (r RoundResult) Winner() (ResultEntry, bool) {
	if len(r.Entries) == 0 {
		return ResultEntry{}, false
	}
	return r.Entries[0], true
}

// Status is the lifecycle state of a race program.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusReady    Status = "ready"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusAwaiting Status = "awaiting"
	StatusFinished Status = "finished"
)

// String returns the status name.
func (s Status) String() string {
	return string(s)
}

// indexPool maps competitor IDs to competitors.
func indexPool(pool []Competitor) map[int]Competitor {
	byID := make(map[int]Competitor, len(pool))
	for _, c := range pool {
		byID[c.ID] = c
	}
	return byID
}

// fallbackName is used when a result references an unknown competitor.
func fallbackName(id int) string {
	return fmt.Sprintf("Horse %d", id)
}
