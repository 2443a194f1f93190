package derby

import (
	"math"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-derby/internal/config"
)

func TestSimulateRoundRanking(t *testing.T) {
	cfg := config.DefaultRaceConfig()
	pool := GeneratePool(cfg.Pool, 3)
	schedule, err := BuildSchedule(pool, 3, cfg.Schedule)
	if err != nil {
		t.Fatal(err)
	}

	result := SimulateRound(schedule[0], pool, RoundSeed(3, 1), cfg.Simulation)
	if result.RoundNumber != 1 {
		t.Errorf("round number = %d, expected 1", result.RoundNumber)
	}
	if len(result.Entries) != len(schedule[0].CompetitorIDs) {
		t.Fatalf("%d entries, expected %d", len(result.Entries), len(schedule[0].CompetitorIDs))
	}

	base := float64(schedule[0].Distance) * cfg.Simulation.PaceMsPerMeter
	for i, entry := range result.Entries {
		if entry.Position != i+1 {
			t.Errorf("entry %d: position = %d", i, entry.Position)
		}
		if i > 0 && entry.ElapsedMs < result.Entries[i-1].ElapsedMs {
			t.Errorf("entry %d: %f faster than previous %f", i, entry.ElapsedMs, result.Entries[i-1].ElapsedMs)
		}
		if entry.ElapsedMs < base*cfg.Simulation.FloorRatio {
			t.Errorf("entry %d: %f below floor", i, entry.ElapsedMs)
		}
	}
}

func TestSimulateRoundKnownValue(t *testing.T) {
	params := config.DefaultRaceConfig().Simulation
	pool := []Competitor{{ID: 1, Condition: 50}}
	assignment := RoundAssignment{RoundNumber: 1, Distance: 1200, CompetitorIDs: []int{1}}

	result := SimulateRound(assignment, pool, 1, params)

	// First draw of seed 1
	u := 0.23645552527159452
	expected := 12000 * (1 - (u-0.5)*0.2)
	if got := result.Entries[0].ElapsedMs; math.Abs(got-expected) > 1e-6 {
		t.Errorf("elapsed = %f, expected %f", got, expected)
	}
}

func TestSimulateRoundConditionWins(t *testing.T) {
	params := config.DefaultRaceConfig().Simulation
	pool := []Competitor{
		{ID: 1, Condition: 50},
		{ID: 2, Condition: 90},
	}
	assignment := RoundAssignment{RoundNumber: 1, Distance: 1200, CompetitorIDs: []int{1, 2}}

	result := SimulateRound(assignment, pool, 1, params)
	winner, ok := result.Winner()
	if !ok {
		t.Fatal("expected a winner")
	}
	if winner.CompetitorID != 2 {
		t.Errorf("winner = %d, expected the condition 90 competitor", winner.CompetitorID)
	}
}

func TestSimulateRoundFloor(t *testing.T) {
	params := config.DefaultRaceConfig().Simulation
	params.ConditionScale = 50 // condition 100 gives a factor of 1
	pool := []Competitor{{ID: 1, Condition: 100}}
	assignment := RoundAssignment{RoundNumber: 1, Distance: 1000, CompetitorIDs: []int{1}}

	result := SimulateRound(assignment, pool, 1, params)
	if got := result.Entries[0].ElapsedMs; math.Abs(got-7000) > 1e-9 {
		t.Errorf("elapsed = %f, expected floor 7000", got)
	}
}

func TestSimulateRoundSkipsUnknown(t *testing.T) {
	params := config.DefaultRaceConfig().Simulation
	pool := []Competitor{{ID: 1, Condition: 50}}

	withUnknown := SimulateRound(RoundAssignment{RoundNumber: 1, Distance: 1200, CompetitorIDs: []int{99, 1}}, pool, 1, params)
	without := SimulateRound(RoundAssignment{RoundNumber: 1, Distance: 1200, CompetitorIDs: []int{1}}, pool, 1, params)

	if !reflect.DeepEqual(withUnknown, without) {
		t.Errorf("unknown IDs should be skipped without a draw:\n%+v\n%+v", withUnknown, without)
	}
}

func TestSimulateRoundEmpty(t *testing.T) {
	result := SimulateRound(RoundAssignment{RoundNumber: 4}, nil, 1, config.DefaultRaceConfig().Simulation)
	if len(result.Entries) != 0 {
		t.Errorf("%d entries, expected none", len(result.Entries))
	}
	if _, ok := result.Winner(); ok {
		t.Error("empty round should have no winner")
	}
}

func TestSimulateRoundDeterministic(t *testing.T) {
	cfg := config.DefaultRaceConfig()
	pool := GeneratePool(cfg.Pool, 11)
	schedule, _ := BuildSchedule(pool, 11, cfg.Schedule)

	a := SimulateRound(schedule[2], pool, RoundSeed(11, 3), cfg.Simulation)
	b := SimulateRound(schedule[2], pool, RoundSeed(11, 3), cfg.Simulation)
	if !reflect.DeepEqual(a, b) {
		t.Error("simulation should be a pure function of its inputs")
	}
}

func TestSeedDerivation(t *testing.T) {
	if got := RoundSeed(100, 3); got != 103 {
		t.Errorf("RoundSeed(100, 3) = %d, expected 103", got)
	}
	if got := SegmentSeed(100, 3, 2); got != 100*31+3*1009+2 {
		t.Errorf("SegmentSeed(100, 3, 2) = %d", got)
	}
}
