package derby

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/core"
)

func TestBuildSegments(t *testing.T) {
	cfg := config.DefaultRaceConfig().Segments
	entry := ResultEntry{CompetitorID: 1, ElapsedMs: 13456.789}

	boundaries := BuildSegments(entry, 1600, core.NewRandom(5), cfg)
	if len(boundaries) != cfg.Count {
		t.Fatalf("%d boundaries, expected %d", len(boundaries), cfg.Count)
	}
	if boundaries[len(boundaries)-1] != entry.ElapsedMs {
		t.Errorf("last boundary = %f, expected exactly %f", boundaries[len(boundaries)-1], entry.ElapsedMs)
	}

	previous := 0.0
	for i, b := range boundaries {
		if b <= previous {
			t.Errorf("boundary %d = %f, not after %f", i, b, previous)
		}
		previous = b
	}
}

func TestBuildSegmentsSpeedBand(t *testing.T) {
	cfg := config.DefaultRaceConfig().Segments
	entry := ResultEntry{CompetitorID: 1, ElapsedMs: 12000}

	boundaries := BuildSegments(entry, 1200, core.NewRandom(9), cfg)

	// After rescaling, segment durations differ by at most max/min
	shortest, longest := math.Inf(1), 0.0
	previous := 0.0
	for _, b := range boundaries {
		d := b - previous
		shortest = math.Min(shortest, d)
		longest = math.Max(longest, d)
		previous = b
	}
	if ratio := longest / shortest; ratio > cfg.MaxMultiplier/cfg.MinMultiplier+1e-9 {
		t.Errorf("segment ratio %f exceeds %f", ratio, cfg.MaxMultiplier/cfg.MinMultiplier)
	}
}

func TestBuildSegmentsDegenerate(t *testing.T) {
	cfg := config.DefaultRaceConfig().Segments

	tests := []struct {
		name     string
		elapsed  float64
		distance int
		expected []float64
	}{
		{"zero elapsed", 0, 1200, []float64{0, 0, 0, 0}},
		{"negative elapsed", -50, 1200, []float64{0, 0, 0, 0}},
		{"zero distance", 2000, 0, []float64{500, 1000, 1500, 2000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := core.NewRandom(3)
			got := BuildSegments(ResultEntry{ElapsedMs: tt.elapsed}, tt.distance, rng, cfg)

			for i := range tt.expected {
				if got[i] != tt.expected[i] {
					t.Errorf("boundaries = %v, expected %v", got, tt.expected)
					break
				}
			}

			// No draws consumed
			if rng.Next() != core.NewRandom(3).Next() {
				t.Error("degenerate segments should not consume the generator")
			}
		})
	}
}

func TestSegmentProgress(t *testing.T) {
	boundaries := []float64{500, 1000, 1500, 2000}

	tests := []struct {
		elapsed  float64
		expected float64
	}{
		{-10, 0},
		{0, 0},
		{250, 0.125},
		{500, 0.25},
		{1000, 0.5},
		{1750, 0.875},
		{2000, 1},
		{5000, 1},
	}

	for _, tt := range tests {
		if got := SegmentProgress(boundaries, tt.elapsed, 2000); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("SegmentProgress(%v) = %v, expected %v", tt.elapsed, got, tt.expected)
		}
	}
}

func TestSegmentProgressWithoutBoundaries(t *testing.T) {
	if got := SegmentProgress(nil, 500, 1000); got != 0.5 {
		t.Errorf("got %v, expected 0.5", got)
	}
	if got := SegmentProgress(nil, 1500, 1000); got != 1 {
		t.Errorf("got %v, expected clamp to 1", got)
	}
	if got := SegmentProgress(nil, 500, 0); got != 0 {
		t.Errorf("got %v, expected 0 for empty total", got)
	}
}

func TestSegmentProgressMonotonic(t *testing.T) {
	cfg := config.DefaultRaceConfig().Segments
	boundaries := BuildSegments(ResultEntry{ElapsedMs: 15000}, 1800, core.NewRandom(21), cfg)

	previous := 0.0
	for ms := 0.0; ms <= 16000; ms += 100 {
		p := SegmentProgress(boundaries, ms, 15000)
		if p < previous {
			t.Fatalf("progress decreased at %vms: %v < %v", ms, p, previous)
		}
		previous = p
	}
	if previous != 1 {
		t.Errorf("final progress = %v, expected 1", previous)
	}
}
