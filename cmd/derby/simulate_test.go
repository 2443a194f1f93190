package main

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/derby"
)

func TestRunHeadlessFinishesProgram(t *testing.T) {
	race := config.DefaultRaceConfig()

	snap, err := runHeadless(race, 42, nil)
	if err != nil {
		t.Fatalf("runHeadless() error = %v", err)
	}
	if snap.Status != derby.StatusFinished {
		t.Fatalf("status = %v, expected finished", snap.Status)
	}
	if len(snap.Results) != race.Schedule.RoundCount() {
		t.Fatalf("%d results, expected %d", len(snap.Results), race.Schedule.RoundCount())
	}
	for i, r := range snap.Results {
		if r.RoundNumber != i+1 {
			t.Errorf("results[%d] is round %d", i, r.RoundNumber)
		}
	}
}

func TestRunHeadlessDeterministic(t *testing.T) {
	race := config.DefaultRaceConfig()

	first, err := runHeadless(race, 7, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := runHeadless(race, 7, nil)
	if err != nil {
		t.Fatal(err)
	}

	var a, b bytes.Buffer
	writeTextReport(&a, first)
	writeTextReport(&b, second)
	if a.String() != b.String() {
		t.Error("same seed produced different reports")
	}
}

func TestRunHeadlessEmptyPool(t *testing.T) {
	race := config.DefaultRaceConfig()
	race.Pool.Size = 0

	if _, err := runHeadless(race, 1, nil); err == nil {
		t.Error("expected an error for an empty pool")
	}
}

func TestTextReport(t *testing.T) {
	snap, err := runHeadless(config.DefaultRaceConfig(), 42, nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	writeTextReport(&buf, snap)
	out := buf.String()

	if !strings.HasPrefix(out, "Seed 42 - ") {
		t.Errorf("report starts with %q", strings.SplitN(out, "\n", 2)[0])
	}
	for _, r := range snap.Schedule {
		if !strings.Contains(out, derby.LapLabel(r.RoundNumber)) {
			t.Errorf("report is missing %s", derby.LapLabel(r.RoundNumber))
		}
	}
}

func TestYAMLReport(t *testing.T) {
	snap, err := runHeadless(config.DefaultRaceConfig(), 42, nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := writeYAMLReport(&buf, snap); err != nil {
		t.Fatalf("writeYAMLReport() error = %v", err)
	}

	var decoded Report
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report is not valid YAML: %v", err)
	}
	if decoded.Seed != 42 {
		t.Errorf("seed = %d, expected 42", decoded.Seed)
	}
	if len(decoded.Results) != len(snap.Results) || len(decoded.Program) != len(snap.Schedule) {
		t.Fatalf("decoded %d results and %d rounds", len(decoded.Results), len(decoded.Program))
	}

	first := decoded.Results[0]
	if first.Distance != snap.Schedule[0].Distance {
		t.Errorf("distance = %d, expected %d", first.Distance, snap.Schedule[0].Distance)
	}
	winner, _ := snap.Results[0].Winner()
	if first.Entries[0].ID != winner.CompetitorID || first.Entries[0].Name == "" {
		t.Errorf("first entry = %+v, expected competitor %d", first.Entries[0], winner.CompetitorID)
	}
}

func TestCompetitorNamesFallback(t *testing.T) {
	names := competitorNames([]derby.Competitor{{ID: 1, Name: "Comet"}})

	if got := names(1); got != "Comet" {
		t.Errorf("names(1) = %q", got)
	}
	if got := names(5); got != "Horse 5" {
		t.Errorf("names(5) = %q", got)
	}
}
