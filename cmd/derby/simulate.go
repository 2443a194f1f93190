package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/core"
	"github.com/vovakirdan/tui-derby/internal/derby"
	"github.com/vovakirdan/tui-derby/internal/storage"
)

var (
	flagFormat string
	flagSave   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a whole race program headless",
	Long: `Run every round of a race program on a virtual clock and print
the results. No waiting: rounds complete as fast as they can be computed,
with exactly the results an interactive session would show.

Output formats:
  text  - One block per round (default)
  yaml  - Full report with pool, program and results

Examples:
  derby simulate --seed 42
  derby simulate --seed 42 --format yaml > race.yaml
  derby simulate --seed 42 --save`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, yaml")
	simulateCmd.Flags().BoolVar(&flagSave, "save", false, "Archive the finished program")
}

func runSimulate(_ *cobra.Command, _ []string) {
	race, err := loadRaceConfig()
	if err != nil {
		fail("%v", err)
	}

	logger, err := newLogger(os.Stderr, "derby")
	if err != nil {
		fail("%v", err)
	}

	snap, err := runHeadless(race, resolveSeed(), logger)
	if err != nil {
		fail("%v", err)
	}

	switch flagFormat {
	case "text":
		writeTextReport(os.Stdout, snap)
	case "yaml":
		if err := writeYAMLReport(os.Stdout, snap); err != nil {
			fail("%v", err)
		}
	default:
		fail("unknown format %q (valid: text, yaml)", flagFormat)
	}

	if flagSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fail("opening race archive: %v", err)
		}
		defer store.Close()

		id, err := store.SaveSnapshot(snap)
		if err != nil {
			fail("%v", err)
		}
		fmt.Fprintf(os.Stderr, "Archived as %s\n", id)
	}
}

// runHeadless plays a full program on a ManualClock, jumping straight to
// each round's end.
func runHeadless(race config.RaceConfig, seed int64, logger *log.Logger) (derby.Snapshot, error) {
	clock := core.NewManualClock(time.Unix(0, 0))
	engine := derby.NewEngine(race, derby.WithClock(clock), derby.WithLogger(logger))

	engine.GeneratePool(seed)
	if err := engine.Prepare(seed); err != nil {
		return derby.Snapshot{}, err
	}
	if err := engine.Start(); err != nil {
		return derby.Snapshot{}, err
	}

	for {
		snap := engine.Snapshot()
		switch snap.Status {
		case derby.StatusRunning:
			clock.Advance(snap.Timing.Remaining)
		case derby.StatusAwaiting:
			if err := engine.Advance(); err != nil {
				return snap, err
			}
		default:
			return snap, nil
		}
	}
}

// writeTextReport prints one block per completed round.
func writeTextReport(w io.Writer, snap derby.Snapshot) {
	names := competitorNames(snap.Pool)
	distances := make(map[int]int, len(snap.Schedule))
	for _, round := range snap.Schedule {
		distances[round.RoundNumber] = round.Distance
	}

	fmt.Fprintf(w, "Seed %d - %d rounds\n", snap.Seed, len(snap.Results))
	for _, result := range snap.Results {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s - %d m\n", derby.LapLabel(result.RoundNumber), distances[result.RoundNumber])
		fmt.Fprintf(w, "  %-4s  %-18s  %s\n", "Pos", "Horse", "Time")
		fmt.Fprintf(w, "  %-4s  %-18s  %s\n", "---", "-----", "----")
		for _, entry := range result.Entries {
			fmt.Fprintf(w, "  %-4d  %-18s  %6.2f s\n", entry.Position, names(entry.CompetitorID), entry.ElapsedMs/1000)
		}
	}
}

// Report is the YAML form of a finished program.
type Report struct {
	Seed    int64                   `yaml:"seed"`
	Pool    []derby.Competitor      `yaml:"pool"`
	Program []derby.RoundAssignment `yaml:"program"`
	Results []RoundReport           `yaml:"results"`
}

// RoundReport is one round of a Report.
type RoundReport struct {
	Round    int           `yaml:"round"`
	Distance int           `yaml:"distance"`
	Entries  []EntryReport `yaml:"entries"`
}

// EntryReport is one finish of a RoundReport.
type EntryReport struct {
	Position  int     `yaml:"position"`
	ID        int     `yaml:"id"`
	Name      string  `yaml:"name"`
	ElapsedMs float64 `yaml:"elapsed_ms"`
}

func buildReport(snap derby.Snapshot) Report {
	names := competitorNames(snap.Pool)
	distances := make(map[int]int, len(snap.Schedule))
	for _, round := range snap.Schedule {
		distances[round.RoundNumber] = round.Distance
	}

	r := Report{
		Seed:    snap.Seed,
		Pool:    snap.Pool,
		Program: snap.Schedule,
		Results: make([]RoundReport, 0, len(snap.Results)),
	}
	for _, result := range snap.Results {
		round := RoundReport{
			Round:    result.RoundNumber,
			Distance: distances[result.RoundNumber],
			Entries:  make([]EntryReport, 0, len(result.Entries)),
		}
		for _, e := range result.Entries {
			round.Entries = append(round.Entries, EntryReport{
				Position:  e.Position,
				ID:        e.CompetitorID,
				Name:      names(e.CompetitorID),
				ElapsedMs: e.ElapsedMs,
			})
		}
		r.Results = append(r.Results, round)
	}
	return r
}

func writeYAMLReport(w io.Writer, snap derby.Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(buildReport(snap)); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}

// competitorNames returns a lookup that falls back to "Horse N".
func competitorNames(pool []derby.Competitor) func(int) string {
	byID := make(map[int]string, len(pool))
	for _, c := range pool {
		byID[c.ID] = c.Name
	}
	return func(id int) string {
		if name, ok := byID[id]; ok {
			return name
		}
		return fmt.Sprintf("Horse %d", id)
	}
}
