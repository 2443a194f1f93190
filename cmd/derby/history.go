package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-derby/internal/derby"
	"github.com/vovakirdan/tui-derby/internal/storage"
)

var (
	flagRaceID string
	flagWins   bool
	flagBest   int
	flagLimit  int
	flagClear  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show archived races and records",
	Long: `Show races archived by play, simulate --save and serve sessions.

Examples:
  derby history
  derby history --race 1f0c2a7e
  derby history --wins
  derby history --best 1600 --limit 5
  derby history --clear`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&flagRaceID, "race", "", "Show every round of one archived race")
	historyCmd.Flags().BoolVar(&flagWins, "wins", false, "Rank horses by round wins")
	historyCmd.Flags().IntVar(&flagBest, "best", 0, "Show the fastest finishes over a distance (meters)")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Maximum number of rows")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the whole archive")
}

func runHistory(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening race archive: %v", err)
	}
	defer store.Close()

	switch {
	case flagClear:
		if err := store.ClearRaces(); err != nil {
			fail("%v", err)
		}
		fmt.Println("Archive cleared.")
	case flagRaceID != "":
		showRace(store, flagRaceID)
	case flagWins:
		showWinners(store)
	case flagBest > 0:
		showBestTimes(store, flagBest)
	default:
		showRecent(store)
	}
}

func showRecent(store *storage.Store) {
	races, err := store.RecentRaces(flagLimit)
	if err != nil {
		fail("%v", err)
	}
	if len(races) == 0 {
		fmt.Println("No archived races yet.")
		return
	}

	fmt.Printf("%-36s  %-20s  %-6s  %s\n", "ID", "Seed", "Rounds", "Archived")
	fmt.Printf("%-36s  %-20s  %-6s  %s\n", "--", "----", "------", "--------")
	for _, r := range races {
		fmt.Printf("%-36s  %-20d  %-6d  %s\n", r.ID, r.Seed, r.Rounds, r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func showRace(store *storage.Store, id string) {
	race, err := store.Race(id)
	if err != nil {
		fail("%v", err)
	}
	if race == nil {
		fail("no archived race with ID %q", id)
	}

	entries, err := store.RaceResults(id)
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Race %s - seed %d, %d rounds\n", race.ID, race.Seed, race.Rounds)
	round := 0
	for _, e := range entries {
		if e.RoundNumber != round {
			round = e.RoundNumber
			fmt.Println()
			fmt.Printf("%s - %d m\n", derby.LapLabel(round), e.Distance)
		}
		fmt.Printf("  %-4d  %-18s  %6.2f s\n", e.Position, e.CompetitorName, e.ElapsedMs/1000)
	}
}

func showWinners(store *storage.Store) {
	stats, err := store.TopWinners(flagLimit)
	if err != nil {
		fail("%v", err)
	}
	if len(stats) == 0 {
		fmt.Println("No archived wins yet.")
		return
	}

	fmt.Printf("%-4s  %-18s  %-4s  %s\n", "Rank", "Horse", "Wins", "Best")
	fmt.Printf("%-4s  %-18s  %-4s  %s\n", "----", "-----", "----", "----")
	for i, s := range stats {
		fmt.Printf("%-4d  %-18s  %-4d  %6.2f s\n", i+1, s.CompetitorName, s.Wins, s.BestMs/1000)
	}
}

func showBestTimes(store *storage.Store, distance int) {
	entries, err := store.BestTimes(distance, flagLimit)
	if err != nil {
		fail("%v", err)
	}
	if len(entries) == 0 {
		fmt.Printf("No archived finishes over %d m.\n", distance)
		return
	}

	fmt.Printf("Fastest over %d m\n", distance)
	fmt.Printf("%-4s  %-18s  %-8s  %s\n", "Rank", "Horse", "Time", "Race")
	fmt.Printf("%-4s  %-18s  %-8s  %s\n", "----", "-----", "----", "----")
	for i, e := range entries {
		fmt.Printf("%-4d  %-18s  %6.2f s  %s\n", i+1, e.CompetitorName, e.ElapsedMs/1000, shortRaceID(e.RaceID))
	}
}

func shortRaceID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
