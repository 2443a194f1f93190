package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-derby/internal/derby"
)

var programCmd = &cobra.Command{
	Use:   "program",
	Short: "Print the pool and schedule for a seed",
	Long: `Generate the horse pool and race program for a seed without
running any round.

Examples:
  derby program --seed 42
  derby program --seed 42 --config ./my-race.yaml`,
	Args: cobra.NoArgs,
	Run:  runProgram,
}

func runProgram(_ *cobra.Command, _ []string) {
	race, err := loadRaceConfig()
	if err != nil {
		fail("%v", err)
	}

	seed := resolveSeed()
	pool := derby.GeneratePool(race.Pool, seed)
	schedule, err := derby.BuildSchedule(pool, seed, race.Schedule)
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Seed %d\n", seed)
	fmt.Println()

	fmt.Println("Horses:")
	fmt.Printf("  %-3s  %-18s  %-9s  %s\n", "ID", "Name", "Condition", "Color")
	fmt.Printf("  %-3s  %-18s  %-9s  %s\n", "--", "----", "---------", "-----")
	for _, c := range pool {
		fmt.Printf("  %-3d  %-18s  %-9d  %s\n", c.ID, c.Name, c.Condition, c.Color)
	}

	names := competitorNames(pool)
	fmt.Println()
	fmt.Println("Program:")
	for _, round := range schedule {
		field := make([]string, len(round.CompetitorIDs))
		for i, id := range round.CompetitorIDs {
			field[i] = names(id)
		}
		fmt.Printf("  %-9s  %5d m  %s\n", derby.LapLabel(round.RoundNumber), round.Distance, strings.Join(field, ", "))
	}
}
