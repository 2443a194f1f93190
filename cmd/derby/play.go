package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-derby/internal/core"
	"github.com/vovakirdan/tui-derby/internal/platform/tui"
	"github.com/vovakirdan/tui-derby/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run a race program interactively",
	Long: `Start the race screen.

Controls:
  G          - Generate the race program
  Space      - Start / Pause / Resume / Next lap
  R          - Reset the program
  N          - New horses (new seed)
  ?          - Toggle help
  Q/Ctrl+C   - Quit

Finished programs are archived in the database given by --db.
Logs are written to ~/.derby/derby.log.

Pace options:
  sprint    - 5 ms per meter
  classic   - 10 ms per meter (default)
  marathon  - 20 ms per meter

Examples:
  derby play
  derby play --seed 42
  derby play --pace sprint
  derby play --config ./my-race.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	race, err := loadRaceConfig()
	if err != nil {
		fail("%v", err)
	}

	var logOut io.Writer = io.Discard
	if f, logErr := openLogFile(); logErr == nil {
		defer f.Close()
		logOut = f
	}
	logger, err := newLogger(logOut, "derby")
	if err != nil {
		fail("%v", err)
	}

	cfg := core.DefaultConfig()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open race archive: %v\n", err)
		// Continue without storage - races still run
		store = nil
	}

	runErr := tui.Run(store, race, cfg, logger)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running race screen: %v", runErr)
	}
}
