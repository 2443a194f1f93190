// derby is a deterministic horse race simulator for the terminal.
//
// Usage:
//
//	derby play               - Run a race program interactively
//	derby simulate           - Run a whole program headless and print the results
//	derby program            - Print the pool and schedule for a seed
//	derby history            - Show archived races and records
//	derby serve              - Start SSH server for remote play
//
// Global flags:
//
//	--seed <value>     - Race seed (0 = based on time)
//	--fps <rate>       - Board refresh rate (default: 30)
//	--db <path>        - Archive database path (default: ~/.derby/races.db)
//	--config <path>    - Custom race config YAML
//	--pace <preset>    - Pace preset: sprint, classic, marathon
//	--log-level <lvl>  - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-derby/internal/config"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPace     string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "derby",
	Short: "TUI Derby - Deterministic horse racing in your terminal",
	Long: `TUI Derby runs a multi-round horse race program in your terminal.

Every program is fully determined by its seed: the same seed always
produces the same horses, the same schedule and the same results.

Available commands:
  play      - Run a race program interactively
  simulate  - Run a whole program headless
  program   - Print the pool and schedule for a seed
  history   - Show archived races and records
  serve     - Start SSH server for remote play

Examples:
  derby play
  derby play --seed 42 --pace sprint
  derby simulate --seed 42 --format yaml
  derby program --seed 42
  derby history --wins
  derby serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Board refresh rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Race seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.derby/races.db", "Path to race archive database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom race config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPace, "pace", "", "Pace preset: sprint, classic, marathon")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(programCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadRaceConfig resolves the race config from --config and --pace.
func loadRaceConfig() (config.RaceConfig, error) {
	cfg, err := config.LoadRace(flagConfig)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyPacePreset(&cfg, config.PacePreset(flagPace)); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// resolveSeed returns --seed, or a time-based seed when it is 0.
func resolveSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// newLogger creates a logger at --log-level writing to w.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          prefix,
	}), nil
}

// openLogFile opens ~/.derby/derby.log for appending.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".derby")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "derby.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
