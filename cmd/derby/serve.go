package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-derby/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the derby SSH server",
	Long: `Start an SSH server that lets users connect and run race programs.

Each SSH connection gets its own engine and race screen.
Finished programs from every session go to the same archive.

The server auto-generates an ED25519 host key on first run
if one doesn't exist at the specified path.

Examples:
  derby serve                           # Listen on :23234 with auto-generated key
  derby serve --ssh :2222               # Listen on port 2222
  derby serve --host-key ./my_host_key  # Use specific host key
  derby serve --db ./races.db           # Use specific database
  derby serve --pace sprint             # Every session races at sprint pace

Connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	race, err := loadRaceConfig()
	if err != nil {
		fail("%v", err)
	}

	logger, err := newLogger(os.Stderr, "derby-ssh")
	if err != nil {
		fail("%v", err)
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS
	cfg.Race = race

	server, err := tui.NewSSHServer(cfg, logger)
	if err != nil {
		fail("creating server: %v", err)
	}

	fmt.Printf("Starting derby SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fail("server: %v", err)
	}
}
