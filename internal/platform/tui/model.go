package tui

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/core"
	"github.com/vovakirdan/tui-derby/internal/derby"
	"github.com/vovakirdan/tui-derby/internal/storage"
)

// Archiver saves finished races. It runs from the engine's finish hook,
// which may be on a timer goroutine.
type Archiver struct {
	store  *storage.Store
	logger *log.Logger

	mu     sync.Mutex
	lastID string
	err    error
}

// NewArchiver creates an archiver. A nil store disables archiving.
func NewArchiver(store *storage.Store, logger *log.Logger) *Archiver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Archiver{store: store, logger: logger}
}

// Save archives the race held in s. Best effort: failures are logged and
// remembered, never returned.
func (a *Archiver) Save(s derby.Snapshot) {
	if a == nil || a.store == nil {
		return
	}

	id, err := a.store.SaveSnapshot(s)

	a.mu.Lock()
	a.lastID, a.err = id, err
	a.mu.Unlock()

	if err != nil {
		a.logger.Warn("could not archive race", "seed", s.Seed, "error", err)
		return
	}
	a.logger.Info("race archived", "id", id, "seed", s.Seed, "rounds", len(s.Results))
}

// Last returns the ID of the most recent archived race and the error of
// the most recent attempt.
func (a *Archiver) Last() (string, error) {
	if a == nil {
		return "", nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastID, a.err
}

// Model is the Bubble Tea model for the race screen.
type Model struct {
	engine   *derby.Engine
	archive  *Archiver
	config   core.RuntimeConfig
	keys     KeyMap
	help     help.Model
	table    table.Model
	board    derby.Board
	snapshot derby.Snapshot
	err      error
	quitting bool
}

// NewEngine creates an engine wired to archive finished races.
func NewEngine(race config.RaceConfig, archive *Archiver, logger *log.Logger, opts ...derby.Option) *derby.Engine {
	opts = append([]derby.Option{
		derby.WithLogger(logger),
		derby.WithFinishHook(archive.Save),
	}, opts...)
	return derby.NewEngine(race, opts...)
}

// NewModel creates the race screen for engine and generates the pool.
func NewModel(engine *derby.Engine, archive *Archiver, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	engine.GeneratePool(cfg.Seed)

	h := help.New()
	h.ShowAll = false

	m := Model{
		engine:  engine,
		archive: archive,
		config:  cfg,
		keys:    DefaultKeyMap(),
		help:    h,
		table:   newLeaderboard(cfg.ScreenH),
	}
	m.refresh()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		m.table = newLeaderboard(msg.Height)
		m.refresh()
		return m, nil

	case TickMsg:
		m.refresh()
		return m, tickCmd(m.config.TickRate)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch m.keys.Action(msg) {
	case ActionQuit:
		m.engine.Reset()
		m.quitting = true
		return m, tea.Quit

	case ActionGenerate:
		m.err = m.engine.Prepare(m.config.Seed)

	case ActionFlow:
		m.err = m.flow()

	case ActionReset:
		m.engine.Reset()

	case ActionNewSeed:
		m.config.Seed = time.Now().UnixNano()
		m.engine.GeneratePool(m.config.Seed)

	case ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	}

	m.refresh()
	return m, nil
}

// flow performs the single context-dependent race command:
// start, pause, resume or next lap.
func (m Model) flow() error {
	switch m.engine.Status() {
	case derby.StatusIdle:
		return derby.ErrNoSchedule
	case derby.StatusReady:
		return m.engine.Start()
	case derby.StatusRunning:
		m.engine.Pause()
	case derby.StatusPaused:
		m.engine.Resume()
	case derby.StatusAwaiting:
		return m.engine.Advance()
	}
	return nil
}

func (m *Model) refresh() {
	m.snapshot = m.engine.Snapshot()
	m.board = derby.BuildBoard(m.snapshot, m.engine.Clock().Now())
	m.table.SetRows(leaderboardRows(m.board))
}

// Board returns the last projected board.
func (m Model) Board() derby.Board {
	return m.board
}

// Err returns the error of the last command, if any.
func (m Model) Err() error {
	return m.err
}

// Seed returns the current race seed.
func (m Model) Seed() int64 {
	return m.config.Seed
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// Run starts the Bubble Tea program on the local terminal.
func Run(store *storage.Store, race config.RaceConfig, cfg core.RuntimeConfig, logger *log.Logger) error {
	archive := NewArchiver(store, logger)
	engine := NewEngine(race, archive, logger)
	model := NewModel(engine, archive, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}

// friendlyError maps engine errors to short status-line hints.
func friendlyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, derby.ErrNoSchedule):
		return "Generate a program first (g)"
	case errors.Is(err, derby.ErrEmptyPool):
		return "No horses loaded (n)"
	case errors.Is(err, derby.ErrDistanceTable):
		return "Race config has too few distances for the rounds requested"
	}
	return err.Error()
}
