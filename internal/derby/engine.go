package derby

import (
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/core"
)

// Timing holds the bookkeeping of the current round.
// Whenever HasRemaining is set, Completed + Remaining == Duration.
type Timing struct {
	StartedAt    time.Time // Zero unless the round clock is running
	Duration     time.Duration
	Remaining    time.Duration
	HasRemaining bool
	Completed    time.Duration
}

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	Status     Status
	Seed       int64
	RoundIndex int
	Pool       []Competitor
	Schedule   []RoundAssignment
	Results    []RoundResult
	Preview    *RoundResult      // Current round's result, nil outside a live round
	Segments   map[int][]float64 // Current round's progress curves by competitor ID
	Timing     Timing
	TimerArmed bool
}

// ActiveRound returns the assignment at the current index, falling back to
// the last round. False when there is no schedule.
func (s Snapshot) ActiveRound() (RoundAssignment, bool) {
	if len(s.Schedule) == 0 {
		return RoundAssignment{}, false
	}
	if s.RoundIndex >= 0 && s.RoundIndex < len(s.Schedule) {
		return s.Schedule[s.RoundIndex], true
	}
	return s.Schedule[len(s.Schedule)-1], true
}

// LatestResult returns the most recently completed round.
func (s Snapshot) LatestResult() (RoundResult, bool) {
	if len(s.Results) == 0 {
		return RoundResult{}, false
	}
	return s.Results[len(s.Results)-1], true
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source. Defaults to core.RealClock().
func WithClock(c core.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithRoundHook registers a callback run after every completed round.
func WithRoundHook(fn func(RoundResult)) Option {
	return func(e *Engine) {
		e.onRound = fn
	}
}

// WithFinishHook registers a callback run when the final round completes.
func WithFinishHook(fn func(Snapshot)) Option {
	return func(e *Engine) {
		e.onFinish = fn
	}
}

// Engine owns all mutable race state and drives the round lifecycle:
//
//	idle -> ready -> running <-> paused
//	running -> awaiting -> running   (more rounds)
//	running -> finished              (last round)
//	awaiting -> finished             (no rounds remain)
//
// Commands issued in the wrong state are ignored. The engine is safe to
// call from the completion timer's goroutine and the caller's goroutine;
// the mutex makes it a single writer.
type Engine struct {
	mu       sync.Mutex
	cfg      config.RaceConfig
	clock    core.Clock
	logger   *log.Logger
	onRound  func(RoundResult)
	onFinish func(Snapshot)

	pool       []Competitor
	seed       int64
	status     Status
	roundIndex int
	schedule   []RoundAssignment
	results    []RoundResult
	preview    *RoundResult
	segments   map[int][]float64
	timing     Timing

	timer    core.Timer
	timerSeq uint64 // Identifies the armed timer; stale callbacks are ignored

	events []func() // Hooks collected under the lock, run after unlock
}

// NewEngine creates an idle engine.
func NewEngine(cfg config.RaceConfig, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		status: StatusIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = core.RealClock()
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// Config returns the engine's race configuration.
func (e *Engine) Config() config.RaceConfig {
	return e.cfg
}

// Clock returns the engine's time source.
func (e *Engine) Clock() core.Clock {
	return e.clock
}

// LoadPool replaces the competitor pool and returns the engine to idle.
func (e *Engine) LoadPool(pool []Competitor) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pool = append([]Competitor(nil), pool...)
	e.resetLocked()
	e.logger.Debug("pool loaded", "competitors", len(pool))
}

// GeneratePool generates and loads the pool for seed.
func (e *Engine) GeneratePool(seed int64) []Competitor {
	pool := GeneratePool(e.cfg.Pool, seed)
	e.LoadPool(pool)
	return pool
}

// Prepare builds the schedule for seed and moves to ready.
// Returns ErrEmptyPool without a pool, or ErrDistanceTable when the
// configuration asks for more rounds than it has distances. State is
// unchanged on error.
func (e *Engine) Prepare(seed int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.pool) == 0 {
		return ErrEmptyPool
	}

	schedule, err := BuildSchedule(e.pool, seed, e.cfg.Schedule)
	if err != nil {
		return err
	}

	e.resetLocked()
	e.seed = seed
	e.schedule = schedule
	e.status = StatusReady
	e.logger.Debug("race prepared", "seed", seed, "rounds", len(schedule))
	return nil
}

// Start begins the first round. From awaiting it behaves like Advance.
// Returns ErrNoSchedule before Prepare.
func (e *Engine) Start() error {
	e.mu.Lock()
	if len(e.schedule) == 0 {
		e.mu.Unlock()
		return ErrNoSchedule
	}

	if e.status == StatusAwaiting {
		e.advanceLocked()
	} else if e.status == StatusReady {
		e.status = StatusRunning
		e.enterRoundLocked()
	}
	events := e.drainLocked()
	e.mu.Unlock()

	dispatch(events)
	return nil
}

// Pause freezes the round clock. No-op unless running.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusRunning {
		return
	}

	e.stopTimerLocked()

	elapsed := e.clock.Now().Sub(e.timing.StartedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	e.timing.Completed = min(e.timing.Duration, e.timing.Completed+elapsed)
	e.timing.Remaining = e.timing.Duration - e.timing.Completed
	e.timing.HasRemaining = true
	e.timing.StartedAt = time.Time{}
	e.status = StatusPaused

	e.logger.Debug("round paused", "round", e.roundIndex+1, "remaining", e.timing.Remaining)
}

// Resume continues a paused round for exactly the remaining time.
// A round with nothing remaining completes immediately. No-op unless paused.
func (e *Engine) Resume() {
	e.mu.Lock()
	if e.status != StatusPaused {
		e.mu.Unlock()
		return
	}

	if !e.timing.HasRemaining || e.timing.Remaining <= 0 {
		e.completeRoundLocked()
	} else {
		e.status = StatusRunning
		e.timing.StartedAt = e.clock.Now()
		e.timing.Completed = e.timing.Duration - e.timing.Remaining
		e.armTimerLocked(e.timing.Remaining)
		e.logger.Debug("round resumed", "round", e.roundIndex+1, "remaining", e.timing.Remaining)
	}
	events := e.drainLocked()
	e.mu.Unlock()

	dispatch(events)
}

// Advance starts the next round, or finishes the race after the last one.
// No-op unless awaiting. Returns ErrNoSchedule if the schedule is missing.
func (e *Engine) Advance() error {
	e.mu.Lock()
	if e.status != StatusAwaiting {
		e.mu.Unlock()
		return nil
	}
	if len(e.schedule) == 0 {
		e.mu.Unlock()
		return ErrNoSchedule
	}

	e.advanceLocked()
	events := e.drainLocked()
	e.mu.Unlock()

	dispatch(events)
	return nil
}

// Reset returns to idle, dropping the schedule, results and any armed timer.
// The pool is kept.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetLocked()
	e.logger.Debug("race reset")
}

// Status returns the current lifecycle state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Snapshot returns a copy of the full engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Board projects the current state at the clock's current time.
func (e *Engine) Board() Board {
	return BuildBoard(e.Snapshot(), e.clock.Now())
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{
		Status:     e.status,
		Seed:       e.seed,
		RoundIndex: e.roundIndex,
		Pool:       append([]Competitor(nil), e.pool...),
		Schedule:   cloneSchedule(e.schedule),
		Results:    cloneResults(e.results),
		Timing:     e.timing,
		TimerArmed: e.timer != nil,
	}
	if e.preview != nil {
		preview := cloneResults([]RoundResult{*e.preview})[0]
		s.Preview = &preview
	}
	if e.segments != nil {
		s.Segments = make(map[int][]float64, len(e.segments))
		for id, boundaries := range e.segments {
			s.Segments[id] = append([]float64(nil), boundaries...)
		}
	}
	return s
}

func cloneSchedule(schedule []RoundAssignment) []RoundAssignment {
	if schedule == nil {
		return nil
	}
	out := make([]RoundAssignment, len(schedule))
	for i, round := range schedule {
		round.CompetitorIDs = append([]int(nil), round.CompetitorIDs...)
		out[i] = round
	}
	return out
}

func cloneResults(results []RoundResult) []RoundResult {
	if results == nil {
		return nil
	}
	out := make([]RoundResult, len(results))
	for i, result := range results {
		result.Entries = append([]ResultEntry(nil), result.Entries...)
		out[i] = result
	}
	return out
}

func (e *Engine) advanceLocked() {
	if e.roundIndex >= len(e.schedule)-1 {
		e.stopTimerLocked()
		e.status = StatusFinished
		e.logger.Debug("no rounds remain, race finished")
		return
	}

	e.roundIndex++
	e.preview = nil
	e.segments = nil
	e.timing = Timing{}
	e.status = StatusRunning
	e.enterRoundLocked()
}

// enterRoundLocked simulates the current round, builds the progress curves
// and arms the completion timer. Preview and timer are set together, so a
// running round always has a preview.
func (e *Engine) enterRoundLocked() {
	assignment := e.schedule[e.roundIndex]

	result := SimulateRound(assignment, e.pool, RoundSeed(e.seed, assignment.RoundNumber), e.cfg.Simulation)
	e.preview = &result

	rng := core.NewRandom(SegmentSeed(e.seed, assignment.RoundNumber, e.roundIndex))
	e.segments = make(map[int][]float64, len(result.Entries))
	slowestMs := 0.0
	for _, entry := range result.Entries {
		e.segments[entry.CompetitorID] = BuildSegments(entry, assignment.Distance, rng, e.cfg.Segments)
		slowestMs = max(slowestMs, entry.ElapsedMs)
	}

	duration := max(msToDuration(slowestMs), e.cfg.Timing.MinRoundDuration())
	e.timing = Timing{
		StartedAt:    e.clock.Now(),
		Duration:     duration,
		Remaining:    duration,
		HasRemaining: true,
	}
	e.armTimerLocked(duration)

	e.logger.Debug("round started",
		"round", assignment.RoundNumber,
		"distance", assignment.Distance,
		"competitors", len(result.Entries),
		"duration", duration,
	)
}

// completeRoundLocked finalizes the current round.
func (e *Engine) completeRoundLocked() {
	e.stopTimerLocked()

	var result RoundResult
	if e.preview != nil {
		result = *e.preview
	} else {
		// Unreachable through the public API; same seed, same outcome.
		assignment := e.schedule[e.roundIndex]
		result = SimulateRound(assignment, e.pool, RoundSeed(e.seed, assignment.RoundNumber), e.cfg.Simulation)
	}

	e.results = append(e.results, result)
	e.preview = nil
	e.segments = nil
	e.timing.Completed = e.timing.Duration
	e.timing.Remaining = 0
	e.timing.HasRemaining = false
	e.timing.StartedAt = time.Time{}

	if winner, ok := result.Winner(); ok {
		e.logger.Info("round complete",
			"round", result.RoundNumber,
			"winner", winner.CompetitorID,
			"time_ms", math.Round(winner.ElapsedMs),
		)
	}

	if hook := e.onRound; hook != nil {
		e.events = append(e.events, func() { hook(result) })
	}

	if e.roundIndex >= len(e.schedule)-1 {
		e.status = StatusFinished
		e.logger.Info("race finished", "seed", e.seed, "rounds", len(e.results))
		if hook := e.onFinish; hook != nil {
			final := e.snapshotLocked()
			e.events = append(e.events, func() { hook(final) })
		}
		return
	}
	e.status = StatusAwaiting
}

func (e *Engine) resetLocked() {
	e.stopTimerLocked()
	e.status = StatusIdle
	e.roundIndex = 0
	e.schedule = nil
	e.results = nil
	e.preview = nil
	e.segments = nil
	e.timing = Timing{}
}

// armTimerLocked always cancels the previous timer first, so at most one
// completion callback is outstanding.
func (e *Engine) armTimerLocked(d time.Duration) {
	e.stopTimerLocked()
	e.timerSeq++
	seq := e.timerSeq
	e.timer = e.clock.AfterFunc(d, func() { e.fire(seq) })
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.timerSeq++
}

// fire is the completion timer callback.
func (e *Engine) fire(seq uint64) {
	e.mu.Lock()
	if seq != e.timerSeq || e.timer == nil || e.status != StatusRunning {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	e.completeRoundLocked()
	events := e.drainLocked()
	e.mu.Unlock()

	dispatch(events)
}

func (e *Engine) drainLocked() []func() {
	events := e.events
	e.events = nil
	return events
}

func dispatch(events []func()) {
	for _, fn := range events {
		fn()
	}
}

// msToDuration rounds up so the timer never fires before the slowest finish.
func msToDuration(ms float64) time.Duration {
	return time.Duration(math.Ceil(ms * float64(time.Millisecond)))
}
