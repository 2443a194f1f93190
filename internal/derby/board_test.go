package derby

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/tui-derby/internal/config"
)

func TestElapsedInRound(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		timing   Timing
		now      time.Time
		expected time.Duration
	}{
		{
			name:     "no duration",
			status:   StatusRunning,
			timing:   Timing{StartedAt: testStart},
			now:      testStart.Add(time.Second),
			expected: 0,
		},
		{
			name:     "running",
			status:   StatusRunning,
			timing:   Timing{StartedAt: testStart, Duration: 4 * time.Second, Completed: 500 * time.Millisecond},
			now:      testStart.Add(time.Second),
			expected: 1500 * time.Millisecond,
		},
		{
			name:     "running past the end",
			status:   StatusRunning,
			timing:   Timing{StartedAt: testStart, Duration: 4 * time.Second},
			now:      testStart.Add(time.Minute),
			expected: 4 * time.Second,
		},
		{
			name:     "paused",
			status:   StatusPaused,
			timing:   Timing{Duration: 4 * time.Second, Remaining: 2500 * time.Millisecond, HasRemaining: true, Completed: 1500 * time.Millisecond},
			now:      testStart.Add(time.Hour),
			expected: 1500 * time.Millisecond,
		},
		{
			name:     "completed",
			status:   StatusAwaiting,
			timing:   Timing{Duration: 4 * time.Second, Completed: 4 * time.Second},
			now:      testStart,
			expected: 4 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ElapsedInRound(tt.status, tt.timing, tt.now); got != tt.expected {
				t.Errorf("ElapsedInRound() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestBuildBoardWithoutSchedule(t *testing.T) {
	b := BuildBoard(Snapshot{Status: StatusIdle}, testStart)

	if b.HasRound || len(b.Entries) != 0 {
		t.Error("board without schedule should have no round or entries")
	}
	if b.Subtitle != "Awaiting race schedule" {
		t.Errorf("subtitle = %q", b.Subtitle)
	}
	if b.StatusLabel != "Upcoming" || b.Title != "Next Round Lineup" {
		t.Errorf("labels = %q / %q", b.StatusLabel, b.Title)
	}
	if b.Percent != 0 {
		t.Errorf("percent = %d, expected 0", b.Percent)
	}
}

func TestBuildBoardLineup(t *testing.T) {
	s := Snapshot{
		Status:   StatusReady,
		Pool:     []Competitor{{ID: 1, Name: "One", Color: "#111111"}, {ID: 2, Name: "Two"}},
		Schedule: []RoundAssignment{{RoundNumber: 1, Distance: 1200, CompetitorIDs: []int{2, 1, 99}}},
	}

	b := BuildBoard(s, testStart)
	if b.Subtitle != "Round ready to start" {
		t.Errorf("subtitle = %q", b.Subtitle)
	}
	if len(b.Entries) != 3 {
		t.Fatalf("%d entries, expected 3", len(b.Entries))
	}

	expected := []struct {
		id    int
		name  string
		color string
	}{
		{2, "Two", DefaultLaneColor},
		{1, "One", "#111111"},
		{99, "Horse 99", DefaultLaneColor},
	}
	for i, want := range expected {
		got := b.Entries[i]
		if got.CompetitorID != want.id || got.Name != want.name || got.Color != want.color {
			t.Errorf("entry %d = %+v, expected %+v", i, got, want)
		}
		if got.PositionLabel != fmt.Sprintf("#%d", i+1) || got.Lane != i || got.Label != "Ready" {
			t.Errorf("entry %d: position %q, lane %d, label %q", i, got.PositionLabel, got.Lane, got.Label)
		}
	}
}

func liveSnapshot() Snapshot {
	return Snapshot{
		Status: StatusRunning,
		Pool: []Competitor{
			{ID: 1, Name: "A"},
			{ID: 2, Name: "B"},
			{ID: 3, Name: "C"},
		},
		Schedule: []RoundAssignment{{RoundNumber: 1, Distance: 1000, CompetitorIDs: []int{3, 1, 2}}},
		Preview: &RoundResult{
			RoundNumber: 1,
			Entries: []ResultEntry{
				{Position: 1, CompetitorID: 1, ElapsedMs: 1000},
				{Position: 2, CompetitorID: 2, ElapsedMs: 2000},
				{Position: 3, CompetitorID: 3, ElapsedMs: 3000},
			},
		},
		Timing: Timing{
			StartedAt:    testStart,
			Duration:     4 * time.Second,
			Remaining:    4 * time.Second,
			HasRemaining: true,
		},
	}
}

func TestBuildBoardLive(t *testing.T) {
	b := BuildBoard(liveSnapshot(), testStart.Add(1500*time.Millisecond))

	if b.StatusLabel != "Live" || b.Title != "Live Leaderboard" || b.Subtitle != "Round in progress" {
		t.Errorf("labels = %q / %q / %q", b.StatusLabel, b.Title, b.Subtitle)
	}
	if b.Elapsed != 1500*time.Millisecond || b.Remaining != 2500*time.Millisecond {
		t.Errorf("elapsed = %v, remaining = %v", b.Elapsed, b.Remaining)
	}
	if b.Percent != 38 {
		t.Errorf("percent = %d, expected 38", b.Percent)
	}

	expected := []struct {
		id       int
		label    string
		finished bool
		progress float64
	}{
		{1, "1.00 s", true, 1},
		{2, "750 m", false, 0.75},
		{3, "500 m", false, 0.5},
	}
	for i, want := range expected {
		got := b.Entries[i]
		if got.CompetitorID != want.id || got.Label != want.label || got.Finished != want.finished {
			t.Errorf("entry %d = %+v, expected %+v", i, got, want)
		}
		if math.Abs(got.Progress-want.progress) > 1e-9 {
			t.Errorf("entry %d progress = %v, expected %v", i, got.Progress, want.progress)
		}
		if got.Position != i+1 {
			t.Errorf("entry %d position = %d", i, got.Position)
		}
	}

	lanes := []int{3, 1, 2}
	for i, id := range lanes {
		if b.Lanes[i].CompetitorID != id || b.Lanes[i].Lane != i {
			t.Errorf("lane %d = competitor %d, expected %d", i, b.Lanes[i].CompetitorID, id)
		}
	}
}

func TestBuildBoardRankingBySegments(t *testing.T) {
	s := liveSnapshot()
	// B is quick early, C is slow early; A has no curve
	s.Segments = map[int][]float64{
		2: {100, 200, 300, 2000},
		3: {2700, 2800, 2900, 3000},
	}

	b := BuildBoard(s, testStart.Add(500*time.Millisecond))
	order := []int{b.Entries[0].CompetitorID, b.Entries[1].CompetitorID, b.Entries[2].CompetitorID}
	if order[0] != 2 || order[1] != 1 || order[2] != 3 {
		t.Errorf("ranking = %v, expected [2 1 3]", order)
	}
}

func TestBuildBoardRankingTieBreak(t *testing.T) {
	s := liveSnapshot()
	s.Pool = nil

	// Nobody has progressed; ties break by finish time
	b := BuildBoard(s, testStart)
	for i, id := range []int{1, 2, 3} {
		if b.Entries[i].CompetitorID != id {
			t.Errorf("entries[%d] = %d, expected %d", i, b.Entries[i].CompetitorID, id)
		}
	}
}

func TestBuildBoardPaused(t *testing.T) {
	s := liveSnapshot()
	s.Status = StatusPaused
	s.Timing = Timing{Duration: 4 * time.Second, Remaining: 2 * time.Second, HasRemaining: true, Completed: 2 * time.Second}

	b := BuildBoard(s, testStart.Add(time.Hour))
	if b.StatusLabel != "Paused" || b.Title != "Race Paused" || b.Subtitle != "Round paused" {
		t.Errorf("labels = %q / %q / %q", b.StatusLabel, b.Title, b.Subtitle)
	}
	if b.Percent != 50 {
		t.Errorf("percent = %d, expected 50", b.Percent)
	}
}

func TestBuildBoardAwaiting(t *testing.T) {
	s := liveSnapshot()
	s.Status = StatusAwaiting
	s.Results = []RoundResult{*s.Preview}
	s.Preview = nil
	s.Timing = Timing{Duration: 4 * time.Second, Completed: 4 * time.Second}

	b := BuildBoard(s, testStart)
	if b.StatusLabel != "Awaiting" || b.Title != "Awaiting Next Lap" {
		t.Errorf("labels = %q / %q", b.StatusLabel, b.Title)
	}
	if !b.RoundFinished || !b.HasLatest {
		t.Error("awaiting board should see the finished round")
	}
	if b.Percent != 100 {
		t.Errorf("percent = %d, expected 100", b.Percent)
	}
}

func TestBuildBoardFinished(t *testing.T) {
	s := liveSnapshot()
	s.Status = StatusFinished
	s.Results = []RoundResult{*s.Preview}
	s.Preview = nil
	s.Timing = Timing{}

	b := BuildBoard(s, testStart)
	if b.StatusLabel != "Completed" || b.Title != "Latest Results" || b.Subtitle != "Round completed" {
		t.Errorf("labels = %q / %q / %q", b.StatusLabel, b.Title, b.Subtitle)
	}
	if b.Percent != 100 {
		t.Errorf("percent = %d, expected 100", b.Percent)
	}
	for i, e := range b.Entries {
		if e.Position != i+1 || !e.Finished || e.Progress != 1 {
			t.Errorf("entry %d = %+v", i, e)
		}
	}
	if b.Entries[2].Label != "3.00 s" {
		t.Errorf("label = %q, expected 3.00 s", b.Entries[2].Label)
	}
}

func TestEngineBoard(t *testing.T) {
	e, clock := newTestEngine(t, config.DefaultRaceConfig())
	_ = e.Start()

	duration := e.Snapshot().Timing.Duration
	clock.Advance(duration / 2)

	b := e.Board()
	if b.Round.RoundNumber != 1 || len(b.Entries) != 10 || len(b.Lanes) != 10 {
		t.Fatalf("board round %d with %d entries", b.Round.RoundNumber, len(b.Entries))
	}
	if b.Percent < 49 || b.Percent > 51 {
		t.Errorf("percent = %d, expected about 50", b.Percent)
	}

	for i := 1; i < len(b.Entries); i++ {
		prev, cur := b.Entries[i-1], b.Entries[i]
		if cur.Finished && !prev.Finished {
			t.Errorf("finished entry %d ranked behind a running one", i)
		}
		if !cur.Finished && !prev.Finished && cur.Progress > prev.Progress {
			t.Errorf("entry %d progress %v ahead of %v", i, cur.Progress, prev.Progress)
		}
	}
}

func TestLapLabel(t *testing.T) {
	tests := map[int]string{
		1:   "1st Lap",
		2:   "2nd Lap",
		3:   "3rd Lap",
		4:   "4th Lap",
		11:  "11th Lap",
		12:  "12th Lap",
		13:  "13th Lap",
		21:  "21st Lap",
		22:  "22nd Lap",
		101: "101st Lap",
		111: "111th Lap",
	}

	for n, expected := range tests {
		if got := LapLabel(n); got != expected {
			t.Errorf("LapLabel(%d) = %q, expected %q", n, got, expected)
		}
	}
}

func TestSnapshotActiveRoundFallback(t *testing.T) {
	s := Snapshot{
		RoundIndex: 9,
		Schedule:   []RoundAssignment{{RoundNumber: 1}, {RoundNumber: 2}},
	}
	round, ok := s.ActiveRound()
	if !ok || round.RoundNumber != 2 {
		t.Errorf("ActiveRound() = %d, %v, expected the last round", round.RoundNumber, ok)
	}
}
