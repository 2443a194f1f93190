package derby

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DefaultLaneColor is used for competitors missing from the pool.
const DefaultLaneColor = "#4f46e5"

// LiveEntry is one competitor's position at a point in time.
type LiveEntry struct {
	CompetitorID  int
	Name          string
	Color         string
	Lane          int // 0-based, assignment order
	Position      int // 1-based, by live ranking
	PositionLabel string
	Label         string // Finish time once finished, distance covered before
	Progress      float64
	Finished      bool
	FinishMs      float64
}

// Board is a read-only projection of a Snapshot for display.
type Board struct {
	Status        Status
	Round         RoundAssignment
	HasRound      bool
	Latest        RoundResult
	HasLatest     bool
	Elapsed       time.Duration
	Remaining     time.Duration
	Duration      time.Duration
	Percent       int // 0-100
	Entries       []LiveEntry // Ranked
	Lanes         []LiveEntry // Assignment order
	RoundFinished bool        // A result exists for the active round
	StatusLabel   string
	Title         string
	Subtitle      string
}

// ElapsedInRound returns how far the current round has progressed, clamped
// to [0, duration]. A running round counts wall time since its last start.
func ElapsedInRound(status Status, timing Timing, now time.Time) time.Duration {
	if timing.Duration <= 0 {
		return 0
	}

	completed := timing.Completed
	if status == StatusRunning && !timing.StartedAt.IsZero() {
		completed = min(timing.Duration, completed+now.Sub(timing.StartedAt))
	} else if timing.HasRemaining {
		completed = timing.Duration - timing.Remaining
	}
	return max(0, min(completed, timing.Duration))
}

// BuildBoard projects s at now. It is pure and never simulates.
func BuildBoard(s Snapshot, now time.Time) Board {
	b := Board{
		Status:   s.Status,
		Duration: s.Timing.Duration,
	}
	b.Round, b.HasRound = s.ActiveRound()
	b.Latest, b.HasLatest = s.LatestResult()

	if b.HasRound {
		for _, result := range s.Results {
			if result.RoundNumber == b.Round.RoundNumber {
				b.RoundFinished = true
				break
			}
		}
	}

	b.Elapsed = ElapsedInRound(s.Status, s.Timing, now)
	b.Remaining = max(0, b.Duration-b.Elapsed)
	b.Percent = boardPercent(b)
	b.StatusLabel, b.Title, b.Subtitle = boardLabels(b)

	if !b.HasRound {
		return b
	}

	byID := indexPool(s.Pool)
	switch {
	case s.Status == StatusFinished && b.HasLatest && b.Latest.RoundNumber == b.Round.RoundNumber:
		b.Entries = finalEntries(b.Round, b.Latest, byID)
	case s.Preview == nil:
		b.Entries = lineupEntries(b.Round, byID)
	default:
		b.Entries = liveEntries(b.Round, *s.Preview, s.Segments, b.Elapsed, byID)
	}

	b.Lanes = make([]LiveEntry, len(b.Entries))
	copy(b.Lanes, b.Entries)
	sort.SliceStable(b.Lanes, func(i, j int) bool {
		return b.Lanes[i].Lane < b.Lanes[j].Lane
	})

	return b
}

func boardPercent(b Board) int {
	if b.Status == StatusFinished {
		return 100
	}
	if b.Duration <= 0 || !b.HasRound {
		return 0
	}
	pct := math.Round(float64(b.Elapsed) / float64(b.Duration) * 100)
	return int(max(0, min(100, pct)))
}

func boardLabels(b Board) (status, title, subtitle string) {
	switch {
	case b.Status == StatusRunning:
		status, title = "Live", "Live Leaderboard"
	case b.Status == StatusPaused:
		status, title = "Paused", "Race Paused"
	case b.Status == StatusAwaiting:
		status, title = "Awaiting", "Awaiting Next Lap"
	case b.RoundFinished:
		status, title = "Completed", "Latest Results"
	default:
		status, title = "Upcoming", "Next Round Lineup"
	}

	switch {
	case !b.HasRound:
		subtitle = "Awaiting race schedule"
	case b.Status == StatusRunning:
		subtitle = "Round in progress"
	case b.Status == StatusPaused:
		subtitle = "Round paused"
	case b.Status == StatusAwaiting:
		subtitle = "Round completed, press space for the next lap"
	case b.RoundFinished:
		subtitle = "Round completed"
	default:
		subtitle = "Round ready to start"
	}
	return status, title, subtitle
}

func finalEntries(round RoundAssignment, result RoundResult, byID map[int]Competitor) []LiveEntry {
	lanes := laneIndex(round)
	entries := make([]LiveEntry, 0, len(result.Entries))
	for _, r := range result.Entries {
		e := newLiveEntry(r.CompetitorID, lanes[r.CompetitorID], byID)
		e.Position = r.Position
		e.Progress = 1
		e.Finished = true
		e.FinishMs = r.ElapsedMs
		e.Label = formatSeconds(r.ElapsedMs)
		entries = append(entries, e)
	}
	labelPositions(entries, false)
	return entries
}

func lineupEntries(round RoundAssignment, byID map[int]Competitor) []LiveEntry {
	entries := make([]LiveEntry, 0, len(round.CompetitorIDs))
	for lane, id := range round.CompetitorIDs {
		e := newLiveEntry(id, lane, byID)
		e.Label = "Ready"
		entries = append(entries, e)
	}
	labelPositions(entries, true)
	return entries
}

// liveEntries ranks finished competitors by finish time ahead of everyone
// still running; those are ranked by progress, then by finish time.
func liveEntries(round RoundAssignment, preview RoundResult, segments map[int][]float64, elapsed time.Duration, byID map[int]Competitor) []LiveEntry {
	lanes := laneIndex(round)
	elapsedMs := float64(elapsed) / float64(time.Millisecond)

	entries := make([]LiveEntry, 0, len(preview.Entries))
	for _, r := range preview.Entries {
		e := newLiveEntry(r.CompetitorID, lanes[r.CompetitorID], byID)
		e.FinishMs = r.ElapsedMs
		e.Progress = SegmentProgress(segments[r.CompetitorID], elapsedMs, r.ElapsedMs)
		e.Finished = elapsedMs >= r.ElapsedMs
		if e.Finished {
			e.Progress = 1
			e.Label = formatSeconds(r.ElapsedMs)
		} else {
			e.Label = fmt.Sprintf("%d m", int(math.Round(e.Progress*float64(round.Distance))))
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Finished != b.Finished {
			return a.Finished
		}
		if !a.Finished && a.Progress != b.Progress {
			return a.Progress > b.Progress
		}
		return a.FinishMs < b.FinishMs
	})
	labelPositions(entries, true)
	return entries
}

func newLiveEntry(id, lane int, byID map[int]Competitor) LiveEntry {
	e := LiveEntry{
		CompetitorID: id,
		Name:         fallbackName(id),
		Color:        DefaultLaneColor,
		Lane:         lane,
	}
	if c, ok := byID[id]; ok {
		e.Name = c.Name
		if c.Color != "" {
			e.Color = c.Color
		}
	}
	return e
}

func laneIndex(round RoundAssignment) map[int]int {
	lanes := make(map[int]int, len(round.CompetitorIDs))
	for lane, id := range round.CompetitorIDs {
		lanes[id] = lane
	}
	return lanes
}

// labelPositions fills PositionLabel, renumbering by slice order when asked.
func labelPositions(entries []LiveEntry, renumber bool) {
	for i := range entries {
		if renumber {
			entries[i].Position = i + 1
		}
		entries[i].PositionLabel = fmt.Sprintf("#%d", entries[i].Position)
	}
}

func formatSeconds(ms float64) string {
	return fmt.Sprintf("%.2f s", ms/1000)
}

// LapLabel formats a round number as an ordinal lap, e.g. "2nd Lap".
func LapLabel(n int) string {
	if rem := n % 100; rem >= 11 && rem <= 13 {
		return fmt.Sprintf("%dth Lap", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst Lap", n)
	case 2:
		return fmt.Sprintf("%dnd Lap", n)
	case 3:
		return fmt.Sprintf("%drd Lap", n)
	default:
		return fmt.Sprintf("%dth Lap", n)
	}
}
