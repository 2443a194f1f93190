package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-derby/internal/derby"
)

const (
	nameWidth     = 16
	labelWidth    = 9
	minTrackWidth = 20
	panelWidth    = 30
	runnerGlyph   = "▶"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	trackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

// toneColors maps a board tone to its badge color.
var toneColors = map[string]lipgloss.Color{
	"accent":  lipgloss.Color("205"),
	"warning": lipgloss.Color("214"),
	"info":    lipgloss.Color("39"),
	"success": lipgloss.Color("42"),
	"neutral": lipgloss.Color("245"),
}

func boardTone(b derby.Board) string {
	switch {
	case b.Status == derby.StatusRunning:
		return "accent"
	case b.Status == derby.StatusPaused:
		return "warning"
	case b.Status == derby.StatusAwaiting:
		return "info"
	case b.Status == derby.StatusFinished || b.RoundFinished:
		return "success"
	}
	return "neutral"
}

// newLeaderboard creates the ranked table shown beside the track.
func newLeaderboard(screenH int) table.Model {
	columns := []table.Column{
		{Title: "Pos", Width: 4},
		{Title: "Horse", Width: nameWidth},
		{Title: "Time", Width: labelWidth},
	}

	height := 12
	if screenH > 0 && screenH-20 < height {
		height = max(4, screenH-20)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	return t
}

// leaderboardRows converts ranked entries to table rows.
func leaderboardRows(b derby.Board) []table.Row {
	rows := make([]table.Row, len(b.Entries))
	for i, e := range b.Entries {
		rows[i] = table.Row{e.PositionLabel, truncate(e.Name, nameWidth), e.Label}
	}
	return rows
}

func (m Model) render() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderTrack())
	b.WriteString("\n")

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(m.table.View()),
		" ",
		panelStyle.Width(panelWidth).Render(m.renderProgram()),
		" ",
		panelStyle.Width(panelWidth).Render(m.renderResults()),
	)
	b.WriteString(panels)
	b.WriteString("\n")

	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys.WithFlowLabel(m.board.Status))))

	return b.String()
}

func (m Model) renderHeader() string {
	board := m.board
	tone := toneColors[boardTone(board)]

	badge := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(tone).
		Padding(0, 1).
		Render(board.StatusLabel)

	title := titleStyle.Render("TUI DERBY")
	seed := dimStyle.Render(fmt.Sprintf("seed %d", m.config.Seed))
	top := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", badge, "  ", seed)

	heading := titleStyle.Render(board.Title) + dimStyle.Render("  "+board.Subtitle)
	if board.HasRound {
		heading = fmt.Sprintf("%s  %s  %s",
			lipgloss.NewStyle().Bold(true).Render(derby.LapLabel(board.Round.RoundNumber)),
			dimStyle.Render(fmt.Sprintf("%d m", board.Round.Distance)),
			heading,
		)
	}

	return top + "\n" + heading + "\n" + m.renderProgress(tone)
}

func (m Model) renderProgress(tone lipgloss.Color) string {
	width := max(minTrackWidth, m.trackWidth())
	filled := width * m.board.Percent / 100

	bar := lipgloss.NewStyle().Foreground(tone).Render(strings.Repeat("█", filled)) +
		trackStyle.Render(strings.Repeat("░", width-filled))

	timing := fmt.Sprintf("%3d%%  %s / %s",
		m.board.Percent,
		formatDuration(m.board.Elapsed),
		formatDuration(m.board.Duration),
	)
	return bar + " " + dimStyle.Render(timing)
}

func (m Model) trackWidth() int {
	return m.config.ScreenW - nameWidth - labelWidth - 8
}

// renderTrack draws one lane per competitor in assignment order.
func (m Model) renderTrack() string {
	if len(m.board.Lanes) == 0 {
		return dimStyle.Render("No program yet. Press g to generate one.") + "\n"
	}

	width := max(minTrackWidth, m.trackWidth())
	var b strings.Builder
	for _, lane := range m.board.Lanes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(lane.Color))

		pos := int(lane.Progress * float64(width-1))
		pos = max(0, min(width-1, pos))

		track := trackStyle.Render(strings.Repeat("·", pos)) +
			style.Render(runnerGlyph) +
			trackStyle.Render(strings.Repeat("·", width-1-pos))

		name := style.Render(fmt.Sprintf("%-*s", nameWidth, truncate(lane.Name, nameWidth)))
		label := fmt.Sprintf("%*s", labelWidth, lane.Label)
		if lane.Finished {
			label = lipgloss.NewStyle().Bold(true).Render(label)
		}

		fmt.Fprintf(&b, "%2d %s │%s│ %s\n", lane.Lane+1, name, track, label)
	}
	return b.String()
}

func (m Model) renderProgram() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Program"))
	b.WriteString("\n")

	if len(m.snapshot.Schedule) == 0 {
		b.WriteString(dimStyle.Render("Awaiting race schedule"))
		return b.String()
	}

	done := make(map[int]bool, len(m.snapshot.Results))
	for _, r := range m.snapshot.Results {
		done[r.RoundNumber] = true
	}

	live := m.board.Status == derby.StatusRunning || m.board.Status == derby.StatusPaused
	for i, round := range m.snapshot.Schedule {
		marker := "  "
		style := lipgloss.NewStyle()
		switch {
		case done[round.RoundNumber]:
			marker = "✓ "
			style = dimStyle
		case live && i == m.snapshot.RoundIndex:
			marker = "> "
			style = style.Bold(true).Foreground(toneColors[boardTone(m.board)])
		}
		line := fmt.Sprintf("%s%-9s %5d m  %2d", marker, derby.LapLabel(round.RoundNumber), round.Distance, len(round.CompetitorIDs))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderResults() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Results"))
	b.WriteString("\n")

	if len(m.snapshot.Results) == 0 {
		b.WriteString(dimStyle.Render("No rounds completed"))
		return b.String()
	}

	names := make(map[int]string, len(m.snapshot.Pool))
	for _, c := range m.snapshot.Pool {
		names[c.ID] = c.Name
	}

	for _, r := range m.snapshot.Results {
		winner, ok := r.Winner()
		if !ok {
			continue
		}
		name, found := names[winner.CompetitorID]
		if !found {
			name = fmt.Sprintf("Horse %d", winner.CompetitorID)
		}
		fmt.Fprintf(&b, "%-9s %-14s %6.2fs\n",
			derby.LapLabel(r.RoundNumber), truncate(name, 14), winner.ElapsedMs/1000)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderStatusLine() string {
	if msg := friendlyError(m.err); msg != "" {
		return errorStyle.Render(msg)
	}

	if m.board.Status == derby.StatusFinished {
		id, err := m.archive.Last()
		switch {
		case err != nil:
			return errorStyle.Render("Race finished, archive failed: " + err.Error())
		case id != "":
			return dimStyle.Render("Race finished. Archived as " + shortID(id))
		}
		return dimStyle.Render("Race finished.")
	}
	return ""
}

// truncate shortens s to width runes, marking the cut with a dot.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
