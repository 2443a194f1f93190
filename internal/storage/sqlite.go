// Package storage provides a SQLite archive of finished race programs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
//
// The archive is write-and-report only: nothing here is ever loaded back
// into a running engine.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-derby/internal/derby"
)

// Store manages the SQLite database connection for the race archive.
type Store struct {
	db *sql.DB
}

// RaceSummary is one archived race program.
type RaceSummary struct {
	ID        string
	Seed      int64
	Rounds    int
	CreatedAt time.Time
}

// ArchivedEntry is one competitor's finish in an archived round.
type ArchivedEntry struct {
	RaceID         string
	RoundNumber    int
	Distance       int
	Position       int
	CompetitorID   int
	CompetitorName string
	ElapsedMs      float64
}

// WinnerStat counts round wins by competitor name.
type WinnerStat struct {
	CompetitorName string
	Wins           int
	BestMs         float64
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS races (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			rounds INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS round_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			race_id TEXT NOT NULL REFERENCES races(id) ON DELETE CASCADE,
			round_number INTEGER NOT NULL,
			distance INTEGER NOT NULL,
			position INTEGER NOT NULL,
			competitor_id INTEGER NOT NULL,
			competitor_name TEXT NOT NULL,
			elapsed_ms REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_round_results_race ON round_results(race_id, round_number, position);
		CREATE INDEX IF NOT EXISTS idx_round_results_distance ON round_results(distance, elapsed_ms);
		CREATE INDEX IF NOT EXISTS idx_round_results_winners ON round_results(position, competitor_name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRace archives a race program and its results in one transaction.
// Returns the generated race ID.
func (s *Store) SaveRace(seed int64, schedule []derby.RoundAssignment, results []derby.RoundResult, pool []derby.Competitor) (string, error) {
	distances := make(map[int]int, len(schedule))
	for _, round := range schedule {
		distances[round.RoundNumber] = round.Distance
	}
	names := make(map[int]string, len(pool))
	for _, c := range pool {
		names[c.ID] = c.Name
	}

	raceID := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.Exec(
		"INSERT INTO races (id, seed, rounds) VALUES (?, ?, ?)",
		raceID, seed, len(results),
	); err != nil {
		return "", fmt.Errorf("storage: cannot save race: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO round_results
		 (race_id, round_number, distance, position, competitor_id, competitor_name, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot prepare result insert: %w", err)
	}
	defer stmt.Close()

	for _, result := range results {
		for _, entry := range result.Entries {
			name, ok := names[entry.CompetitorID]
			if !ok {
				name = fmt.Sprintf("Horse %d", entry.CompetitorID)
			}
			if _, err := stmt.Exec(
				raceID,
				result.RoundNumber,
				distances[result.RoundNumber],
				entry.Position,
				entry.CompetitorID,
				name,
				entry.ElapsedMs,
			); err != nil {
				return "", fmt.Errorf("storage: cannot save round %d: %w", result.RoundNumber, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit race: %w", err)
	}
	return raceID, nil
}

// SaveSnapshot archives the race held in an engine snapshot.
func (s *Store) SaveSnapshot(snap derby.Snapshot) (string, error) {
	return s.SaveRace(snap.Seed, snap.Schedule, snap.Results, snap.Pool)
}

// RecentRaces retrieves the most recently archived races.
func (s *Store) RecentRaces(limit int) ([]RaceSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, seed, rounds, created_at
		 FROM races
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query races: %w", err)
	}
	defer rows.Close()

	var races []RaceSummary
	for rows.Next() {
		var r RaceSummary
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Seed, &r.Rounds, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTimestamp(createdAt)
		races = append(races, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return races, nil
}

// Race retrieves one race summary. Returns nil if the ID is unknown.
func (s *Store) Race(raceID string) (*RaceSummary, error) {
	var r RaceSummary
	var createdAt any

	err := s.db.QueryRow(
		"SELECT id, seed, rounds, created_at FROM races WHERE id = ?",
		raceID,
	).Scan(&r.ID, &r.Seed, &r.Rounds, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query race: %w", err)
	}

	r.CreatedAt = parseTimestamp(createdAt)
	return &r, nil
}

// RaceResults retrieves every archived entry of a race, ordered by round
// and position.
func (s *Store) RaceResults(raceID string) ([]ArchivedEntry, error) {
	return s.queryEntries(
		`SELECT race_id, round_number, distance, position, competitor_id, competitor_name, elapsed_ms
		 FROM round_results
		 WHERE race_id = ?
		 ORDER BY round_number, position`,
		raceID,
	)
}

// BestTimes retrieves the fastest archived finishes over a distance.
func (s *Store) BestTimes(distance, limit int) ([]ArchivedEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	return s.queryEntries(
		`SELECT race_id, round_number, distance, position, competitor_id, competitor_name, elapsed_ms
		 FROM round_results
		 WHERE distance = ?
		 ORDER BY elapsed_ms ASC
		 LIMIT ?`,
		distance, limit,
	)
}

// TopWinners ranks competitors by archived round wins.
func (s *Store) TopWinners(limit int) ([]WinnerStat, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT competitor_name, COUNT(*) AS wins, MIN(elapsed_ms)
		 FROM round_results
		 WHERE position = 1
		 GROUP BY competitor_name
		 ORDER BY wins DESC, competitor_name ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query winners: %w", err)
	}
	defer rows.Close()

	var stats []WinnerStat
	for rows.Next() {
		var w WinnerStat
		if err := rows.Scan(&w.CompetitorName, &w.Wins, &w.BestMs); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		stats = append(stats, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearRaces deletes the whole archive.
func (s *Store) ClearRaces() error {
	if _, err := s.db.Exec("DELETE FROM round_results"); err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM races"); err != nil {
		return fmt.Errorf("storage: cannot clear races: %w", err)
	}
	return nil
}

func (s *Store) queryEntries(query string, args ...any) ([]ArchivedEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var entries []ArchivedEntry
	for rows.Next() {
		var e ArchivedEntry
		if err := rows.Scan(
			&e.RaceID,
			&e.RoundNumber,
			&e.Distance,
			&e.Position,
			&e.CompetitorID,
			&e.CompetitorName,
			&e.ElapsedMs,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTimestamp handles both time.Time and string datetimes from the driver.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
