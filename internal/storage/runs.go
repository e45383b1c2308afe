package storage

import (
	"crypto/rand"
	"database/sql"
	"encoding/base32"
	"fmt"
	"strings"
	"time"
)

// End reasons recorded for a run.
const (
	EndQuit     = "quit"     // Player left mid-run
	EndWin      = "win"      // Campaign finished
	EndTimeout  = "timeout"  // Headless run hit its tick budget
	EndCanceled = "canceled" // Context canceled or connection dropped
)

// RunResult is one finished play session.
type RunResult struct {
	ID           int64
	RunID        string
	GameID       string
	Player       string // SSH user or "local"; empty for headless runs
	Score        int
	Level        int
	WallsBuilt   int
	GemsEarned   int
	Achievements []string
	EndReason    string
	Duration     int // Duration in seconds
	CreatedAt    time.Time
}

// NewRunID returns a random 10-character run identifier.
func NewRunID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%010X", time.Now().UnixNano()&0xFFFFFFFFFF)
	}
	return strings.ToUpper(base32.StdEncoding.EncodeToString(b)[:10])
}

// SaveRun records a finished run. An empty RunID is filled in.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(run RunResult) (int64, error) {
	if run.RunID == "" {
		run.RunID = NewRunID()
	}
	if run.Level < 1 {
		run.Level = 1
	}

	res, err := s.db.Exec(
		`INSERT INTO runs
		 (run_id, game_id, player, score, level, walls_built, gems_earned, achievements, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.GameID,
		run.Player,
		run.Score,
		run.Level,
		run.WallsBuilt,
		run.GemsEarned,
		strings.Join(run.Achievements, ","),
		run.EndReason,
		run.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, run_id, game_id, player, score, level, walls_built,
	gems_earned, achievements, end_reason, duration_secs, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunResult, error) {
	var r RunResult
	var achievements string
	var createdAt any

	err := row.Scan(
		&r.ID,
		&r.RunID,
		&r.GameID,
		&r.Player,
		&r.Score,
		&r.Level,
		&r.WallsBuilt,
		&r.GemsEarned,
		&achievements,
		&r.EndReason,
		&r.Duration,
		&createdAt,
	)
	if err != nil {
		return r, err
	}

	if achievements != "" {
		r.Achievements = strings.Split(achievements, ",")
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// RunByID retrieves a run by its run ID. Returns nil if not found.
func (s *Store) RunByID(runID string) (*RunResult, error) {
	r, err := scanRun(s.db.QueryRow(
		`SELECT `+runColumns+` FROM runs WHERE run_id = ?`,
		runID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// RecentRuns retrieves the most recent runs of a game.
func (s *Store) RecentRuns(gameID string, limit int) ([]RunResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs
		 WHERE game_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		gameID, limit,
	)
}

// TopRuns retrieves the highest-scoring runs of a game.
func (s *Store) TopRuns(gameID string, limit int) ([]RunResult, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs
		 WHERE game_id = ?
		 ORDER BY score DESC, id
		 LIMIT ?`,
		gameID, limit,
	)
}

// PlayerRuns retrieves run history for one player across game modes.
func (s *Store) PlayerRuns(player string, limit int) ([]RunResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs
		 WHERE player = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		player, limit,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]RunResult, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var results []RunResult
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// MaxLevel returns the highest level reached in any run of the game.
// Returns 1 if no runs exist, so the first level is always playable.
func (s *Store) MaxLevel(gameID string) (int, error) {
	var level sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(level) FROM runs WHERE game_id = ?",
		gameID,
	).Scan(&level)
	if err != nil {
		return 1, fmt.Errorf("storage: cannot query max level: %w", err)
	}
	if !level.Valid || level.Int64 < 1 {
		return 1, nil
	}
	return int(level.Int64), nil
}

// UnlockedAchievements returns every achievement ID recorded in any run
// of the game, without duplicates, in first-unlocked order.
func (s *Store) UnlockedAchievements(gameID string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT achievements FROM runs
		 WHERE game_id = ? AND achievements != ''
		 ORDER BY id`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query achievements: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	var ids []string
	for rows.Next() {
		var list string
		if err := rows.Scan(&list); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		for _, id := range strings.Split(list, ",") {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return ids, nil
}
