// Package sqlite persists finished match results in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"matchsim/internal/match"
)

// ErrNotFound is returned when a requested match id does not exist.
var ErrNotFound = errors.New("match not found")

const schema = `
CREATE TABLE IF NOT EXISTS matches (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  seed        INTEGER NOT NULL,
  home        TEXT NOT NULL,
  away        TEXT NOT NULL,
  home_goals  INTEGER NOT NULL,
  away_goals  INTEGER NOT NULL,
  minutes     INTEGER NOT NULL,
  partial     INTEGER NOT NULL,
  reason      TEXT NOT NULL,
  result_json BLOB NOT NULL,
  created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_matches_created_at ON matches (created_at);
`

// Store is a SQLite-backed match archive.
type Store struct {
	sqlDB *sql.DB
}

// MatchRow is the archive view of one stored result. The full Result is
// kept as JSON; the row carries the columns worth querying on.
type MatchRow struct {
	ID        int64
	Seed      int64
	Home      string
	Away      string
	Score     [2]int
	Minutes   int
	Partial   bool
	Reason    string
	CreatedAt time.Time
}

// Open opens (or creates) the archive at path and ensures the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveResult archives one finished (or budget-truncated) match and
// returns its row id.
func (s *Store) SaveResult(ctx context.Context, seed int64, res match.Result) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	blob, err := json.Marshal(res)
	if err != nil {
		return 0, fmt.Errorf("encode result: %w", err)
	}
	partial := 0
	if res.Partial {
		partial = 1
	}
	out, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO matches (
		   seed, home, away, home_goals, away_goals,
		   minutes, partial, reason, result_json, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seed,
		res.Home,
		res.Away,
		res.Score[0],
		res.Score[1],
		res.MinutesSimulated,
		partial,
		res.Reason,
		blob,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("save result: %w", err)
	}
	id, err := out.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save result: %w", err)
	}
	return id, nil
}

// GetResult returns the full stored result for one match id.
func (s *Store) GetResult(ctx context.Context, id int64) (match.Result, error) {
	if err := ctx.Err(); err != nil {
		return match.Result{}, err
	}
	if s == nil || s.sqlDB == nil {
		return match.Result{}, fmt.Errorf("storage is not configured")
	}
	var blob []byte
	err := s.sqlDB.QueryRowContext(
		ctx, `SELECT result_json FROM matches WHERE id = ?`, id,
	).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return match.Result{}, ErrNotFound
		}
		return match.Result{}, fmt.Errorf("get result: %w", err)
	}
	var res match.Result
	if err := json.Unmarshal(blob, &res); err != nil {
		return match.Result{}, fmt.Errorf("decode result: %w", err)
	}
	return res, nil
}

// ListRecent returns up to limit archive rows, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]MatchRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, seed, home, away, home_goals, away_goals,
		        minutes, partial, reason, created_at
		   FROM matches
		  ORDER BY created_at DESC, id DESC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	out := make([]MatchRow, 0, limit)
	for rows.Next() {
		var r MatchRow
		var partial int
		var createdAt int64
		if err := rows.Scan(
			&r.ID, &r.Seed, &r.Home, &r.Away,
			&r.Score[0], &r.Score[1],
			&r.Minutes, &partial, &r.Reason, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("list matches: %w", err)
		}
		r.Partial = partial != 0
		r.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return out, nil
}
