package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// MatchPlayer is one slot's result in a finished match
type MatchPlayer struct {
	Slot  int    `json:"slot"`
	Name  string `json:"name"`
	Score int32  `json:"score"`
}

// Match is a finished match
type Match struct {
	ID       string        `json:"id"`
	Duration float64       `json:"duration"` // seconds
	EndedAt  time.Time     `json:"ended_at"`
	Players  []MatchPlayer `json:"players"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS highscores (
		rank INTEGER PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		score INTEGER NOT NULL DEFAULT 0,
		played_at INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		duration REAL NOT NULL DEFAULT 0,
		ended_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS match_players (
		match_id TEXT NOT NULL REFERENCES matches(id),
		slot INTEGER NOT NULL,
		name TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (match_id, slot)
	);

	CREATE TABLE IF NOT EXISTS match_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		player INTEGER NOT NULL DEFAULT -1,
		slot INTEGER NOT NULL DEFAULT -1,
		match_time REAL NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_matches_ended ON matches(ended_at);
	CREATE INDEX IF NOT EXISTS idx_match_events_match ON match_events(match_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Load returns the saved table. Missing ranks come back as zero rows.
func (db *DB) Load() (Table, error) {
	var t Table
	rows, err := db.conn.Query("SELECT rank, name, score, played_at FROM highscores ORDER BY rank LIMIT ?", len(t))
	if err != nil {
		return t, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var rank int
		var r Record
		if err := rows.Scan(&rank, &r.Name, &r.Score, &r.PlayedAt); err != nil {
			return Table{}, err
		}
		if rank >= 0 && rank < len(t) {
			t[rank] = r
			n++
		}
	}
	if err := rows.Err(); err != nil {
		return Table{}, err
	}
	if n == 0 {
		return t, ErrNoHighscores
	}
	return t, nil
}

// Save replaces the stored table in one transaction
func (db *DB) Save(t Table) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO highscores (rank, name, score, played_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(rank) DO UPDATE SET name = excluded.name, score = excluded.score, played_at = excluded.played_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range t {
		if _, err := stmt.Exec(i, r.Name, r.Score, r.PlayedAt); err != nil {
			return fmt.Errorf("save rank %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// RecordMatch stores a finished match and its players. An empty ID gets
// a fresh UUID; the ID used is returned.
func (db *DB) RecordMatch(m Match) (string, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.EndedAt.IsZero() {
		m.EndedAt = time.Now()
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT INTO matches (id, duration, ended_at) VALUES (?, ?, ?)",
		m.ID, m.Duration, m.EndedAt.Unix()); err != nil {
		return "", err
	}
	for _, p := range m.Players {
		if _, err := tx.Exec("INSERT INTO match_players (match_id, slot, name, score) VALUES (?, ?, ?, ?)",
			m.ID, p.Slot, p.Name, p.Score); err != nil {
			return "", err
		}
	}
	return m.ID, tx.Commit()
}

// RecentMatches returns the latest matches, newest first
func (db *DB) RecentMatches(limit int) ([]Match, error) {
	rows, err := db.conn.Query("SELECT id, duration, ended_at FROM matches ORDER BY ended_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}

	var result []Match
	for rows.Next() {
		var m Match
		var ended int64
		if err := rows.Scan(&m.ID, &m.Duration, &ended); err != nil {
			rows.Close()
			return nil, err
		}
		m.EndedAt = time.Unix(ended, 0)
		result = append(result, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		players, err := db.matchPlayers(result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Players = players
	}
	return result, nil
}

func (db *DB) matchPlayers(matchID string) ([]MatchPlayer, error) {
	rows, err := db.conn.Query("SELECT slot, name, score FROM match_players WHERE match_id = ? ORDER BY slot", matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MatchPlayer
	for rows.Next() {
		var p MatchPlayer
		if err := rows.Scan(&p.Slot, &p.Name, &p.Score); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// EventCounts returns how many events of each kind a match logged
func (db *DB) EventCounts(matchID string) (map[string]int, error) {
	rows, err := db.conn.Query("SELECT kind, COUNT(*) FROM match_events WHERE match_id = ? GROUP BY kind", matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
