// Package journal stores bot sessions, their per-frame decisions and arena
// game results in SQLite.
package journal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var ErrUnknownSession = errors.New("unknown session")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	bot TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	ended_at DATETIME,
	ticks INTEGER NOT NULL DEFAULT 0,
	termination TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS ticks (
	session_id TEXT NOT NULL REFERENCES sessions(id),
	frame INTEGER NOT NULL,
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	direction TEXT NOT NULL,
	inertia INTEGER NOT NULL,
	score_north INTEGER NOT NULL,
	score_east INTEGER NOT NULL,
	score_south INTEGER NOT NULL,
	score_west INTEGER NOT NULL,
	attempts INTEGER NOT NULL,
	PRIMARY KEY (session_id, frame)
);

CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	started_at DATETIME,
	ended_at DATETIME,
	width INTEGER,
	height INTEGER,
	players TEXT,
	winner TEXT,
	frames INTEGER,
	reason TEXT
);
`

// Session is one bot connection from join to termination.
type Session struct {
	ID          string
	Bot         string
	StartedAt   time.Time
	EndedAt     sql.NullTime
	Ticks       int
	Termination string
}

// TickRecord is one frame's decision. Scores are in north, east, south,
// west order.
type TickRecord struct {
	SessionID string
	Frame     int
	X         int
	Y         int
	Direction string
	Inertia   int
	Scores    [4]int
	Attempts  int
}

// GameRecord is a finished arena game.
type GameRecord struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Width     int
	Height    int
	Players   []string
	Winner    string
	Frames    int
	Reason    string
}

// Journal wraps the database handle. It is safe for concurrent use, so a pool
// of bots can share one.
type Journal struct {
	db *sql.DB
}

// Open creates the database file, its directory and the tables as needed.
func Open(path string) (*Journal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY between bots.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal tables: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// BeginSession opens a session row for bot and returns its id.
func (j *Journal) BeginSession(bot string) (string, error) {
	id := uuid.New().String()
	_, err := j.db.Exec(`INSERT INTO sessions (id, bot, started_at) VALUES (?, ?, ?)`, id, bot, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to begin session for %s: %w", bot, err)
	}
	return id, nil
}

func (j *Journal) RecordTick(rec TickRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO ticks (session_id, frame, x, y, direction, inertia,
		                   score_north, score_east, score_south, score_west, attempts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Frame, rec.X, rec.Y, rec.Direction, rec.Inertia,
		rec.Scores[0], rec.Scores[1], rec.Scores[2], rec.Scores[3], rec.Attempts,
	)
	if err != nil {
		return fmt.Errorf("failed to record frame %d: %w", rec.Frame, err)
	}
	return nil
}

func (j *Journal) EndSession(id string, termination string, ticks int) error {
	res, err := j.db.Exec(`UPDATE sessions SET ended_at = ?, termination = ?, ticks = ? WHERE id = ?`,
		time.Now().UTC(), termination, ticks, id)
	if err != nil {
		return fmt.Errorf("failed to end session %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return nil
}

func (j *Journal) SaveGame(rec GameRecord) error {
	players, err := json.Marshal(rec.Players)
	if err != nil {
		return fmt.Errorf("failed to encode players: %w", err)
	}
	_, err = j.db.Exec(`
		INSERT INTO games (id, started_at, ended_at, width, height, players, winner, frames, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt.UTC(), rec.EndedAt.UTC(), rec.Width, rec.Height,
		string(players), rec.Winner, rec.Frames, rec.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to save game %s: %w", rec.ID, err)
	}
	return nil
}

// Sessions lists sessions, newest first.
func (j *Journal) Sessions() ([]Session, error) {
	rows, err := j.db.Query(`
		SELECT id, bot, started_at, ended_at, ticks, termination
		FROM sessions
		ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.Bot, &s.StartedAt, &s.EndedAt, &s.Ticks, &s.Termination); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Ticks lists a session's decisions in frame order.
func (j *Journal) Ticks(sessionID string) ([]TickRecord, error) {
	rows, err := j.db.Query(`
		SELECT session_id, frame, x, y, direction, inertia,
		       score_north, score_east, score_south, score_west, attempts
		FROM ticks
		WHERE session_id = ?
		ORDER BY frame`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticks: %w", err)
	}
	defer rows.Close()

	var ticks []TickRecord
	for rows.Next() {
		var t TickRecord
		err := rows.Scan(&t.SessionID, &t.Frame, &t.X, &t.Y, &t.Direction, &t.Inertia,
			&t.Scores[0], &t.Scores[1], &t.Scores[2], &t.Scores[3], &t.Attempts)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tick: %w", err)
		}
		ticks = append(ticks, t)
	}
	return ticks, rows.Err()
}

// Games lists arena games, newest first.
func (j *Journal) Games() ([]GameRecord, error) {
	rows, err := j.db.Query(`
		SELECT id, started_at, ended_at, width, height, players, winner, frames, reason
		FROM games
		ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		var players string
		err := rows.Scan(&g.ID, &g.StartedAt, &g.EndedAt, &g.Width, &g.Height,
			&players, &g.Winner, &g.Frames, &g.Reason)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		if err := json.Unmarshal([]byte(players), &g.Players); err != nil {
			return nil, fmt.Errorf("failed to decode players of game %s: %w", g.ID, err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
