package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

// Store is the sqlite-backed decision log. Every organize run gets its own
// run ID; moves and backend-fallback events are recorded against it. A nil
// *Store is valid and drops writes, so callers degrade gracefully when the
// database cannot be opened.
type Store struct {
	db    *sql.DB
	runID string
}

// Move is one recorded file move.
type Move struct {
	RunID     string
	Source    string
	Target    string
	Category  string
	Status    string
	Reason    string
	CreatedAt time.Time
}

// Event is one recorded backend-fallback event.
type Event struct {
	RunID     string
	Backend   string
	Purpose   string
	Detail    string
	CreatedAt time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS moves (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	category TEXT NOT NULL,
	status TEXT NOT NULL,
	reason TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	backend TEXT NOT NULL,
	purpose TEXT NOT NULL,
	detail TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_moves_run ON moves(run_id);
CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id);
`

// Open creates or opens the decision log at path and starts a new run.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Store{db: db, runID: uuid.New().String()}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) RunID() string {
	if s == nil {
		return ""
	}
	return s.runID
}

// RecordMove logs one applied (or attempted) move. Failures to write are
// logged, never propagated: the decision log must not break the run.
func (s *Store) RecordMove(source, target, category, status, reason string) {
	if s == nil || s.db == nil {
		return
	}
	_, err := s.db.Exec(
		`INSERT INTO moves (run_id, source, target, category, status, reason) VALUES (?, ?, ?, ?, ?, ?)`,
		s.runID, source, target, category, status, reason,
	)
	if err != nil {
		log.Warnf("recording move: %v", err)
	}
}

// RecordFallback logs one backend-fallback event.
func (s *Store) RecordFallback(backend, purpose, detail string) {
	if s == nil || s.db == nil {
		return
	}
	_, err := s.db.Exec(
		`INSERT INTO events (run_id, backend, purpose, detail) VALUES (?, ?, ?, ?)`,
		s.runID, backend, purpose, detail,
	)
	if err != nil {
		log.Warnf("recording fallback event: %v", err)
	}
}

// RecentMoves returns the newest moves first, capped at limit.
func (s *Store) RecentMoves(limit int) ([]Move, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT run_id, source, target, category, status, reason, created_at
		 FROM moves ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying moves: %w", err)
	}
	defer rows.Close()

	var moves []Move
	for rows.Next() {
		var m Move
		if err := rows.Scan(&m.RunID, &m.Source, &m.Target, &m.Category, &m.Status, &m.Reason, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning move: %w", err)
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// RecentEvents returns the newest fallback events first, capped at limit.
func (s *Store) RecentEvents(limit int) ([]Event, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT run_id, backend, purpose, detail, created_at
		 FROM events ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.RunID, &e.Backend, &e.Purpose, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
