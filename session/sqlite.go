package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// NewSQLiteStore opens (or creates) a SQLite database at path and returns a
// Store persisting each session as a single JSON blob. Close releases the
// underlying connection pool.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			data TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sessions table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SQLiteStore persists conversation state in a sessions table keyed by
// session id, one JSON-serialized State per row.
type SQLiteStore struct {
	db *sql.DB
}

func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (*State, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM sessions WHERE session_id = ?`, sessionID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	state := NewState()
	if err := json.Unmarshal([]byte(data), state); err != nil {
		// A corrupt row is not worth failing the turn over; start the
		// session fresh.
		return NewState(), nil
	}
	return state, nil
}

func (s *SQLiteStore) Save(ctx context.Context, sessionID string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (session_id, data) VALUES (?, ?)`,
		sessionID, string(data),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}

// Close closes the database connection pool.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
