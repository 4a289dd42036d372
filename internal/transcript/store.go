// Package transcript archives chat messages to SQLite. The archive is write-only
// from the widget's point of view: nothing is ever loaded back into a live view.
package transcript

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"CampusChat/internal/session"

	_ "github.com/mattn/go-sqlite3"
)

// Store is an append-only message archive
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createSessionsTable := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		start_time DATETIME,
		endpoint TEXT
	);`

	createMessagesTable := `
	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT,
		is_user BOOLEAN,
		text TEXT,
		timestamp DATETIME,
		FOREIGN KEY(session_id) REFERENCES sessions(id)
	);`

	for _, stmt := range []string{createSessionsTable, createMessagesTable} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// StartSession registers a new widget session.
func (s *Store) StartSession(ctx context.Context, id, endpoint string, start time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO sessions (id, start_time, endpoint) VALUES (?, ?, ?)",
		id, start, endpoint,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Append archives one message.
func (s *Store) Append(ctx context.Context, sessionID string, msg session.Message) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (session_id, is_user, text, timestamp) VALUES (?, ?, ?, ?)",
		sessionID, msg.IsUser, msg.Text, msg.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// Messages returns the archived messages of a session in append order.
func (s *Store) Messages(ctx context.Context, sessionID string) ([]session.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT is_user, text, timestamp FROM messages WHERE session_id = ? ORDER BY id",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	messages := []session.Message{}
	for rows.Next() {
		var msg session.Message
		if err := rows.Scan(&msg.IsUser, &msg.Text, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
