package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLite is a durable Backend over a single SQLite database.
// Uses WAL mode so session reads do not block the writer.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at path and bootstraps the
// schema. Idempotent; safe to call on an existing database.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// SQLite supports one writer at a time; keep the pool at one
	// connection to avoid SQLITE_BUSY under concurrent sessions.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Session returns the KV scoped to one session id.
func (s *SQLite) Session(sessionID string) KV {
	return &sqliteSession{db: s.db, id: sessionID}
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

type sqliteSession struct {
	db *sql.DB
	id string
}

func (s *sqliteSession) Save(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_state (session_id, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT (session_id, key) DO UPDATE
		SET value = excluded.value,
		    updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		s.id, key, value)
	if err != nil {
		return fmt.Errorf("save %s/%s: %w", s.id, key, err)
	}
	return nil
}

func (s *sqliteSession) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM session_state WHERE session_id = ? AND key = ?`,
		s.id, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &ReadError{Key: key, Err: err}
	}
	return value, true, nil
}

func (s *sqliteSession) Clear(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM session_state WHERE session_id = ? AND key = ?`,
		s.id, key)
	if err != nil {
		return fmt.Errorf("clear %s/%s: %w", s.id, key, err)
	}
	return nil
}
