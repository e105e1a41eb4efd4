package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/naveenspark/webook/pkg/domain"
)

// SQLite is a Store that keeps the two session entries as rows of a
// key/value settings table.
type SQLite struct {
	db  *sql.DB
	log *zap.Logger

	mu     sync.Mutex
	closed bool
}

// OpenSQLite opens (or creates) the database at path and ensures the
// settings table exists.
func OpenSQLite(path string, log *zap.Logger) (*SQLite, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("session.OpenSQLite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("session.OpenSQLite: ping: %w", err)
	}
	const schema = `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("session.OpenSQLite: create schema: %w", err)
	}
	return &SQLite{db: db, log: log}, nil
}

// Get reads both entries in one statement so a concurrent write never
// yields a token from one session and a user id from another.
func (s *SQLite) Get() domain.Session {
	sess, err := s.getSession(context.Background())
	if err != nil {
		s.log.Warn("session read failed", zap.Error(err))
		return domain.Session{}
	}
	return sess
}

func (s *SQLite) SetToken(token string) error {
	return s.setSetting(context.Background(), KeyToken, token)
}

func (s *SQLite) SetUserID(id string) error {
	return s.setSetting(context.Background(), KeyUserID, id)
}

func (s *SQLite) Clear() error {
	if s.isClosed() {
		return ErrClosed
	}
	_, err := s.db.Exec(`DELETE FROM settings WHERE key IN (?, ?)`, KeyToken, KeyUserID)
	if err != nil {
		return fmt.Errorf("session.SQLite.Clear: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *SQLite) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *SQLite) getSession(ctx context.Context) (domain.Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings WHERE key IN (?, ?)`, KeyToken, KeyUserID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("getting session: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var sess domain.Session
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return domain.Session{}, fmt.Errorf("getting session: %w", err)
		}
		switch key {
		case KeyToken:
			sess.Token = value
		case KeyUserID:
			sess.UserID = value
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Session{}, fmt.Errorf("getting session: %w", err)
	}
	return sess, nil
}

func (s *SQLite) setSetting(ctx context.Context, key, value string) error {
	if s.isClosed() {
		return ErrClosed
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return nil
}
