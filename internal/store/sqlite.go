// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides the database handle lifecycle and explicit schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens a SQLite store at the given path.
// Parent directories are created if needed. The schema is NOT created
// automatically; callers run CreateUserTable and CreateChatTables once
// when setting up a new database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Wait instead of failing when another connection holds the write lock
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Foreign keys stay off: chatusers rows may reference usernames that
	// were never registered, and chat deletion removes the chats row
	// before its chatusers rows.

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	logger.Info("SQLite store opened", "path", path)
	return s, nil
}

// CreateUserTable creates the userinfo table.
// Returns ErrTableExists if the table is already present; callers decide
// whether that is fatal.
func (s *SQLiteStore) CreateUserTable(ctx context.Context) error {
	query := `
		CREATE TABLE userinfo (
			username TEXT PRIMARY KEY,
			password TEXT
		)
	`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		if isTableExists(err) {
			return ErrTableExists
		}
		return fmt.Errorf("creating userinfo table: %w", err)
	}

	s.logger.Info("created userinfo table")
	return nil
}

// CreateChatTables creates the chats table and then the chatusers table.
// If the chats table cannot be created the chatusers table is not
// attempted. Returns ErrTableExists when a table is already present.
func (s *SQLiteStore) CreateChatTables(ctx context.Context) error {
	chats := `
		CREATE TABLE chats (
			chatid INTEGER PRIMARY KEY,
			owner TEXT NOT NULL REFERENCES userinfo(username)
		)
	`

	if _, err := s.db.ExecContext(ctx, chats); err != nil {
		if isTableExists(err) {
			return ErrTableExists
		}
		return fmt.Errorf("creating chats table: %w", err)
	}

	chatusers := `
		CREATE TABLE chatusers (
			rowid INTEGER PRIMARY KEY,
			chatid INTEGER REFERENCES chats(chatid),
			username TEXT NOT NULL REFERENCES userinfo(username)
		)
	`

	if _, err := s.db.ExecContext(ctx, chatusers); err != nil {
		if isTableExists(err) {
			return ErrTableExists
		}
		return fmt.Errorf("creating chatusers table: %w", err)
	}

	s.logger.Info("created chat tables")
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// isConstraintViolation checks if the error is a SQLite UNIQUE constraint violation
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "constraint failed")
}

// isTableExists checks if the error is SQLite complaining that a CREATE
// TABLE target is already present
func isTableExists(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "already exists")
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)
