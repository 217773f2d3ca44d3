// Package sqlite implements storage.Storage on modernc.org/sqlite. The
// default DSN is ":memory:", which keeps the store volatile like the memory
// backend while exercising real relational constraints; pointing it at a
// file works but is not the mode the system is designed around.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/flockr-dev/flockr/internal/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Storage represents the SQLite storage implementation
type Storage struct {
	db *sql.DB
}

var _ storage.Storage = (*Storage)(nil)

// New creates a new SQLite storage instance.
// dbPath is the path to the SQLite database file; use ":memory:" for an
// in-memory database.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// A single connection: SQLite allows only one writer, and with an
	// in-memory DSN every connection would otherwise see its own database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	storage := &Storage{db: db}

	if err := storage.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Reset wipes every table and restarts id assignment
func (s *Storage) Reset(ctx context.Context) error {
	stmts := []string{
		"DELETE FROM message_reacts",
		"DELETE FROM messages",
		"DELETE FROM channel_members",
		"DELETE FROM channels",
		"DELETE FROM sessions",
		"DELETE FROM users",
		"DELETE FROM sqlite_sequence WHERE name IN ('users', 'channels', 'messages')",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to reset storage: %w", err)
		}
	}
	return nil
}

// runMigrations applies the embedded goose migrations
func (s *Storage) runMigrations() error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetBaseFS(embedMigrations)

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

// DB returns the underlying database connection for testing purposes
func (s *Storage) DB() *sql.DB {
	return s.db
}
