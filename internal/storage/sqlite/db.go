// ABOUTME: SQLite connection lifecycle for the MindMate store
// ABOUTME: File databases run in WAL mode so the server and CLI can share one file
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	filePragmas   = "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)"
	memoryPragmas = "?_pragma=foreign_keys(ON)"
	memoryPath    = ":memory:"
)

// DB is an open MindMate database with its schema applied
type DB struct {
	conn *sql.DB
	path string
}

// Open opens the database file at path, creating it and its directory if needed
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory for %s: %w", path, err)
	}
	return open(path, path+filePragmas, 0)
}

// OpenInMemory opens a private database that vanishes on Close
func OpenInMemory() (*DB, error) {
	// Each pooled connection would see its own empty database
	return open(memoryPath, memoryPath+memoryPragmas, 1)
}

func open(path, dsn string, maxConns int) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if maxConns > 0 {
		conn.SetMaxOpenConns(maxConns)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connecting to database %s: %w", path, err)
	}
	if _, err := conn.Exec(Schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("applying schema to %s: %w", path, err)
	}
	return &DB{conn: conn, path: path}, nil
}

// Close releases the connection pool
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Conn exposes the pool for callers that need database/sql directly
func (db *DB) Conn() *sql.DB { return db.conn }

// Path is the file path, or ":memory:"
func (db *DB) Path() string { return db.path }

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.conn.ExecContext(ctx, query, args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, query, args...)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, query, args...)
}

// WithTx commits when fn succeeds and rolls back otherwise
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
