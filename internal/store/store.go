// Package store provides SQLite-backed memo persistence with optional FTS5
// full-text search.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/soren/memora/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS memos (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL DEFAULT '',
	category   TEXT NOT NULL DEFAULT 'other',
	tags       TEXT NOT NULL DEFAULT '[]',
	checksum   TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_memos_category ON memos(category);
CREATE INDEX IF NOT EXISTS idx_memos_updated ON memos(updated_at);
`

// MemoStore defines the persistence operations the service layer depends on.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type MemoStore interface {
	Insert(m models.Memo) error
	Get(id string) (*models.Memo, error)
	Update(m models.Memo) error
	Delete(id string) error
	List(opts ListOptions) ([]models.MemoListItem, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	Stats() ([]models.CategoryCount, error)
	Close() error
}

// Verify *DB satisfies MemoStore at compile time.
var _ MemoStore = (*DB)(nil)

// DB wraps a sql.DB with memo-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
