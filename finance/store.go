// Package finance implements the SQLite-backed domain store behind the
// assistant's actions: transactions, liabilities, investments, goals and
// wishlist items.
package finance

import (
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Store wraps the finance database. All methods are safe for concurrent use;
// database/sql serializes access to the underlying connection pool.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the finance database at path and applies
// the schema. Use ":memory:" for an ephemeral database.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open finance db: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply finance schema: %w", err)
	}

	return &Store{db: db}, nil
}

// NewStoreFromDB wraps an existing database handle. The schema must already
// be applied.
func NewStoreFromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for maintenance commands.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
