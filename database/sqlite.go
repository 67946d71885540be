package database

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	_ "github.com/mattn/go-sqlite3"
)

// Store owns the SQLite connection. It is created once in main and handed to
// the repositories; there is no package-level handle.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at dataSourceName and verifies the connection
func Open(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// A single writer avoids "database is locked" on concurrent imports
	db.SetMaxOpenConns(1)

	return &Store{db: db}, nil
}

// Initialize opens the database and applies pending migrations
func Initialize(dataSourceName string) (*Store, error) {
	store, err := Open(dataSourceName)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(store.db); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Str("path", dataSourceName).Msg("database initialized")
	return store, nil
}

// DB returns the underlying connection pool
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection
func (s *Store) Close() error {
	if s != nil && s.db != nil {
		return s.db.Close()
	}
	return nil
}
