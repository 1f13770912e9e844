package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// DefaultPath is the database location used when none is configured
var DefaultPath = filepath.Join("data", "tidepool.db")

var (
	db      *sql.DB
	once    sync.Once
	initErr error

	// GetDB is a function variable to allow mocking in tests
	GetDB = func(dbPath string) (*sql.DB, error) {
		once.Do(func() {
			db, initErr = Open(dbPath)
		})
		return db, initErr
	}
)

// Open opens (creating if necessary) the SQLite database at dbPath and applies
// the connection pragmas shared by the station and zipcode tables.
func Open(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		dbPath = DefaultPath
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each connection would otherwise get its own empty database
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Set pragmas for performance
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=10000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}
	return conn, nil
}

// TableExists reports whether a table named name exists in db
func TableExists(db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking for %s table: %w", name, err)
	}
	return count > 0, nil
}
