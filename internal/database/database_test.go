package database

import (
	"path/filepath"
	"testing"
)

func TestOpen_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "tidepool.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("reading journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestTableExists(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	exists, err := TableExists(db, "tide_stations")
	if err != nil || exists {
		t.Errorf("before create: exists=%v err=%v, want false, nil", exists, err)
	}

	if _, err := db.Exec("CREATE TABLE tide_stations (id TEXT PRIMARY KEY)"); err != nil {
		t.Fatalf("creating table: %v", err)
	}

	exists, err = TableExists(db, "tide_stations")
	if err != nil || !exists {
		t.Errorf("after create: exists=%v err=%v, want true, nil", exists, err)
	}
}
