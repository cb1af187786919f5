package database_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/growwtrack/portfolio-tracker-backend/internal/database"
)

// TestOpen tests the connection bootstrap.
//
// WHY: The API serves reads while the refresh loop writes every interval;
// WAL and the busy timeout are what keep those from colliding, and the
// snapshot prune relies on foreign-key cascades being switched on.
func TestOpen(t *testing.T) {
	t.Run("applies the required pragmas", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.db")

		db, err := database.Open(path)
		if err != nil {
			t.Fatalf("Open() returned unexpected error: %v", err)
		}
		t.Cleanup(func() { db.Close() })

		var foreignKeys int
		if err := db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
			t.Fatalf("Failed to read foreign_keys pragma: %v", err)
		}
		if foreignKeys != 1 {
			t.Error("Expected foreign keys to be enabled")
		}

		var journalMode string
		if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
			t.Fatalf("Failed to read journal_mode pragma: %v", err)
		}
		if !strings.EqualFold(journalMode, "wal") {
			t.Errorf("Expected WAL journal mode, got %q", journalMode)
		}

		var busyTimeout int
		if err := db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
			t.Fatalf("Failed to read busy_timeout pragma: %v", err)
		}
		if busyTimeout != 5000 {
			t.Errorf("Expected busy timeout 5000, got %d", busyTimeout)
		}
	})

	t.Run("passes a health check after opening", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.db")

		db, err := database.Open(path)
		if err != nil {
			t.Fatalf("Open() returned unexpected error: %v", err)
		}
		t.Cleanup(func() { db.Close() })

		if err := database.HealthCheck(db); err != nil {
			t.Errorf("HealthCheck() returned unexpected error: %v", err)
		}
	})
}
