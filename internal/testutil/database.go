package testutil

import (
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/database"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB returns a migrated in-memory load log database that is closed
// when the test ends.
//
//	db := testutil.SetupTestDB(t)
//	repo := repository.NewLoadLogRepository(db)
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Each new connection to :memory: would see an empty database.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA timezone = 'UTC'",
		"PRAGMA journal_mode = MEMORY",
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}

	if err := database.Migrate(db, goose.NopLogger()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
