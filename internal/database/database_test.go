package database

import (
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
)

func TestOpenAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dashboard.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() returned unexpected error: %v", err)
	}
	defer db.Close()

	if err := Migrate(db, goose.NopLogger()); err != nil {
		t.Fatalf("Migrate() returned unexpected error: %v", err)
	}
	// A second run has nothing to apply.
	if err := Migrate(db, goose.NopLogger()); err != nil {
		t.Fatalf("second Migrate() returned unexpected error: %v", err)
	}

	version, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion() returned unexpected error: %v", err)
	}
	if version != 1 {
		t.Errorf("Expected schema version 1, got %d", version)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM load_log").Scan(&count); err != nil {
		t.Fatalf("Expected load_log table to exist: %v", err)
	}

	if err := HealthCheck(db); err != nil {
		t.Errorf("HealthCheck() returned unexpected error: %v", err)
	}
	db.Close()
	if err := HealthCheck(db); err == nil {
		t.Error("Expected HealthCheck() to fail on a closed database")
	}
}
