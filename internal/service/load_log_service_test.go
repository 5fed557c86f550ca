package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/testutil"
)

func TestLoadLogService_Record(t *testing.T) {
	t.Run("stores the entry", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLoadLogService(t, db)

		// Execute
		svc.Record(context.Background(), model.Log{
			Level:    string(model.LogLevelInfo),
			Category: string(model.LogCategoryBulkLoad),
			Message:  "bulk load finished",
			Source:   "manual",
			RowCount: 12,
		})

		// Assert
		resp, err := svc.GetLogs(context.Background(), &model.LogFilters{PerPage: 10})
		if err != nil {
			t.Fatalf("GetLogs() returned unexpected error: %v", err)
		}
		if resp.Count != 1 {
			t.Fatalf("Expected 1 entry, got %d", resp.Count)
		}
		if resp.Logs[0].ID == "" || resp.Logs[0].Timestamp.IsZero() {
			t.Error("Expected ID and timestamp to be filled in")
		}
		if resp.Logs[0].RowCount != 12 {
			t.Errorf("Expected row count 12, got %d", resp.Logs[0].RowCount)
		}
	})

	t.Run("does not panic when the database is gone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLoadLogService(t, db)
		db.Close()

		svc.Record(context.Background(), model.Log{Level: "info", Category: "bulk_load", Message: "x", Source: "manual"})
	})
}

func TestLoadLogService_GetLogs(t *testing.T) {
	t.Run("rejects an inverted date range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLoadLogService(t, db)

		start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		end := start.Add(-time.Hour)
		_, err := svc.GetLogs(context.Background(), &model.LogFilters{StartDate: &start, EndDate: &end})

		if !errors.Is(err, apperrors.ErrInvalidDateRange) {
			t.Errorf("Expected ErrInvalidDateRange, got %v", err)
		}
	})

	t.Run("sorts ascending on request", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLoadLogService(t, db)
		created := testutil.CreateLogs(t, db, 3)

		resp, err := svc.GetLogs(context.Background(), &model.LogFilters{SortDir: "asc", PerPage: 10})
		if err != nil {
			t.Fatalf("GetLogs() returned unexpected error: %v", err)
		}
		if resp.Logs[0].ID != created[0].ID || resp.Logs[2].ID != created[2].ID {
			t.Error("Expected oldest entry first")
		}
	})
}

func TestLoadLogService_GetLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestLoadLogService(t, db)
	entry := testutil.NewLog().WithMessage("holdings loaded").Build(t, db)

	got, err := svc.GetLog(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("GetLog() returned unexpected error: %v", err)
	}
	if got.Message != "holdings loaded" {
		t.Errorf("Expected message 'holdings loaded', got '%s'", got.Message)
	}

	if _, err := svc.GetLog(context.Background(), ""); !errors.Is(err, apperrors.ErrEmptyID) {
		t.Errorf("Expected ErrEmptyID, got %v", err)
	}
	if _, err := svc.GetLog(context.Background(), testutil.MakeID()); !errors.Is(err, apperrors.ErrLogNotFound) {
		t.Errorf("Expected ErrLogNotFound, got %v", err)
	}
}

func TestLoadLogService_Prune(t *testing.T) {
	t.Run("removes entries older than the retention", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLoadLogService(t, db)
		testutil.NewLog().At(time.Now().Add(-48 * time.Hour)).Build(t, db)
		recent := testutil.NewLog().Build(t, db)

		n, err := svc.Prune(context.Background(), 24*time.Hour)
		if err != nil {
			t.Fatalf("Prune() returned unexpected error: %v", err)
		}
		if n != 1 {
			t.Errorf("Expected 1 entry pruned, got %d", n)
		}

		resp, err := svc.GetLogs(context.Background(), &model.LogFilters{PerPage: 10})
		if err != nil {
			t.Fatalf("GetLogs() returned unexpected error: %v", err)
		}
		if resp.Count != 1 || resp.Logs[0].ID != recent.ID {
			t.Errorf("Expected only the recent entry to remain, got %+v", resp.Logs)
		}
	})

	t.Run("keeps everything without a retention", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLoadLogService(t, db)
		testutil.NewLog().At(time.Now().Add(-1000 * time.Hour)).Build(t, db)

		n, err := svc.Prune(context.Background(), 0)
		if err != nil || n != 0 {
			t.Errorf("Expected nothing pruned, got %d, %v", n, err)
		}
	})
}
