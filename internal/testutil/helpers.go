package testutil

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/backend"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/pages"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/repository"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/service"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/store"
)

// Dashboard bundles the pieces a handler test needs.
type Dashboard struct {
	Service  *service.DashboardService
	LoadLog  *service.LoadLogService
	Records  *store.RecordStore
	View     *store.ViewStore
	Upstream *FakeUpstream
}

// NewTestLogger returns a logger that discards output.
func NewTestLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

// NewTestSystemService creates a SystemService on db.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db, map[string]bool{"export": true})
}

// NewTestLoadLogService creates a LoadLogService on db.
func NewTestLoadLogService(t *testing.T, db *sql.DB) *service.LoadLogService {
	t.Helper()
	return service.NewLoadLogService(repository.NewLoadLogRepository(db), NewTestLogger())
}

// NewTestDashboard wires a DashboardService against a fresh fake upstream.
// Holdings caching is disabled so every selection reaches the upstream.
//
// Example usage:
//
//	d := testutil.NewTestDashboard(t, db)
//	d.Service.Reload(context.Background(), service.SourceManual)
func NewTestDashboard(t *testing.T, db *sql.DB) *Dashboard {
	t.Helper()
	return NewTestDashboardWithCache(t, db, 0)
}

// NewTestDashboardWithCache is NewTestDashboard with a holdings cache TTL.
func NewTestDashboardWithCache(t *testing.T, db *sql.DB, ttl time.Duration) *Dashboard {
	t.Helper()

	upstream := NewFakeUpstream(t)
	log := NewTestLogger()
	client := backend.NewHTTPClient(backend.Options{BaseURL: upstream.URL(), Timeout: 5 * time.Second})

	loadLog := NewTestLoadLogService(t, db)
	records := store.NewRecordStore(client, log)
	renderer := pages.NewRenderer(pages.Config{
		Locale:          language.English,
		HideIDs:         true,
		DefaultPageSize: 25,
		MaxPageSize:     100,
	})

	var dashboard *service.DashboardService
	view := store.NewViewStore(records, client, store.ViewOptions{
		CacheTTL:   ttl,
		OnHoldings: func(ctx context.Context, res store.HoldingsResult) { dashboard.RecordHoldings(ctx, res) },
	}, log)
	dashboard = service.NewDashboardService(records, view, renderer, loadLog, log)

	t.Cleanup(view.Wait)

	return &Dashboard{
		Service:  dashboard,
		LoadLog:  loadLog,
		Records:  records,
		View:     view,
		Upstream: upstream,
	}
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}
