package service

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/pages"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/store"
)

// Load log sources.
const (
	SourceStartup   = "startup"
	SourceManual    = "manual"
	SourceScheduled = "scheduled"
	SourceSelection = "selection"
)

// DashboardService ties the record store, the view store and the page
// renderer together and records every upstream fetch in the load log.
type DashboardService struct {
	records  *store.RecordStore
	view     *store.ViewStore
	renderer *pages.Renderer
	loadLog  *LoadLogService
	log      *logrus.Entry
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	records *store.RecordStore,
	view *store.ViewStore,
	renderer *pages.Renderer,
	loadLog *LoadLogService,
	log *logrus.Entry,
) *DashboardService {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &DashboardService{
		records:  records,
		view:     view,
		renderer: renderer,
		loadLog:  loadLog,
		log:      log.WithField("component", "dashboard"),
	}
}

// Reload runs a bulk load. On success cached holdings are dropped and the
// holdings of the selected portfolio, if any, are fetched again, since the
// load resets the holdings collection. The outcome is written to the load log
// under source.
func (s *DashboardService) Reload(ctx context.Context, source string) store.LoadResult {
	res := s.records.LoadAll(ctx)

	entry := model.Log{
		Timestamp:  res.StartedAt,
		Category:   string(model.LogCategoryBulkLoad),
		Source:     source,
		RequestID:  middleware.GetReqID(ctx),
		DurationMS: res.Duration.Milliseconds(),
	}
	if res.Err != nil {
		entry.Level = string(model.LogLevelError)
		entry.Message = "bulk load failed"
		entry.Details = res.Err.Error()
	} else {
		s.view.FlushHoldingsCache()
		if id := s.view.SelectedPortfolioID(); id != "" {
			s.view.SelectPortfolio(ctx, id)
		}
		entry.Level = string(model.LogLevelInfo)
		entry.Message = "bulk load finished"
		entry.Details = formatCounts(res.Counts)
		for _, n := range res.Counts {
			entry.RowCount += n
		}
	}
	if s.loadLog != nil {
		s.loadLog.Record(ctx, entry)
	}
	return res
}

// RecordHoldings writes a settled holdings selection to the load log. It is
// the view store's OnHoldings hook.
func (s *DashboardService) RecordHoldings(ctx context.Context, res store.HoldingsResult) {
	if s.loadLog == nil {
		return
	}
	entry := model.Log{
		Timestamp:  time.Now(),
		Category:   string(model.LogCategoryHoldings),
		Source:     SourceSelection,
		RequestID:  middleware.GetReqID(ctx),
		DurationMS: res.Duration.Milliseconds(),
		RowCount:   res.Rows,
		Details:    "portfolio_id=" + res.PortfolioID,
	}
	switch {
	case res.Err != nil:
		entry.Level = string(model.LogLevelError)
		entry.Message = "holdings fetch failed"
		entry.Details += " error=" + res.Err.Error()
	case res.Stale:
		entry.Level = string(model.LogLevelDebug)
		entry.Message = "holdings response discarded"
	case res.Cached:
		entry.Level = string(model.LogLevelDebug)
		entry.Message = "holdings served from cache"
	default:
		entry.Level = string(model.LogLevelInfo)
		entry.Message = "holdings loaded"
	}
	s.loadLog.Record(ctx, entry)
}

// Status returns the load status and collection sizes.
func (s *DashboardService) Status() model.StoreStatus {
	return s.records.Snapshot().Status()
}

// Navigation returns the navigation items and the active page.
func (s *DashboardService) Navigation() ([]model.NavItem, model.PageID) {
	items := make([]model.NavItem, len(model.Navigation))
	copy(items, model.Navigation)
	return items, s.view.ActivePage()
}

// View returns the current view selection.
func (s *DashboardService) View() model.ViewState {
	return s.view.State()
}

// SetActivePage switches the active page.
func (s *DashboardService) SetActivePage(page model.PageID) (model.ViewState, error) {
	if err := s.view.SetActivePage(page); err != nil {
		return model.ViewState{}, err
	}
	return s.view.State(), nil
}

// SelectPortfolio changes the selected portfolio on the holdings page.
func (s *DashboardService) SelectPortfolio(ctx context.Context, portfolioID string) model.ViewState {
	s.view.SelectPortfolio(ctx, strings.TrimSpace(portfolioID))
	return s.view.State()
}

// ViewHoldings selects a portfolio and switches to the holdings page.
func (s *DashboardService) ViewHoldings(ctx context.Context, portfolioID string) model.ViewState {
	s.view.GoToPortfolioHoldings(ctx, strings.TrimSpace(portfolioID))
	return s.view.State()
}

// Page renders one page against the current snapshot.
func (s *DashboardService) Page(page model.PageID, q pages.Query) (pages.Grid, error) {
	return s.renderer.Render(page, s.records.Snapshot(), s.view.State(), q)
}

// Export writes every matching row of a page in the given format.
func (s *DashboardService) Export(w io.Writer, page model.PageID, q pages.Query, format string) error {
	grid, err := s.renderer.RenderAll(page, s.records.Snapshot(), s.view.State(), q)
	if err != nil {
		return err
	}
	return pages.Export(w, format, grid)
}

// Wait blocks until background holdings fetches finish.
func (s *DashboardService) Wait() {
	s.view.Wait()
}

func formatCounts(counts map[string]int) string {
	var b strings.Builder
	for i, name := range store.CollectionNames {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(strconv.Itoa(counts[name]))
	}
	return b.String()
}
