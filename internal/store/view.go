package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/backend"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/metrics"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
)

// HoldingsFetcher loads the holdings of one portfolio.
type HoldingsFetcher interface {
	PortfolioHoldings(ctx context.Context, portfolioID string) (backend.Collection, error)
}

// HoldingsResult describes the outcome of one holdings selection.
type HoldingsResult struct {
	PortfolioID string
	Token       string
	Rows        int
	Duration    time.Duration
	Cached      bool
	// Stale is set when a newer selection superseded this one and the
	// response was discarded.
	Stale bool
	Err   error
}

// ViewOptions configure a ViewStore.
type ViewOptions struct {
	// CacheTTL is how long fetched holdings are reused. Zero disables the cache.
	CacheTTL time.Duration
	// OnHoldings is called after every selection settles.
	OnHoldings func(context.Context, HoldingsResult)
}

// ViewStore tracks the active page and the selected portfolio, and keeps the
// holdings collection of the record store in line with the selection.
type ViewStore struct {
	records *RecordStore
	fetcher HoldingsFetcher
	cache   *cache.Cache
	notify  func(context.Context, HoldingsResult)
	log     *logrus.Entry

	mu       sync.RWMutex
	active   model.PageID
	selected string
	token    string

	wg sync.WaitGroup
}

// NewViewStore returns a view store starting on the clients page with no
// portfolio selected.
func NewViewStore(records *RecordStore, fetcher HoldingsFetcher, opts ViewOptions, log *logrus.Entry) *ViewStore {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	v := &ViewStore{
		records: records,
		fetcher: fetcher,
		notify:  opts.OnHoldings,
		log:     log.WithField("component", "view_store"),
		active:  model.PageClients,
	}
	if opts.CacheTTL > 0 {
		v.cache = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}
	return v
}

// State returns the active page and selection.
func (v *ViewStore) State() model.ViewState {
	v.mu.RLock()
	defer v.mu.RUnlock()

	st := model.ViewState{ActivePage: v.active}
	if v.selected != "" {
		id := v.selected
		st.SelectedPortfolioID = &id
	}
	return st
}

// ActivePage returns the page currently shown.
func (v *ViewStore) ActivePage() model.PageID {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.active
}

// SelectedPortfolioID returns the selected portfolio, or "" when none.
func (v *ViewStore) SelectedPortfolioID() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selected
}

// SetActivePage switches the active page.
func (v *ViewStore) SetActivePage(page model.PageID) error {
	if !model.ValidPage(page) {
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownPage, page)
	}
	v.mu.Lock()
	v.active = page
	v.mu.Unlock()
	return nil
}

// SelectPortfolio records the selection and refreshes the holdings
// collection for it. An empty id clears the holdings. Cached holdings are
// applied before SelectPortfolio returns; otherwise they are fetched in the
// background and applied only if no newer selection was made meanwhile. A
// failed fetch clears the holdings.
//
// It returns the token identifying this selection.
func (v *ViewStore) SelectPortfolio(ctx context.Context, id string) string {
	token := uuid.NewString()

	// Selection and any synchronous apply happen under one lock so that a
	// later selection can never be overwritten by an earlier one.
	v.mu.Lock()
	v.selected = id
	v.token = token

	if id == "" {
		v.records.ReplaceHoldings(nil, nil)
		v.mu.Unlock()
		return token
	}

	if c, ok := v.cached(id); ok {
		v.records.ReplaceHoldings(c.Rows, c.Columns)
		v.mu.Unlock()
		metrics.ObserveHoldings(metrics.ResultCached)
		v.report(ctx, HoldingsResult{PortfolioID: id, Token: token, Rows: len(c.Rows), Cached: true})
		return token
	}
	v.mu.Unlock()

	// The fetch outlives the request that triggered it.
	bg := context.WithoutCancel(ctx)
	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		v.fetch(bg, id, token)
	}()
	return token
}

// GoToPortfolioHoldings selects a portfolio and switches to the holdings page.
func (v *ViewStore) GoToPortfolioHoldings(ctx context.Context, id string) string {
	token := v.SelectPortfolio(ctx, id)
	v.mu.Lock()
	v.active = model.PageHoldings
	v.mu.Unlock()
	return token
}

// FlushHoldingsCache drops every cached holdings payload. It is called after
// each successful bulk load.
func (v *ViewStore) FlushHoldingsCache() {
	if v.cache != nil {
		v.cache.Flush()
	}
}

// Wait blocks until every background holdings fetch has finished.
func (v *ViewStore) Wait() {
	v.wg.Wait()
}

func (v *ViewStore) fetch(ctx context.Context, id, token string) {
	start := time.Now()
	c, err := v.fetcher.PortfolioHoldings(ctx, id)
	res := HoldingsResult{PortfolioID: id, Token: token, Duration: time.Since(start)}

	if err == nil && v.cache != nil {
		v.cache.SetDefault(id, c)
	}

	v.mu.Lock()
	if v.token != token {
		v.mu.Unlock()
		res.Stale = true
		metrics.ObserveHoldings(metrics.ResultStale)
		v.log.WithFields(logrus.Fields{"portfolio_id": id, "token": token}).Debug("discarding stale holdings response")
		v.report(ctx, res)
		return
	}
	if err != nil {
		v.records.ReplaceHoldings(nil, nil)
	} else {
		v.records.ReplaceHoldings(c.Rows, c.Columns)
	}
	v.mu.Unlock()

	if err != nil {
		res.Err = fmt.Errorf("%w: %w", apperrors.ErrHoldingsFailed, err)
		metrics.ObserveHoldings(metrics.ResultError)
		v.log.WithError(err).WithField("portfolio_id", id).Error("error fetching portfolio holdings")
		v.report(ctx, res)
		return
	}

	res.Rows = len(c.Rows)
	metrics.ObserveHoldings(metrics.ResultSuccess)
	v.report(ctx, res)
}

func (v *ViewStore) cached(id string) (backend.Collection, bool) {
	if v.cache == nil {
		return backend.Collection{}, false
	}
	c, ok := v.cache.Get(id)
	if !ok {
		return backend.Collection{}, false
	}
	return c.(backend.Collection), true
}

func (v *ViewStore) report(ctx context.Context, res HoldingsResult) {
	if v.notify != nil {
		v.notify(ctx, res)
	}
}
