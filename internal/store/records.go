// Package store holds the dashboard's in-memory state: the record
// collections loaded from the admin API and the operator's view selection.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/backend"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/columns"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/metrics"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
)

// Collection names.
const (
	CollectionClients          = "clients"
	CollectionTeams            = "teams"
	CollectionUsers            = "users"
	CollectionPortfolioHeaders = "portfolioHeaders"
	CollectionHoldings         = "holdings"
	CollectionShares           = "shares"
)

// CollectionNames lists every collection in a stable order.
var CollectionNames = []string{
	CollectionClients,
	CollectionTeams,
	CollectionUsers,
	CollectionPortfolioHeaders,
	CollectionHoldings,
	CollectionShares,
}

// Dataset is the rows of one collection plus the column metadata the admin
// API sent with them, if any.
type Dataset struct {
	Rows    []model.Row
	Columns []columns.Meta
}

// Snapshot is a read-only view of the record store at one point in time.
// Callers must not modify the slices it holds.
type Snapshot struct {
	datasets map[string]Dataset
	Loading  bool
	Err      string
	LoadedAt time.Time
}

// NewSnapshot builds a loaded snapshot from datasets, for fixtures.
func NewSnapshot(datasets map[string]Dataset) Snapshot {
	copied := make(map[string]Dataset, len(datasets))
	for k, v := range datasets {
		v.Rows = model.Rows(v.Rows)
		copied[k] = v
	}
	return Snapshot{datasets: copied, LoadedAt: time.Now()}
}

// Rows returns the rows of a collection, never nil.
func (s Snapshot) Rows(name string) []model.Row {
	if d, ok := s.datasets[name]; ok && d.Rows != nil {
		return d.Rows
	}
	return []model.Row{}
}

// Meta returns the column metadata of a collection.
func (s Snapshot) Meta(name string) []columns.Meta {
	return s.datasets[name].Columns
}

// Status summarizes the snapshot for the status endpoint.
func (s Snapshot) Status() model.StoreStatus {
	st := model.StoreStatus{
		Loading: s.Loading,
		Counts:  make(map[string]int, len(CollectionNames)),
	}
	if s.Err != "" {
		e := s.Err
		st.Error = &e
	}
	if !s.LoadedAt.IsZero() {
		ts := s.LoadedAt.UTC().Format(time.RFC3339)
		st.LoadedAt = &ts
	}
	for _, name := range CollectionNames {
		st.Counts[name] = len(s.datasets[name].Rows)
	}
	return st
}

// LoadResult describes one finished bulk load.
type LoadResult struct {
	StartedAt time.Time
	Duration  time.Duration
	Counts    map[string]int
	Err       error
}

// RecordStore keeps the six collections. All collections start empty and are
// replaced wholesale by each successful bulk load.
type RecordStore struct {
	client backend.Client
	log    *logrus.Entry

	mu       sync.RWMutex
	datasets map[string]Dataset
	loading  bool
	err      string
	loadedAt time.Time

	group singleflight.Group
}

// NewRecordStore returns an empty store backed by client.
func NewRecordStore(client backend.Client, log *logrus.Entry) *RecordStore {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	datasets := make(map[string]Dataset, len(CollectionNames))
	for _, name := range CollectionNames {
		datasets[name] = Dataset{Rows: []model.Row{}}
	}
	return &RecordStore{
		client:   client,
		log:      log.WithField("component", "record_store"),
		datasets: datasets,
	}
}

// LoadAll fetches the five list views concurrently and, when every fetch
// succeeds, replaces all collections at once. The holdings collection is
// reset to the portfolio headers. On failure the collections are left as they
// were and the error message is recorded.
//
// Calls made while a load is running wait for that load and share its result.
// The shared load does not inherit the cancellation of whichever caller
// started it.
func (s *RecordStore) LoadAll(ctx context.Context) LoadResult {
	v, _, _ := s.group.Do("load", func() (any, error) {
		return s.load(context.WithoutCancel(ctx)), nil
	})
	return v.(LoadResult)
}

func (s *RecordStore) load(ctx context.Context) LoadResult {
	start := time.Now()

	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	var clients, teams, users, headers, shares backend.Collection
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		clients, err = s.client.ListClients(gctx)
		return wrapFetch(CollectionClients, err)
	})
	g.Go(func() (err error) {
		headers, err = s.client.ListPortfolios(gctx)
		return wrapFetch(CollectionPortfolioHeaders, err)
	})
	g.Go(func() (err error) {
		shares, err = s.client.ListPortfolioShares(gctx)
		return wrapFetch(CollectionShares, err)
	})
	g.Go(func() (err error) {
		teams, err = s.client.ListTeams(gctx)
		return wrapFetch(CollectionTeams, err)
	})
	g.Go(func() (err error) {
		users, err = s.client.ListUsers(gctx)
		return wrapFetch(CollectionUsers, err)
	})
	err := g.Wait()

	result := LoadResult{StartedAt: start, Duration: time.Since(start)}

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.err = err.Error()
		s.mu.Unlock()

		result.Err = fmt.Errorf("%w: %w", apperrors.ErrLoadFailed, err)
		metrics.ObserveLoad(metrics.ResultError, result.Duration)
		s.log.WithError(err).WithField("duration_ms", result.Duration.Milliseconds()).Error("bulk load failed")
		return result
	}

	s.datasets = map[string]Dataset{
		CollectionClients:          toDataset(clients),
		CollectionTeams:            toDataset(teams),
		CollectionUsers:            toDataset(users),
		CollectionPortfolioHeaders: toDataset(headers),
		CollectionHoldings:         toDataset(headers),
		CollectionShares:           toDataset(shares),
	}
	s.loadedAt = time.Now()
	counts := s.countsLocked()
	s.mu.Unlock()

	result.Counts = counts
	metrics.ObserveLoad(metrics.ResultSuccess, result.Duration)
	for name, n := range counts {
		metrics.SetCollectionRows(name, n)
	}
	s.log.WithFields(logrus.Fields{
		"duration_ms": result.Duration.Milliseconds(),
		"counts":      counts,
	}).Info("bulk load finished")
	return result
}

// ReplaceHoldings swaps the holdings collection.
func (s *RecordStore) ReplaceHoldings(rows []model.Row, meta []columns.Meta) {
	if rows == nil {
		rows = []model.Row{}
	}
	s.mu.Lock()
	s.datasets[CollectionHoldings] = Dataset{Rows: model.Rows(rows), Columns: meta}
	n := len(s.datasets[CollectionHoldings].Rows)
	s.mu.Unlock()
	metrics.SetCollectionRows(CollectionHoldings, n)
}

// Snapshot returns the current collections and load status.
func (s *RecordStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	datasets := make(map[string]Dataset, len(s.datasets))
	for k, v := range s.datasets {
		datasets[k] = v
	}
	return Snapshot{
		datasets: datasets,
		Loading:  s.loading,
		Err:      s.err,
		LoadedAt: s.loadedAt,
	}
}

func (s *RecordStore) countsLocked() map[string]int {
	counts := make(map[string]int, len(s.datasets))
	for name, d := range s.datasets {
		counts[name] = len(d.Rows)
	}
	return counts
}

func toDataset(c backend.Collection) Dataset {
	rows := model.Rows(c.Rows)
	return Dataset{Rows: rows, Columns: c.Columns}
}

func wrapFetch(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("fetch %s: %w", name, err)
}
