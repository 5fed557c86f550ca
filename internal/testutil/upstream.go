package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/backend"
)

// FakeUpstream is an httptest server that answers like the admin API.
// Collections, failures and delays can be changed between requests.
type FakeUpstream struct {
	Server *httptest.Server

	mu       sync.Mutex
	lists    map[string][]map[string]any
	columns  map[string][]map[string]any
	holdings map[string][]map[string]any
	failing  map[string]int
	requests map[string]int
}

// NewFakeUpstream starts a fake admin API seeded with DefaultDataset.
// The server is closed when the test completes.
//
// Example:
//
//	upstream := testutil.NewFakeUpstream(t)
//	upstream.Fail(backend.PathTeams, http.StatusBadGateway)
//	client := backend.NewHTTPClient(backend.Options{BaseURL: upstream.URL()})
func NewFakeUpstream(t *testing.T) *FakeUpstream {
	t.Helper()

	f := &FakeUpstream{
		lists:    DefaultDataset(),
		columns:  map[string][]map[string]any{},
		holdings: DefaultHoldings(),
		failing:  map[string]int{},
		requests: map[string]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the fake API.
func (f *FakeUpstream) URL() string {
	return f.Server.URL
}

// SetRows replaces the rows served for a list path.
func (f *FakeUpstream) SetRows(path string, rows []map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[path] = rows
}

// SetColumns makes a list path ship column metadata.
func (f *FakeUpstream) SetColumns(path string, cols []map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.columns[path] = cols
}

// SetHoldings replaces the holdings served for one portfolio.
func (f *FakeUpstream) SetHoldings(portfolioID string, rows []map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holdings[portfolioID] = rows
}

// Fail makes a path answer with status until Recover is called.
func (f *FakeUpstream) Fail(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[path] = status
}

// Recover clears every configured failure.
func (f *FakeUpstream) Recover() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = map[string]int{}
}

// Requests returns how many requests a path received.
func (f *FakeUpstream) Requests(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[path]
}

func (f *FakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	f.requests[path]++

	if status, ok := f.failing[path]; ok {
		http.Error(w, "upstream failure", status)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if path == backend.PathHoldings {
		id := r.URL.Query().Get("portfolio_id")
		rows, ok := f.holdings[id]
		if !ok {
			rows = []map[string]any{}
		}
		//nolint:errcheck // Test server
		json.NewEncoder(w).Encode(map[string]any{backend.DefaultHoldingsKey: rows})
		return
	}

	rows, ok := f.lists[path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	body := map[string]any{"data": rows}
	if cols, ok := f.columns[path]; ok {
		body["columnDefs"] = cols
	}
	//nolint:errcheck // Test server
	json.NewEncoder(w).Encode(body)
}

// DefaultDataset is a small consistent set of admin records: two clients,
// each with one team, one user and one portfolio, and one share each way.
func DefaultDataset() map[string][]map[string]any {
	return map[string][]map[string]any{
		backend.PathClients: {
			{"client_id": 1, "client_name": "Acme"},
			{"client_id": 2, "client_name": "Beta"},
		},
		backend.PathTeams: {
			{"team_id": 10, "team_name": "Ops", "client_id": 1},
			{"team_id": 20, "team_name": "Sales", "client_id": 2},
		},
		backend.PathUsers: {
			{"user_id": 100, "full_name": "Ann Archer", "username": "ann", "client_id": 1, "team_id": 10},
			{"user_id": 200, "full_name": nil, "username": "bob", "client_id": 2, "team_id": 20},
		},
		backend.PathPortfolios: {
			{"portfolio_id": "p1", "portfolio_name": "Growth", "client_id": 1, "team_id": 10, "user_id": 100},
			{"portfolio_id": "p2", "portfolio_name": "Income", "client_id": 2, "team_id": 20, "user_id": 200},
		},
		backend.PathPortfolioShares: {
			{"portfolio_id": "p1", "owner_user_id": 100, "shared_with_user_id": 200, "client_id": 1, "team_id": 10},
			{"portfolio_id": "p2", "owner_user_id": 200, "shared_with_user_id": 100, "client_id": 2, "team_id": 20},
		},
	}
}

// DefaultHoldings returns the holdings served per portfolio.
func DefaultHoldings() map[string][]map[string]any {
	return map[string][]map[string]any{
		"p1": {
			{"portfolio_id": "p1", "symbol": "AAA", "quantity": 10},
			{"portfolio_id": "p1", "symbol": "BBB", "quantity": 5},
		},
		"p2": {
			{"portfolio_id": "p2", "symbol": "CCC", "quantity": 1},
		},
	}
}
