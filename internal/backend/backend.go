// Package backend talks to the upstream admin API that owns the dashboard's
// records.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/columns"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/metrics"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
)

// Upstream view paths.
const (
	PathClients         = "/admin-client-view/"
	PathTeams           = "/admin-teams-view/"
	PathUsers           = "/admin-user-view/"
	PathPortfolios      = "/admin-portfolio-view/"
	PathHoldings        = "/admin-portfolio-holdings-view/"
	PathPortfolioShares = "/admin-portfolio-sharing-view/"
)

// DefaultHoldingsKey is the payload field carrying holdings rows.
const DefaultHoldingsKey = "portfolio_details"

// Collection is the decoded body of one list view.
type Collection struct {
	Rows    []model.Row
	Columns []columns.Meta
}

// Client is the set of upstream calls the stores rely on.
type Client interface {
	ListClients(ctx context.Context) (Collection, error)
	ListTeams(ctx context.Context) (Collection, error)
	ListUsers(ctx context.Context) (Collection, error)
	ListPortfolios(ctx context.Context) (Collection, error)
	ListPortfolioShares(ctx context.Context) (Collection, error)
	PortfolioHoldings(ctx context.Context, portfolioID string) (Collection, error)
}

// Options configure an HTTPClient.
type Options struct {
	BaseURL     string
	Token       string
	HoldingsKey string
	Timeout     time.Duration
	// RateLimit is the number of requests per second. Zero disables limiting.
	RateLimit float64
	RateBurst int
}

// HTTPClient calls the admin API over HTTP.
type HTTPClient struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	holdingsKey string
	limiter     *rate.Limiter
}

// NewHTTPClient returns a client for the admin API at opts.BaseURL.
func NewHTTPClient(opts Options) *HTTPClient {
	holdingsKey := opts.HoldingsKey
	if holdingsKey == "" {
		holdingsKey = DefaultHoldingsKey
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &HTTPClient{
		httpClient:  &http.Client{Timeout: opts.Timeout},
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		token:       opts.Token,
		holdingsKey: holdingsKey,
		limiter:     limiter,
	}
}

// ListClients fetches every client.
func (c *HTTPClient) ListClients(ctx context.Context) (Collection, error) {
	return c.list(ctx, PathClients)
}

// ListTeams fetches every team.
func (c *HTTPClient) ListTeams(ctx context.Context) (Collection, error) {
	return c.list(ctx, PathTeams)
}

// ListUsers fetches every user.
func (c *HTTPClient) ListUsers(ctx context.Context) (Collection, error) {
	return c.list(ctx, PathUsers)
}

// ListPortfolios fetches every portfolio header.
func (c *HTTPClient) ListPortfolios(ctx context.Context) (Collection, error) {
	return c.list(ctx, PathPortfolios)
}

// ListPortfolioShares fetches every sharing grant.
func (c *HTTPClient) ListPortfolioShares(ctx context.Context) (Collection, error) {
	return c.list(ctx, PathPortfolioShares)
}

// PortfolioHoldings fetches the holdings of one portfolio. Only the configured
// holdings key of the payload is read; a payload without it yields no rows.
func (c *HTTPClient) PortfolioHoldings(ctx context.Context, portfolioID string) (Collection, error) {
	q := url.Values{}
	q.Set("portfolio_id", portfolioID)

	var body map[string]json.RawMessage
	if err := c.get(ctx, PathHoldings+"?"+q.Encode(), &body); err != nil {
		return Collection{}, err
	}

	rows, err := model.DecodeRows(body[c.holdingsKey])
	if err != nil {
		return Collection{}, fmt.Errorf("decode %s: %w", c.holdingsKey, err)
	}
	return Collection{Rows: rows, Columns: decodeMeta(body[model.ColumnDefsPayloadField])}, nil
}

type listPayload struct {
	Data       json.RawMessage `json:"data"`
	ColumnDefs json.RawMessage `json:"columnDefs"`
}

func (c *HTTPClient) list(ctx context.Context, path string) (Collection, error) {
	var body listPayload
	if err := c.get(ctx, path, &body); err != nil {
		return Collection{}, err
	}

	rows, err := model.DecodeRows(body.Data)
	if err != nil {
		return Collection{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return Collection{Rows: rows, Columns: decodeMeta(body.ColumnDefs)}, nil
}

// decodeMeta is lenient: malformed column definitions are treated as absent
// so that the grid falls back to inference.
func decodeMeta(raw json.RawMessage) []columns.Meta {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	out := make([]columns.Meta, 0, len(entries))
	for _, e := range entries {
		var m columns.Meta
		if err := json.Unmarshal(e, &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(metricPath(path), 0, time.Since(start))
		return err
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream(metricPath(path), resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Path: path, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// metricPath strips the query so that label cardinality stays bounded.
func metricPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

// StatusError reports a non-2xx answer from the admin API.
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Path, e.StatusCode)
}
