// Package pages renders the dashboard's six grids: it applies the page's
// dependent filters, search and pagination to a record store snapshot and
// returns rows, column descriptors and dropdown options in one payload.
package pages

import (
	"fmt"
	"net/url"
	"sort"

	"golang.org/x/text/language"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/columns"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/filter"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/options"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/store"
)

// Default paging.
const (
	DefaultPageSize = 25
	DefaultMaxPage  = 500
)

// Config tunes rendering.
type Config struct {
	Locale          language.Tag
	CompactNumbers  bool
	HideIDs         bool
	DefaultPageSize int
	MaxPageSize     int
}

// Query is what the operator asked for on one page.
type Query struct {
	Filters filter.Values
	Search  string
	// PageIndex is zero-based.
	PageIndex int
	// PageSize of zero means the configured default.
	PageSize int
}

// Action is a per-row operation the grid offers.
type Action struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Href   string `json:"href"`
}

// GridRow is one row of a grid. Display holds the formatted text of numeric
// columns.
type GridRow struct {
	Data    model.Row         `json:"data"`
	Display map[string]string `json:"display,omitempty"`
	Actions []Action          `json:"actions,omitempty"`
}

// Grid is a rendered page.
type Grid struct {
	Page      model.PageID                `json:"page"`
	Columns   []columns.Column            `json:"columns"`
	Rows      []GridRow                   `json:"rows"`
	Total     int                         `json:"total"`
	PageIndex int                         `json:"pageIndex"`
	PageSize  int                         `json:"pageSize"`
	Filters   filter.Values               `json:"filters"`
	Options   map[string][]options.Option `json:"options"`
	Reset     []string                    `json:"reset"`
}

// Renderer renders grids from store snapshots. It is safe for concurrent use.
type Renderer struct {
	cfg     Config
	options *options.Builder
	columns columns.Options
}

// NewRenderer returns a Renderer for cfg, filling defaults.
func NewRenderer(cfg Config) *Renderer {
	if cfg.Locale == language.Und {
		cfg.Locale = language.English
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = DefaultPageSize
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = max(DefaultMaxPage, cfg.DefaultPageSize)
	}
	return &Renderer{
		cfg:     cfg,
		options: options.New(cfg.Locale),
		columns: columns.Options{
			Locale:                  cfg.Locale,
			CompactNumbers:          cfg.CompactNumbers,
			HideIDsByPattern:        cfg.HideIDs,
			HideFromToolPanelForIDs: cfg.HideIDs,
		},
	}
}

// Filters returns the filter keys a page accepts, in display order.
func Filters(page model.PageID) ([]string, error) {
	def, ok := definitions[page]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownPage, page)
	}
	keys := make([]string, 0, len(def.filters))
	for _, f := range def.filters {
		keys = append(keys, f.key)
	}
	return keys, nil
}

// Render returns one page of the grid.
func (r *Renderer) Render(page model.PageID, snap store.Snapshot, view model.ViewState, q Query) (Grid, error) {
	return r.render(page, snap, view, q, true)
}

// RenderAll returns every matching row without pagination.
func (r *Renderer) RenderAll(page model.PageID, snap store.Snapshot, view model.ViewState, q Query) (Grid, error) {
	return r.render(page, snap, view, q, false)
}

func (r *Renderer) render(page model.PageID, snap store.Snapshot, view model.ViewState, q Query, paginate bool) (Grid, error) {
	def, ok := definitions[page]
	if !ok {
		return Grid{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownPage, page)
	}
	for key, val := range q.Filters {
		if val != "" && !def.accepts(key) {
			return Grid{}, fmt.Errorf("%w: %s does not filter on %q", apperrors.ErrInvalidFilter, page, key)
		}
	}
	pageSize, err := r.pageSize(q)
	if err != nil {
		return Grid{}, err
	}

	values, reset := filter.Revalidate(def.chain, q.Filters, collectionsOf(snap))

	all := snap.Rows(def.collection)
	var matched []model.Row
	optionSets := make(map[string][]options.Option, len(def.filters)+1)

	if def.selection {
		values = filter.Values{}
		selected := ""
		if view.SelectedPortfolioID != nil {
			selected = *view.SelectedPortfolioID
		}
		if selected != "" {
			values[FilterPortfolio] = selected
			matched = filter.Apply(all, values, []filter.Binding{{Key: FilterPortfolio, Field: model.FieldPortfolioID}})
		} else {
			matched = []model.Row{}
		}
		optionSets[FilterPortfolio] = allPortfolioOptions(r.options, snap, values)
	} else {
		matched = filter.Apply(all, values, def.bindings())
		for _, f := range def.filters {
			optionSets[f.key] = f.options(r.options, snap, values)
		}
	}
	matched = filter.Search(matched, q.Search)

	inferFrom := matched
	if def.columnsFromAll {
		inferFrom = model.Rows(all)
	}
	cols := columns.Resolve(snap.Meta(def.collection), inferFrom, r.columns)
	if def.actions {
		cols = append(cols, actionsColumn())
	}

	grid := Grid{
		Page:      page,
		Columns:   cols,
		Total:     len(matched),
		PageIndex: q.PageIndex,
		PageSize:  pageSize,
		Filters:   values,
		Options:   optionSets,
		Reset:     reset,
	}
	if grid.Reset == nil {
		grid.Reset = []string{}
	}

	window := matched
	if paginate {
		window = pageOf(matched, q.PageIndex, pageSize)
	} else {
		grid.PageIndex = 0
		grid.PageSize = len(matched)
	}
	grid.Rows = r.gridRows(window, cols, def)
	return grid, nil
}

func (r *Renderer) pageSize(q Query) (int, error) {
	if q.PageIndex < 0 {
		return 0, fmt.Errorf("%w: page index %d", apperrors.ErrInvalidPagination, q.PageIndex)
	}
	switch {
	case q.PageSize == 0:
		return r.cfg.DefaultPageSize, nil
	case q.PageSize < 0 || q.PageSize > r.cfg.MaxPageSize:
		return 0, fmt.Errorf("%w: page size must be between 1 and %d", apperrors.ErrInvalidPagination, r.cfg.MaxPageSize)
	default:
		return q.PageSize, nil
	}
}

func (r *Renderer) gridRows(rows []model.Row, cols []columns.Column, def definition) []GridRow {
	var formatted []columns.Column
	for _, c := range cols {
		if c.Formatter != nil {
			formatted = append(formatted, c)
		}
	}

	out := make([]GridRow, 0, len(rows))
	for _, row := range rows {
		gr := GridRow{Data: row}
		if len(formatted) > 0 {
			gr.Display = make(map[string]string, len(formatted))
			for _, c := range formatted {
				v, _ := row.Get(c.Field)
				gr.Display[c.Field] = c.Formatter.Format(v)
			}
		}
		if def.actions {
			if id := row.String(model.FieldPortfolioID); id != "" {
				gr.Actions = []Action{viewHoldingsAction(id)}
			}
		}
		out = append(out, gr)
	}
	return out
}

func pageOf(rows []model.Row, index, size int) []model.Row {
	start := index * size
	if start >= len(rows) {
		return []model.Row{}
	}
	end := min(start+size, len(rows))
	return rows[start:end]
}

func actionsColumn() columns.Column {
	return columns.Column{
		Field:      model.FieldActions,
		HeaderName: "Actions",
		Width:      150,
		Pinned:     "right",
	}
}

func viewHoldingsAction(portfolioID string) Action {
	return Action{
		Label:  "View holdings",
		Method: "POST",
		Href:   "/api/dashboard/portfolios/" + url.PathEscape(portfolioID) + "/holdings",
	}
}

func collectionsOf(snap store.Snapshot) filter.Collections {
	out := make(filter.Collections, len(store.CollectionNames))
	for _, name := range store.CollectionNames {
		out[name] = snap.Rows(name)
	}
	return out
}

// Pages lists every page ID in navigation order.
func Pages() []model.PageID {
	out := make([]model.PageID, 0, len(definitions))
	for id := range definitions {
		out = append(out, id)
	}
	order := make(map[model.PageID]int, len(model.Navigation))
	for i, item := range model.Navigation {
		order[item.Page] = i
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i]] < order[out[j]] })
	return out
}
