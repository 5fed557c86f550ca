package pages_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/columns"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/filter"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/options"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/pages"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/store"
)

func fixture(headerMeta []columns.Meta) store.Snapshot {
	headers := []model.Row{
		model.NewRow("portfolio_id", "p1", "portfolio_name", "Growth", "client_id", 1, "team_id", 10, "user_id", 100, "aum", 2500000),
		model.NewRow("portfolio_id", "p2", "portfolio_name", "Income", "client_id", 2, "team_id", 20, "user_id", 200, "aum", 900000),
	}
	return store.NewSnapshot(map[string]store.Dataset{
		store.CollectionClients: {Rows: []model.Row{
			model.NewRow("client_id", 1, "client_name", "Acme"),
			model.NewRow("client_id", 2, "client_name", "Beta"),
		}},
		store.CollectionTeams: {Rows: []model.Row{
			model.NewRow("team_id", 10, "team_name", "Ops", "client_id", 1),
			model.NewRow("team_id", 20, "team_name", "Sales", "client_id", 2),
		}},
		store.CollectionUsers: {Rows: []model.Row{
			model.NewRow("user_id", 100, "full_name", "Ann", "client_id", 1, "team_id", 10),
			model.NewRow("user_id", 200, "username", "bob", "client_id", 2, "team_id", 20),
		}},
		store.CollectionPortfolioHeaders: {Rows: headers, Columns: headerMeta},
		store.CollectionHoldings: {Rows: []model.Row{
			model.NewRow("portfolio_id", "p1", "symbol", "AAA"),
			model.NewRow("portfolio_id", "p1", "symbol", "BBB"),
			model.NewRow("portfolio_id", "p2", "symbol", "CCC"),
		}},
		store.CollectionShares: {Rows: []model.Row{
			model.NewRow("portfolio_id", "p1", "owner_user_id", 100, "shared_with_user_id", 200, "client_id", 1, "team_id", 10),
			model.NewRow("portfolio_id", "p2", "owner_user_id", 200, "shared_with_user_id", 100, "client_id", 2, "team_id", 20),
		}},
	})
}

func newRenderer() *pages.Renderer {
	return pages.NewRenderer(pages.Config{Locale: language.English, HideIDs: true, DefaultPageSize: 25, MaxPageSize: 100})
}

func noView() model.ViewState {
	return model.ViewState{ActivePage: model.PageClients}
}

func fields(cols []columns.Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Field
	}
	return out
}

func TestRender_UnknownPage(t *testing.T) {
	_, err := newRenderer().Render("nope", fixture(nil), noView(), pages.Query{})
	assert.True(t, errors.Is(err, apperrors.ErrUnknownPage))
}

func TestRender_Clients(t *testing.T) {
	r := newRenderer()

	t.Run("search is case-insensitive", func(t *testing.T) {
		grid, err := r.Render(model.PageClients, fixture(nil), noView(), pages.Query{Search: "  ACM "})
		require.NoError(t, err)
		assert.Equal(t, 1, grid.Total)
		require.Len(t, grid.Rows, 1)
		assert.Equal(t, "Acme", grid.Rows[0].Data.String("client_name"))
	})

	t.Run("columns come from all rows and hide identifiers", func(t *testing.T) {
		grid, err := r.Render(model.PageClients, fixture(nil), noView(), pages.Query{Search: "no match"})
		require.NoError(t, err)
		assert.Empty(t, grid.Rows)
		require.Len(t, grid.Columns, 2)
		assert.True(t, grid.Columns[0].Hide)
		assert.False(t, grid.Columns[1].Hide)
	})

	t.Run("rejects filters the page does not have", func(t *testing.T) {
		_, err := r.Render(model.PageClients, fixture(nil), noView(), pages.Query{Filters: filter.Values{"team": "10"}})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidFilter))
	})
}

func TestRender_Teams(t *testing.T) {
	grid, err := newRenderer().Render(model.PageTeams, fixture(nil), noView(), pages.Query{Filters: filter.Values{"client": "1"}})
	require.NoError(t, err)

	require.Len(t, grid.Rows, 1)
	assert.Equal(t, "Ops", grid.Rows[0].Data.String("team_name"))
	assert.Equal(t, []options.Option{{Value: "1", Label: "Acme"}, {Value: "2", Label: "Beta"}}, grid.Options["client"])
}

func TestRender_UsersResetsOrphanTeam(t *testing.T) {
	grid, err := newRenderer().Render(model.PageUsers, fixture(nil), noView(),
		pages.Query{Filters: filter.Values{"client": "1", "team": "20"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"team"}, grid.Reset)
	assert.Equal(t, filter.Values{"client": "1"}, grid.Filters)
	assert.Equal(t, []options.Option{{Value: "10", Label: "Ops"}}, grid.Options["team"])
	require.Len(t, grid.Rows, 1)
	assert.Equal(t, "Ann", grid.Rows[0].Data.String("full_name"))
}

func TestRender_PortfolioHeaders(t *testing.T) {
	t.Run("adds the actions column and row actions", func(t *testing.T) {
		grid, err := newRenderer().Render(model.PagePortfolioHeaders, fixture(nil), noView(),
			pages.Query{Filters: filter.Values{"user": "200"}})
		require.NoError(t, err)

		require.Len(t, grid.Rows, 1)
		last := grid.Columns[len(grid.Columns)-1]
		assert.Equal(t, model.FieldActions, last.Field)
		assert.Equal(t, "right", last.Pinned)
		require.Len(t, grid.Rows[0].Actions, 1)
		assert.Equal(t, "/api/dashboard/portfolios/p2/holdings", grid.Rows[0].Actions[0].Href)
		assert.Equal(t, []options.Option{{Value: "100", Label: "Ann"}, {Value: "200", Label: "bob"}}, grid.Options["user"])
	})

	t.Run("metadata columns format numbers", func(t *testing.T) {
		one := 1
		meta := []columns.Meta{
			{Field: "portfolio_name"},
			{Field: "aum", Datatype: columns.DatatypeNumber, Decimals: &one, Unit: columns.UnitMillions},
		}
		grid, err := newRenderer().Render(model.PagePortfolioHeaders, fixture(meta), noView(), pages.Query{})
		require.NoError(t, err)

		assert.Equal(t, []string{"portfolio_name", "aum", model.FieldActions}, fields(grid.Columns))
		require.Len(t, grid.Rows, 2)
		assert.Equal(t, "2.5", grid.Rows[0].Display["aum"])
		assert.Equal(t, "0.9", grid.Rows[1].Display["aum"])
	})
}

func TestRender_Holdings(t *testing.T) {
	r := newRenderer()

	t.Run("no selection shows no rows", func(t *testing.T) {
		grid, err := r.Render(model.PageHoldings, fixture(nil), noView(), pages.Query{})
		require.NoError(t, err)
		assert.Empty(t, grid.Rows)
		assert.Equal(t, 0, grid.Total)
		assert.Empty(t, grid.Columns)
		assert.Equal(t, []options.Option{{Value: "p1", Label: "Growth"}, {Value: "p2", Label: "Income"}}, grid.Options["portfolio"])
	})

	t.Run("selection narrows holdings", func(t *testing.T) {
		id := "p1"
		view := model.ViewState{ActivePage: model.PageHoldings, SelectedPortfolioID: &id}
		grid, err := r.Render(model.PageHoldings, fixture(nil), view, pages.Query{})
		require.NoError(t, err)
		assert.Equal(t, 2, grid.Total)
		assert.Equal(t, filter.Values{"portfolio": "p1"}, grid.Filters)
		assert.Equal(t, []string{"portfolio_id", "symbol"}, fields(grid.Columns))
	})
}

func TestRender_SharesResetsInOrder(t *testing.T) {
	grid, err := newRenderer().Render(model.PageShares, fixture(nil), noView(),
		pages.Query{Filters: filter.Values{"client": "1", "owner": "200", "sharedWith": "100", "portfolio": "p2"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"owner", "portfolio"}, grid.Reset)
	assert.Equal(t, filter.Values{"client": "1", "sharedWith": "100"}, grid.Filters)
	assert.Empty(t, grid.Rows)
	assert.Equal(t, []options.Option{{Value: "p1", Label: "Growth"}}, grid.Options["portfolio"])
}

func TestRender_Pagination(t *testing.T) {
	r := newRenderer()
	snap := fixture(nil)

	grid, err := r.Render(model.PageUsers, snap, noView(), pages.Query{PageIndex: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, grid.Total)
	require.Len(t, grid.Rows, 1)
	assert.Equal(t, "bob", grid.Rows[0].Data.String("username"))

	grid, err = r.Render(model.PageUsers, snap, noView(), pages.Query{PageIndex: 5, PageSize: 1})
	require.NoError(t, err)
	assert.Empty(t, grid.Rows)

	grid, err = r.Render(model.PageUsers, snap, noView(), pages.Query{})
	require.NoError(t, err)
	assert.Equal(t, 25, grid.PageSize)

	_, err = r.Render(model.PageUsers, snap, noView(), pages.Query{PageSize: 101})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPagination))

	_, err = r.Render(model.PageUsers, snap, noView(), pages.Query{PageIndex: -1})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPagination))

	all, err := r.RenderAll(model.PageUsers, snap, noView(), pages.Query{PageSize: 1})
	require.NoError(t, err)
	assert.Len(t, all.Rows, 2)
}

func TestFilters(t *testing.T) {
	keys, err := pages.Filters(model.PageShares)
	require.NoError(t, err)
	assert.Equal(t, []string{"client", "team", "owner", "sharedWith", "portfolio"}, keys)

	_, err = pages.Filters("nope")
	assert.Error(t, err)
}

func TestPages(t *testing.T) {
	assert.Equal(t, []model.PageID{
		model.PageClients, model.PageTeams, model.PageUsers,
		model.PagePortfolioHeaders, model.PageHoldings, model.PageShares,
	}, pages.Pages())
}

func TestExport(t *testing.T) {
	r := newRenderer()
	grid, err := r.RenderAll(model.PagePortfolioHeaders, fixture(nil), noView(), pages.Query{})
	require.NoError(t, err)

	t.Run("csv skips hidden and action columns", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, pages.Export(&buf, pages.FormatCSV, grid))

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []string{"portfolio_name", "aum"}, records[0])
		assert.Equal(t, []string{"Growth", "2500000"}, records[1])
	})

	t.Run("xlsx writes a workbook", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, pages.Export(&buf, pages.FormatXLSX, grid))
		assert.Equal(t, []byte("PK"), buf.Bytes()[:2])
	})

	t.Run("unknown format", func(t *testing.T) {
		err := pages.Export(&bytes.Buffer{}, "pdf", grid)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidExportFormat))
		_, err = pages.ContentType("pdf")
		assert.Error(t, err)
	})
}
