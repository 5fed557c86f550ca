package pages

import (
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/filter"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/options"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/store"
)

// Filter keys accepted as query parameters.
const (
	FilterClient     = "client"
	FilterTeam       = "team"
	FilterUser       = "user"
	FilterOwner      = "owner"
	FilterSharedWith = "sharedWith"
	FilterPortfolio  = "portfolio"
)

type optionFunc func(b *options.Builder, snap store.Snapshot, v filter.Values) []options.Option

// filterDef is one dropdown of a page: where its choices come from and which
// field of the grid rows it narrows.
type filterDef struct {
	key     string
	field   string
	options optionFunc
}

type definition struct {
	page       model.PageID
	collection string
	filters    []filterDef
	chain      filter.Chain
	// columnsFromAll infers columns from every row instead of the filtered ones.
	columnsFromAll bool
	actions        bool
	// selection pages show only the rows of the selected portfolio.
	selection bool
}

func (d definition) accepts(key string) bool {
	for _, f := range d.filters {
		if f.key == key {
			return true
		}
	}
	return false
}

func (d definition) bindings() []filter.Binding {
	out := make([]filter.Binding, 0, len(d.filters))
	for _, f := range d.filters {
		out = append(out, filter.Binding{Key: f.key, Field: f.field})
	}
	return out
}

func clientOptions(b *options.Builder, snap store.Snapshot, _ filter.Values) []options.Option {
	return b.Clients(snap.Rows(store.CollectionClients))
}

func teamOptions(b *options.Builder, snap store.Snapshot, v filter.Values) []options.Option {
	return b.Teams(snap.Rows(store.CollectionTeams), v.Get(FilterClient))
}

func userOptions(b *options.Builder, snap store.Snapshot, v filter.Values) []options.Option {
	return b.Users(snap.Rows(store.CollectionUsers), v.Get(FilterClient), v.Get(FilterTeam))
}

func ownedPortfolioOptions(b *options.Builder, snap store.Snapshot, v filter.Values) []options.Option {
	return b.Portfolios(snap.Rows(store.CollectionPortfolioHeaders), v.Get(FilterClient), v.Get(FilterTeam), v.Get(FilterOwner))
}

func allPortfolioOptions(b *options.Builder, snap store.Snapshot, _ filter.Values) []options.Option {
	return b.Portfolios(snap.Rows(store.CollectionPortfolioHeaders), "", "", "")
}

var (
	clientLink = filter.Link{Key: FilterClient}

	teamLink = filter.Link{
		Key:        FilterTeam,
		Collection: store.CollectionTeams,
		IDField:    model.FieldTeamID,
		Ancestors:  []filter.Constraint{{Key: FilterClient, Field: model.FieldClientID}},
	}

	userAncestors = []filter.Constraint{
		{Key: FilterClient, Field: model.FieldClientID},
		{Key: FilterTeam, Field: model.FieldTeamID},
	}
)

func userLink(key string) filter.Link {
	return filter.Link{
		Key:        key,
		Collection: store.CollectionUsers,
		IDField:    model.FieldUserID,
		Ancestors:  userAncestors,
	}
}

var definitions = map[model.PageID]definition{
	model.PageClients: {
		page:           model.PageClients,
		collection:     store.CollectionClients,
		columnsFromAll: true,
	},
	model.PageTeams: {
		page:       model.PageTeams,
		collection: store.CollectionTeams,
		filters: []filterDef{
			{key: FilterClient, field: model.FieldClientID, options: clientOptions},
		},
		chain:          filter.MustChain(clientLink),
		columnsFromAll: true,
	},
	model.PageUsers: {
		page:       model.PageUsers,
		collection: store.CollectionUsers,
		filters: []filterDef{
			{key: FilterClient, field: model.FieldClientID, options: clientOptions},
			{key: FilterTeam, field: model.FieldTeamID, options: teamOptions},
		},
		chain:          filter.MustChain(clientLink, teamLink),
		columnsFromAll: true,
	},
	model.PagePortfolioHeaders: {
		page:       model.PagePortfolioHeaders,
		collection: store.CollectionPortfolioHeaders,
		filters: []filterDef{
			{key: FilterClient, field: model.FieldClientID, options: clientOptions},
			{key: FilterTeam, field: model.FieldTeamID, options: teamOptions},
			{key: FilterUser, field: model.FieldUserID, options: userOptions},
		},
		chain:   filter.MustChain(clientLink, teamLink, userLink(FilterUser)),
		actions: true,
	},
	model.PageHoldings: {
		page:       model.PageHoldings,
		collection: store.CollectionHoldings,
		selection:  true,
	},
	model.PageShares: {
		page:       model.PageShares,
		collection: store.CollectionShares,
		filters: []filterDef{
			{key: FilterClient, field: model.FieldClientID, options: clientOptions},
			{key: FilterTeam, field: model.FieldTeamID, options: teamOptions},
			{key: FilterOwner, field: model.FieldOwnerUserID, options: userOptions},
			{key: FilterSharedWith, field: model.FieldSharedWithUserID, options: userOptions},
			{key: FilterPortfolio, field: model.FieldPortfolioID, options: ownedPortfolioOptions},
		},
		chain: filter.MustChain(
			clientLink,
			teamLink,
			userLink(FilterOwner),
			userLink(FilterSharedWith),
			filter.Link{
				Key:        FilterPortfolio,
				Collection: store.CollectionPortfolioHeaders,
				IDField:    model.FieldPortfolioID,
				Ancestors: []filter.Constraint{
					{Key: FilterClient, Field: model.FieldClientID},
					{Key: FilterTeam, Field: model.FieldTeamID},
					{Key: FilterOwner, Field: model.FieldUserID},
				},
			},
		),
	},
}
