package model

// PageID identifies one of the dashboard pages.
type PageID string

const (
	PageClients          PageID = "clients"
	PageTeams            PageID = "teams"
	PageUsers            PageID = "users"
	PagePortfolioHeaders PageID = "portfolioHeaders"
	PageHoldings         PageID = "portfolios"
	PageShares           PageID = "shares"
)

// NavItem is one entry of the dashboard navigation.
type NavItem struct {
	Page  PageID `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Navigation lists the pages in display order.
var Navigation = []NavItem{
	{Page: PageClients, Label: "Clients", Icon: "user"},
	{Page: PageTeams, Label: "Teams", Icon: "users-group"},
	{Page: PageUsers, Label: "Users", Icon: "user-cog"},
	{Page: PagePortfolioHeaders, Label: "Portfolio Headers", Icon: "database"},
	{Page: PageHoldings, Label: "Holdings", Icon: "list-details"},
	{Page: PageShares, Label: "Sharing", Icon: "share"},
}

// ValidPage reports whether id names a known page.
func ValidPage(id PageID) bool {
	for _, item := range Navigation {
		if item.Page == id {
			return true
		}
	}
	return false
}

// ViewState is the current page and portfolio selection of the dashboard.
type ViewState struct {
	ActivePage          PageID  `json:"activePage"`
	SelectedPortfolioID *string `json:"selectedPortfolioId"`
}
