package request

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/filter"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/pages"
)

// SetViewRequest switches the active page.
type SetViewRequest struct {
	Page model.PageID `json:"page"`
}

// SelectPortfolioRequest sets or clears the selected portfolio. A null or
// empty portfolioId clears the selection.
type SelectPortfolioRequest struct {
	PortfolioID *string `json:"portfolioId"`
}

// ID returns the requested portfolio ID, or "" when the selection is cleared.
func (r SelectPortfolioRequest) ID() string {
	if r.PortfolioID == nil {
		return ""
	}
	return strings.TrimSpace(*r.PortfolioID)
}

// Query parameters with a fixed meaning on page endpoints. Every other
// parameter is taken as a filter value.
var reservedPageParams = map[string]bool{
	"search":   true,
	"page":     true,
	"pageSize": true,
	"format":   true,
}

// ParsePageQuery reads a page query from a query string. The page index is
// zero-based. Empty filter values are dropped.
func ParsePageQuery(q url.Values) (pages.Query, error) {
	query := pages.Query{
		Filters: filter.Values{},
		Search:  strings.TrimSpace(q.Get("search")),
	}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return pages.Query{}, fmt.Errorf("%w: page must be a number", apperrors.ErrInvalidPagination)
		}
		query.PageIndex = n
	}
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return pages.Query{}, fmt.Errorf("%w: pageSize must be a number", apperrors.ErrInvalidPagination)
		}
		query.PageSize = n
	}

	for key, values := range q {
		if reservedPageParams[key] || len(values) == 0 {
			continue
		}
		if v := strings.TrimSpace(values[0]); v != "" {
			query.Filters[key] = v
		}
	}
	return query, nil
}
