package request

import (
	"errors"
	"net/url"
	"testing"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/apperrors"
)

func TestParsePageQuery(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		q, err := ParsePageQuery(url.Values{})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if q.PageIndex != 0 || q.PageSize != 0 || q.Search != "" {
			t.Errorf("Unexpected query %+v", q)
		}
		if q.Filters == nil || len(q.Filters) != 0 {
			t.Errorf("Expected empty filters, got %v", q.Filters)
		}
	})

	t.Run("reads paging, search and filters", func(t *testing.T) {
		q, err := ParsePageQuery(url.Values{
			"page":     {"2"},
			"pageSize": {"10"},
			"search":   {" acme "},
			"client":   {"1"},
			"team":     {""},
			"format":   {"csv"},
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if q.PageIndex != 2 || q.PageSize != 10 {
			t.Errorf("Expected page 2 size 10, got %d/%d", q.PageIndex, q.PageSize)
		}
		if q.Search != "acme" {
			t.Errorf("Expected search 'acme', got '%s'", q.Search)
		}
		if len(q.Filters) != 1 || q.Filters["client"] != "1" {
			t.Errorf("Expected only the client filter, got %v", q.Filters)
		}
	})

	t.Run("rejects non-numeric paging", func(t *testing.T) {
		for _, key := range []string{"page", "pageSize"} {
			_, err := ParsePageQuery(url.Values{key: {"x"}})
			if !errors.Is(err, apperrors.ErrInvalidPagination) {
				t.Errorf("%s: expected ErrInvalidPagination, got %v", key, err)
			}
		}
	})
}

func TestSelectPortfolioRequest_ID(t *testing.T) {
	id := " p1 "
	if got := (SelectPortfolioRequest{PortfolioID: &id}).ID(); got != "p1" {
		t.Errorf("Expected 'p1', got '%s'", got)
	}
	if got := (SelectPortfolioRequest{}).ID(); got != "" {
		t.Errorf("Expected empty ID, got '%s'", got)
	}
}
