package request

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
)

// Load log paging limits.
const (
	DefaultLogsPerPage = 50
	MaxLogsPerPage     = 100
)

// ParseLogFilters extracts and validates load log filters from a query string.
//
// Accepted parameters, all optional:
//   - level, category: comma-separated lists of known values
//   - startDate, endDate: YYYY-MM-DD or RFC3339
//   - source, message: substring matches
//   - sortDir: "asc" or "desc" (defaults to "desc")
//   - cursor: opaque value from a previous page's nextCursor
//   - perPage: 1..100 (defaults to 50)
//
//nolint:gocyclo // One branch per parameter
func ParseLogFilters(q url.Values) (*model.LogFilters, error) {
	filters := &model.LogFilters{
		Cursor:  strings.TrimSpace(q.Get("cursor")),
		Source:  strings.TrimSpace(q.Get("source")),
		Message: strings.TrimSpace(q.Get("message")),
		SortDir: "desc",
		PerPage: DefaultLogsPerPage,
	}

	for _, level := range splitList(q.Get("level")) {
		if !model.ValidLogLevels[model.LogLevel(level)] {
			return nil, fmt.Errorf("invalid log level: %s", level)
		}
		filters.Levels = append(filters.Levels, level)
	}

	for _, category := range splitList(q.Get("category")) {
		if !model.ValidLogCategories[model.LogCategory(category)] {
			return nil, fmt.Errorf("invalid category: %s", category)
		}
		filters.Categories = append(filters.Categories, category)
	}

	if v := q.Get("startDate"); v != "" {
		start, err := parseFilterTime(v, false)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %w", err)
		}
		filters.StartDate = &start
	}

	if v := q.Get("endDate"); v != "" {
		end, err := parseFilterTime(v, true)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		filters.EndDate = &end
	}

	if v := q.Get("sortDir"); v != "" {
		sortDir := strings.ToLower(v)
		if sortDir != "asc" && sortDir != "desc" {
			return nil, fmt.Errorf("invalid sortDir: must be 'asc' or 'desc'")
		}
		filters.SortDir = sortDir
	}

	if v := q.Get("perPage"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid perPage: must be a number")
		}
		if perPage < 1 || perPage > MaxLogsPerPage {
			return nil, fmt.Errorf("invalid perPage: must be between 1 and %d", MaxLogsPerPage)
		}
		filters.PerPage = perPage
	}

	return filters, nil
}

func splitList(param string) []string {
	if param == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(param, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseFilterTime accepts a plain date or an RFC3339 timestamp. A plain end
// date covers the whole day.
func parseFilterTime(str string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, str); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, str); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date or datetime", str)
}
