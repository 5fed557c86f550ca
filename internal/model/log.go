package model

import "time"

// LogLevel is the severity of a load log entry.
type LogLevel string

const (
	LogLevelDebug    LogLevel = "debug"
	LogLevelInfo     LogLevel = "info"
	LogLevelWarning  LogLevel = "warning"
	LogLevelError    LogLevel = "error"
	LogLevelCritical LogLevel = "critical"
)

// ValidLogLevels is the set of accepted level filters.
var ValidLogLevels = map[LogLevel]bool{
	LogLevelDebug:    true,
	LogLevelInfo:     true,
	LogLevelWarning:  true,
	LogLevelError:    true,
	LogLevelCritical: true,
}

// LogCategory groups load log entries by the operation that produced them.
type LogCategory string

const (
	LogCategoryBulkLoad LogCategory = "bulk_load"
	LogCategoryHoldings LogCategory = "holdings"
	LogCategorySystem   LogCategory = "system"
)

// ValidLogCategories is the set of accepted category filters.
var ValidLogCategories = map[LogCategory]bool{
	LogCategoryBulkLoad: true,
	LogCategoryHoldings: true,
	LogCategorySystem:   true,
}

// Log is one entry of the load log: an upstream fetch and its outcome.
type Log struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Level      string    `json:"level"`
	Category   string    `json:"category"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	Source     string    `json:"source"`
	RequestID  string    `json:"requestId,omitempty"`
	DurationMS int64     `json:"durationMs"`
	RowCount   int       `json:"rowCount"`
}

// LogResponse is a page of load log entries.
type LogResponse struct {
	Logs       []Log  `json:"logs"`
	NextCursor string `json:"nextCursor"`
	HasMore    bool   `json:"hasMore"`
	Count      int    `json:"count"`
}

// LogFilters narrows a load log query. Zero values mean "no constraint".
type LogFilters struct {
	Levels     []string
	Categories []string
	StartDate  *time.Time
	EndDate    *time.Time
	Source     string
	Message    string
	SortDir    string
	Cursor     string
	PerPage    int
}
