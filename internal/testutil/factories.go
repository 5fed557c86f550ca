package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/repository"
)

// LogBuilder provides a fluent interface for creating load log entries.
//
// Example usage:
//
//	// Simple creation with defaults
//	entry := testutil.NewLog().Build(t, db)
//
//	// Customized entry
//	entry := testutil.NewLog().
//	    WithLevel(model.LogLevelError).
//	    WithCategory(model.LogCategoryHoldings).
//	    At(time.Now().Add(-time.Hour)).
//	    Build(t, db)
type LogBuilder struct {
	entry model.Log
}

// NewLog creates a LogBuilder for an info-level bulk load entry.
func NewLog() *LogBuilder {
	return &LogBuilder{entry: model.Log{
		ID:         MakeID(),
		Timestamp:  time.Now().UTC(),
		Level:      string(model.LogLevelInfo),
		Category:   string(model.LogCategoryBulkLoad),
		Message:    "bulk load finished",
		Source:     "manual",
		DurationMS: 12,
		RowCount:   10,
	}}
}

// WithID sets a custom ID.
func (b *LogBuilder) WithID(id string) *LogBuilder {
	b.entry.ID = id
	return b
}

// WithLevel sets the level.
func (b *LogBuilder) WithLevel(level model.LogLevel) *LogBuilder {
	b.entry.Level = string(level)
	return b
}

// WithCategory sets the category.
func (b *LogBuilder) WithCategory(category model.LogCategory) *LogBuilder {
	b.entry.Category = string(category)
	return b
}

// WithMessage sets the message.
func (b *LogBuilder) WithMessage(message string) *LogBuilder {
	b.entry.Message = message
	return b
}

// WithSource sets the source.
func (b *LogBuilder) WithSource(source string) *LogBuilder {
	b.entry.Source = source
	return b
}

// WithDetails sets the details.
func (b *LogBuilder) WithDetails(details string) *LogBuilder {
	b.entry.Details = details
	return b
}

// At sets the timestamp.
func (b *LogBuilder) At(ts time.Time) *LogBuilder {
	b.entry.Timestamp = ts.UTC()
	return b
}

// Build stores the entry and returns it.
func (b *LogBuilder) Build(t *testing.T, db *sql.DB) model.Log {
	t.Helper()

	entry, err := repository.NewLoadLogRepository(db).Insert(context.Background(), b.entry)
	if err != nil {
		t.Fatalf("Failed to create test log entry: %v", err)
	}
	return entry
}

// Convenience functions

// CreateLogs creates count entries one second apart, oldest first.
//
// Example usage:
//
//	entries := testutil.CreateLogs(t, db, 5)
func CreateLogs(t *testing.T, db *sql.DB, count int) []model.Log {
	t.Helper()

	base := time.Now().UTC().Add(-time.Duration(count) * time.Second)
	out := make([]model.Log, count)
	for i := range count {
		out[i] = NewLog().At(base.Add(time.Duration(i) * time.Second)).Build(t, db)
	}
	return out
}
