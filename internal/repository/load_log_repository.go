package repository

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
)

// timestampLayout is fixed-width so that stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// LoadLogRepository provides data access methods for the load_log table.
// Every upstream bulk load and holdings fetch leaves one entry.
type LoadLogRepository struct {
	db *sql.DB
}

// NewLoadLogRepository creates a new LoadLogRepository with the provided database connection.
func NewLoadLogRepository(db *sql.DB) *LoadLogRepository {
	return &LoadLogRepository{db: db}
}

// Insert stores an entry. A missing ID or timestamp is filled in.
func (r *LoadLogRepository) Insert(ctx context.Context, entry model.Log) (model.Log, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Timestamp = entry.Timestamp.UTC()

	query := `
		INSERT INTO load_log (id, timestamp, level, category, message, details, source, request_id, duration_ms, row_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Timestamp.Format(timestampLayout),
		entry.Level,
		entry.Category,
		entry.Message,
		nullString(entry.Details),
		entry.Source,
		nullString(entry.RequestID),
		entry.DurationMS,
		entry.RowCount,
	)
	if err != nil {
		return model.Log{}, fmt.Errorf("failed to insert load log entry: %w", err)
	}
	return entry, nil
}

// GetLogs returns one page of entries matching the filters, using keyset
// pagination on (timestamp, id).
//
//nolint:gocyclo // One branch per optional filter
func (r *LoadLogRepository) GetLogs(ctx context.Context, filters *model.LogFilters) (*model.LogResponse, error) {
	query := `
		SELECT id, timestamp, level, category, message, details, source, request_id, duration_ms, row_count
		FROM load_log
		WHERE 1=1
	`
	var args []any

	if len(filters.Levels) > 0 {
		query += " AND level IN (" + placeholders(len(filters.Levels)) + ")"
		for _, l := range filters.Levels {
			args = append(args, l)
		}
	}
	if len(filters.Categories) > 0 {
		query += " AND category IN (" + placeholders(len(filters.Categories)) + ")"
		for _, c := range filters.Categories {
			args = append(args, c)
		}
	}
	if filters.StartDate != nil {
		query += " AND timestamp >= ?"
		args = append(args, filters.StartDate.UTC().Format(timestampLayout))
	}
	if filters.EndDate != nil {
		query += " AND timestamp <= ?"
		args = append(args, filters.EndDate.UTC().Format(timestampLayout))
	}
	if filters.Source != "" {
		query += " AND source LIKE ?"
		args = append(args, "%"+filters.Source+"%")
	}
	if filters.Message != "" {
		query += " AND message LIKE ?"
		args = append(args, "%"+filters.Message+"%")
	}

	desc := filters.SortDir != "asc"
	if filters.Cursor != "" {
		ts, id, err := DecodeCursor(filters.Cursor)
		if err != nil {
			return nil, err
		}
		op := ">"
		if desc {
			op = "<"
		}
		query += fmt.Sprintf(" AND (timestamp %s ? OR (timestamp = ? AND id %s ?))", op, op)
		args = append(args, ts, ts, id)
	}

	if desc {
		query += " ORDER BY timestamp DESC, id DESC"
	} else {
		query += " ORDER BY timestamp ASC, id ASC"
	}

	perPage := filters.PerPage
	if perPage < 1 {
		perPage = 50
	}
	query += " LIMIT ?"
	args = append(args, perPage+1)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query load_log table: %w", err)
	}
	defer rows.Close()

	logs := []model.Log{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan load_log table results: %w", err)
		}
		logs = append(logs, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating load_log table: %w", err)
	}

	resp := &model.LogResponse{}
	if len(logs) > perPage {
		logs = logs[:perPage]
		last := logs[len(logs)-1]
		resp.HasMore = true
		resp.NextCursor = EncodeCursor(last.Timestamp, last.ID)
	}
	resp.Logs = logs
	resp.Count = len(logs)
	return resp, nil
}

// GetLog returns one entry by ID.
func (r *LoadLogRepository) GetLog(ctx context.Context, id string) (model.Log, error) {
	query := `
		SELECT id, timestamp, level, category, message, details, source, request_id, duration_ms, row_count
		FROM load_log
		WHERE id = ?
	`
	l, err := scanLog(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return model.Log{}, apperrors.ErrLogNotFound
	}
	if err != nil {
		return model.Log{}, fmt.Errorf("failed to query load_log: %w", err)
	}
	return l, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLog(s scanner) (model.Log, error) {
	var (
		l         model.Log
		timestamp string
		details   sql.NullString
		requestID sql.NullString
	)
	err := s.Scan(
		&l.ID,
		&timestamp,
		&l.Level,
		&l.Category,
		&l.Message,
		&details,
		&l.Source,
		&requestID,
		&l.DurationMS,
		&l.RowCount,
	)
	if err != nil {
		return model.Log{}, err
	}
	l.Timestamp, err = time.Parse(timestampLayout, timestamp)
	if err != nil {
		return model.Log{}, fmt.Errorf("failed to parse load_log timestamp: %w", err)
	}
	l.Details = details.String
	l.RequestID = requestID.String
	return l, nil
}

// DeleteBefore removes entries older than cutoff and returns how many were removed.
func (r *LoadLogRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM load_log WHERE timestamp < ?`, cutoff.UTC().Format(timestampLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to prune load_log: %w", err)
	}
	return res.RowsAffected()
}

// EncodeCursor builds an opaque pagination cursor.
func EncodeCursor(ts time.Time, id string) string {
	raw := ts.UTC().Format(timestampLayout) + "|" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor splits a cursor into its stored timestamp and ID.
func DecodeCursor(cursor string) (string, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", apperrors.ErrInvalidCursor, err)
	}
	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return "", "", apperrors.ErrInvalidCursor
	}
	if _, err := time.Parse(timestampLayout, ts); err != nil {
		return "", "", fmt.Errorf("%w: %w", apperrors.ErrInvalidCursor, err)
	}
	return ts, id, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
