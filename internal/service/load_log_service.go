package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/repository"
)

// LoadLogService records and queries the load log.
type LoadLogService struct {
	repo *repository.LoadLogRepository
	log  *logrus.Entry
}

// NewLoadLogService creates a new LoadLogService with the provided repository.
func NewLoadLogService(repo *repository.LoadLogRepository, log *logrus.Entry) *LoadLogService {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &LoadLogService{
		repo: repo,
		log:  log.WithField("component", "load_log"),
	}
}

// Record stores an entry. Failures are logged and otherwise ignored so that
// bookkeeping never fails a load.
func (s *LoadLogService) Record(ctx context.Context, entry model.Log) {
	if _, err := s.repo.Insert(ctx, entry); err != nil {
		s.log.WithError(err).WithField("category", entry.Category).Warn("failed to record load log entry")
	}
}

// GetLogs returns one page of entries.
func (s *LoadLogService) GetLogs(ctx context.Context, filters *model.LogFilters) (*model.LogResponse, error) {
	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, apperrors.ErrInvalidDateRange
	}
	return s.repo.GetLogs(ctx, filters)
}

// GetLog returns one entry.
func (s *LoadLogService) GetLog(ctx context.Context, id string) (model.Log, error) {
	if id == "" {
		return model.Log{}, apperrors.ErrEmptyID
	}
	return s.repo.GetLog(ctx, id)
}

// Prune removes entries older than retention. A non-positive retention keeps
// everything.
func (s *LoadLogService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	n, err := s.repo.DeleteBefore(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("prune load log: %w", err)
	}
	if n > 0 {
		s.log.WithField("deleted", n).Info("pruned load log")
	}
	return n, nil
}
