// Package scheduler runs periodic dashboard jobs such as the scheduled bulk
// reload and load log pruning.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler wraps a cron runner whose jobs share one cancellable context.
type Scheduler struct {
	cron   *cron.Cron
	log    *logrus.Entry
	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a stopped scheduler. Schedules use the standard five-field
// cron syntax plus descriptors such as "@every 15m" and "@daily".
func New(log *logrus.Entry) *Scheduler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("component", "scheduler")
	cronLog := cron.PrintfLogger(log)

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers fn under spec. An empty spec disables the job.
func (s *Scheduler) Add(name, spec string, fn func(ctx context.Context)) error {
	if spec == "" {
		s.log.WithField("job", name).Debug("job disabled")
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		s.log.WithField("job", name).Debug("job started")
		fn(s.ctx)
		s.log.WithFields(logrus.Fields{
			"job":         name,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("job finished")
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	s.log.WithFields(logrus.Fields{"job": name, "schedule": spec}).Info("job scheduled")
	return nil
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs, cancels the jobs' context and waits for running
// jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
