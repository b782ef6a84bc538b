// Package scheduler runs periodic housekeeping jobs.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/cesargomez89/tajikquran/internal/logger"
)

// CachePurger deletes upstream cache rows that expired before now.
type CachePurger interface {
	PurgeExpiredCache(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	purger    CachePurger
	interval  time.Duration
	logger    *logger.Logger
}

func New(purger CachePurger, interval time.Duration, log *logger.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		purger:    purger,
		interval:  interval,
		logger:    log.WithComponent("scheduler"),
	}
}

// Start schedules the cache purge and runs it in the background.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.interval).Do(s.PurgeCache); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.logger.Info("Scheduler started", "cache_purge_interval", s.interval.String())
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info("Scheduler stopped")
}

// PurgeCache removes expired upstream responses.
func (s *Scheduler) PurgeCache() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.purger.PurgeExpiredCache(ctx, time.Now())
	if err != nil {
		s.logger.Error("Failed to purge expired cache", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("Purged expired cache entries", "count", n)
	}
}
