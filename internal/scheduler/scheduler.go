package scheduler

import (
	"context"
	"log/slog"
	"time"
)

const defaultInterval = 15 * time.Minute

// Refresher rebuilds the news snapshot.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler refreshes on a fixed interval, starting with an immediate run.
type Scheduler struct {
	refresher Refresher
	interval  time.Duration
}

func New(refresher Refresher, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Scheduler{refresher: refresher, interval: interval}
}

// Run blocks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh scheduler stopped")
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Scheduler) refresh(ctx context.Context) {
	start := time.Now()
	if err := s.refresher.Refresh(ctx); err != nil {
		slog.Error("scheduled refresh failed", "error", err)
		return
	}
	slog.Info("scheduled refresh done", "took", time.Since(start).Round(time.Millisecond))
}
