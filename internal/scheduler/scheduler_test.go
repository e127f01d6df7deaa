package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (c *countingRefresher) Refresh(ctx context.Context) error {
	c.calls.Add(1)
	return nil
}

func TestRunRefreshesImmediately(t *testing.T) {
	refresher := &countingRefresher{}
	s := New(refresher, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for refresher.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if got := refresher.calls.Load(); got != 1 {
		t.Errorf("expected exactly one refresh before the first tick, got %d", got)
	}
}

func TestRunTicksOnInterval(t *testing.T) {
	refresher := &countingRefresher{}
	s := New(refresher, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	if got := refresher.calls.Load(); got < 3 {
		t.Errorf("expected at least 3 refreshes, got %d", got)
	}
}
