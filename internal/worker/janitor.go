package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sweeper removes staging scopes older than a cutoff.
type Sweeper interface {
	Sweep(olderThan time.Duration) (int, error)
}

// Purger drops expired entries and reports how many were dropped.
type Purger interface {
	Purge() int
}

// Janitor periodically removes staging scopes abandoned by interrupted
// submissions and purges expired session entries.
type Janitor struct {
	sweeper  Sweeper
	purger   Purger
	interval time.Duration
	ttl      time.Duration
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewJanitor constructs a janitor. purger may be nil.
func NewJanitor(sweeper Sweeper, purger Purger, interval, ttl time.Duration, logger *slog.Logger) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Janitor{
		sweeper:  sweeper,
		purger:   purger,
		interval: interval,
		ttl:      ttl,
		logger:   logger,
	}
}

// Start launches the background loop. Calling Start twice is a no-op.
func (j *Janitor) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	j.cancel = cancel

	j.wg.Add(1)
	go j.loop(runCtx)
}

// Stop terminates the loop and waits for it to exit.
func (j *Janitor) Stop() {
	j.mu.Lock()
	if j.cancel != nil {
		j.cancel()
		j.cancel = nil
	}
	j.mu.Unlock()

	j.wg.Wait()
}

func (j *Janitor) loop(ctx context.Context) {
	defer j.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.RunOnce()
		}
	}
}

// RunOnce performs a single sweep.
func (j *Janitor) RunOnce() {
	removed, err := j.sweeper.Sweep(j.ttl)
	if err != nil {
		j.logger.Error("staging sweep failed", slog.String("error", err.Error()))
	}
	if removed > 0 {
		j.logger.Info("removed stale staging scopes", slog.Int("count", removed))
	}
	if j.purger == nil {
		return
	}
	if purged := j.purger.Purge(); purged > 0 {
		j.logger.Info("purged expired sessions", slog.Int("count", purged))
	}
}
