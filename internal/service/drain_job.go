package service

import (
	"context"
	"sync"
	"time"

	"github.com/jdbravo/vencsync/internal/logger"
)

type drainJob struct {
	drainer Drainer
	logger  *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDrainJob creates a drainJob that calls drainer.Drain on a ticker. The
// job is idle until Start is called.
func NewDrainJob(drainer Drainer, log *logger.Logger) DrainJob {
	return &drainJob{drainer: drainer, logger: log}
}

// Start implements DrainJob. It stops any previously running job, then
// launches a background goroutine that drains the outbox every interval. If
// interval is zero or negative it defaults to 30 seconds. The goroutine
// exits when ctx is cancelled or Stop is called.
func (j *drainJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if err := j.drainer.Drain(jobCtx); err != nil {
					j.logger.Warn().Err(err).Msg("periodic drain reported rejected entries")
				}
			}
		}
	}()
}

// Stop implements DrainJob. It cancels the background goroutine's context
// and blocks until the goroutine has fully exited. Safe to call when the job
// is not running (no-op in that case).
func (j *drainJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
