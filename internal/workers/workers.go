package workers

import (
	"context"
	"time"

	"github.com/jdbravo/vencsync/internal/logger"
	"github.com/jdbravo/vencsync/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles the agent's background workers for one active scope:
// currently a single outbox watcher that keeps the operator informed about
// queue depth and rejected entries.
func NewWorkers(ctx context.Context, engine service.Engine, log *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			newOutboxWatcher(ctx, engine, time.Minute, log),
		},
	}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
