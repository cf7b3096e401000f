package workers

import (
	"context"
	"time"

	"github.com/jdbravo/vencsync/internal/logger"
	"github.com/jdbravo/vencsync/internal/service"
)

// outboxWatcher periodically reports the outbox backlog: how many mutations
// are still queued and how many of them were terminally rejected. Rejected
// entries stay queued until an operator resolves them, so surfacing them in
// the log is the agent's only alerting channel.
type outboxWatcher struct {
	ctx      context.Context
	engine   service.Engine
	interval time.Duration
	logger   *logger.Logger
}

func newOutboxWatcher(ctx context.Context, engine service.Engine, interval time.Duration, log *logger.Logger) *outboxWatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &outboxWatcher{ctx: ctx, engine: engine, interval: interval, logger: log}
}

func (w *outboxWatcher) Run() {
	go func() {
		t := time.NewTicker(w.interval)
		defer t.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-t.C:
				w.report()
			}
		}
	}()
}

func (w *outboxWatcher) report() {
	entries, err := w.engine.Pending(w.ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to inspect outbox backlog")
		return
	}

	if len(entries) == 0 {
		return
	}

	rejected := 0
	for _, entry := range entries {
		if entry.LastError != "" {
			rejected++
		}
	}

	event := w.logger.Info()
	if rejected > 0 {
		event = w.logger.Warn()
	}
	event.
		Int("queued", len(entries)).
		Int("rejected", rejected).
		Bool("online", w.engine.Online()).
		Msg("outbox backlog")
}
