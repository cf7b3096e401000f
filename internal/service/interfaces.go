package service

import (
	"context"
	"time"

	"github.com/jdbravo/vencsync/models"
)

// Engine is the per-scope synchronization engine owning the local cache,
// the draft overlay, and the outbox queue. One Engine instance is
// constructed when a tenant+branch scope becomes active and torn down with
// Close when the scope changes; no ambient singletons exist.
type Engine interface {
	// Start performs the initial reconciliation against the remote store,
	// subscribes to the change feed, and launches the periodic drain job.
	// A failed initial reconciliation is not fatal: the engine starts
	// offline on the cached snapshot and recovers on the next drain.
	Start(ctx context.Context, drainInterval time.Duration) error

	// Close unsubscribes from the change feed and stops the drain job.
	Close()

	// Records returns the current local view of the record set, sorted by
	// id.
	Records(ctx context.Context) ([]models.Record, error)

	// Refresh reloads the remote record set, merges it with the local
	// cache (last-writer-wins), and installs the reconciled result. When
	// the remote store is unreachable it returns the cached snapshot and
	// flips the engine offline.
	Refresh(ctx context.Context) ([]models.Record, error)

	// Insert creates a record optimistically under a temporary id and
	// attempts the remote write. The returned record carries the durable
	// id on immediate success, or the temporary id when the mutation was
	// queued. A terminal rejection keeps the entry queued with an error
	// marker and is returned to the caller.
	Insert(ctx context.Context, fields models.FieldMap) (models.Record, error)

	// Update overwrites business fields of a record optimistically and
	// attempts (or queues) the remote write. A pending outbox entry for
	// the same id is coalesced: it keeps its operation and receives the
	// newest payload.
	Update(ctx context.Context, id string, fields models.FieldMap) error

	// Delete removes a record optimistically and attempts (or queues) the
	// remote delete. On a terminal remote rejection the pre-image is
	// restored so the row does not vanish while the store still holds it.
	Delete(ctx context.Context, id string) error

	// SetDraft stages uncommitted per-field edits for a record. Drafts
	// are purely local and never synchronized.
	SetDraft(id string, fields models.FieldMap)

	// DraftField resolves one field draft-over-base: the draft value wins
	// over fallback when present.
	DraftField(id, field string, fallback any) any

	// ClearDraft discards the staged edits for a record.
	ClearDraft(id string)

	// CommitDraft turns the staged edits into a regular Update and clears
	// the draft. Committing a record without a draft is a no-op.
	CommitDraft(ctx context.Context, id string) error

	// Pending returns the scope's queued outbox entries in replay order.
	Pending(ctx context.Context) ([]models.OutboxEntry, error)

	// Drain replays the outbox against the remote store. See [Drainer].
	Drain(ctx context.Context) error

	// SetOnline feeds a connectivity signal into the engine. The
	// offline-to-online transition triggers an immediate drain.
	SetOnline(online bool)

	// Online reports the engine's current connectivity belief.
	Online() bool

	// SubscribeLocal registers an observer for local record changes
	// (optimistic writes, applied feed events, id reassignments). The
	// returned function removes the observer.
	SubscribeLocal(fn func(models.ChangeEvent)) func()
}

// Drainer replays queued outbox entries against the remote store whenever
// the engine believes it is online. At most one drain pass runs at a time;
// a trigger arriving mid-pass is coalesced into one follow-up pass.
type Drainer interface {
	// Drain runs (or schedules) a drain pass. It returns the terminal
	// rejections encountered during the pass, joined; retryable failures
	// are not errors, the affected entries simply stay queued.
	Drain(ctx context.Context) error

	// SetOnline records a connectivity transition and reports whether the
	// call promoted the drainer from offline to online.
	SetOnline(online bool) (promoted bool)

	// Online reports the current connectivity state.
	Online() bool
}

// DrainJob is a background worker that drains the outbox periodically while
// the scope is active.
type DrainJob interface {
	// Start launches the background drain goroutine. It drains every
	// interval, defaulting to 30 seconds if interval is zero or negative.
	// Any previously running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it
	// has fully terminated.
	Stop()
}

// IDGenerator produces temporary record identifiers for optimistic inserts.
type IDGenerator interface {
	// NewTempID returns a fresh identifier carrying models.TempIDPrefix.
	NewTempID() string
}
