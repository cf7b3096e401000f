package store

import (
	"context"

	"github.com/jdbravo/vencsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// CacheRepository is the durable local snapshot of the record set for each
// scope. All mutating operations persist synchronously so a process restart
// resumes with the last known state.
type CacheRepository interface {
	// Load returns every cached record for the scope.
	Load(ctx context.Context, scope models.Scope) ([]models.Record, error)

	// Replace atomically installs a fully reconciled record set for the
	// scope. It must only ever be called with the output of a merge, never
	// with a partial set; on failure the previous snapshot stays intact.
	Replace(ctx context.Context, scope models.Scope, records []models.Record) error

	// Upsert inserts or overwrites a single record.
	Upsert(ctx context.Context, scope models.Scope, record models.Record) error

	// Remove deletes the record with the given id. Removing an absent id is
	// not an error.
	Remove(ctx context.Context, scope models.Scope, id string) error

	// ReplaceID rewrites the id of a cached record in place, used when a
	// temporary id is reassigned to the durable id returned by the remote
	// store.
	ReplaceID(ctx context.Context, scope models.Scope, oldID, newID string) error
}

// OutboxRepository is the durable FIFO queue of pending remote mutations.
type OutboxRepository interface {
	// Enqueue appends an entry and returns it with EntryID populated.
	Enqueue(ctx context.Context, entry models.OutboxEntry) (models.OutboxEntry, error)

	// All returns the scope's entries ordered by enqueue time (oldest
	// first), with entry id as tiebreaker.
	All(ctx context.Context, scope models.Scope) ([]models.OutboxEntry, error)

	// FindByRecordID returns the pending entry for the record id, or
	// ErrEntryNotFound. Used by the coalescing policy.
	FindByRecordID(ctx context.Context, scope models.Scope, recordID string) (models.OutboxEntry, error)

	// Update overwrites the stored entry identified by entry.EntryID
	// (payload coalescing and error markers).
	Update(ctx context.Context, entry models.OutboxEntry) error

	// Delete removes a replayed entry from the queue.
	Delete(ctx context.Context, entryID int64) error

	// ReplaceTempID rewrites every pending entry that references tempID so
	// it points at the durable id instead.
	ReplaceTempID(ctx context.Context, scope models.Scope, tempID, durableID string) error
}
