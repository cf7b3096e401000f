package adapter

import (
	"context"

	"github.com/jdbravo/vencsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// RemoteStore is the engine's view of the hosted relational backend. Errors
// returned by the mutating methods are classifiable with [IsRetryable],
// [IsTerminal], and [IsNotFound].
type RemoteStore interface {
	// List returns every record the remote store holds for the scope.
	List(ctx context.Context, scope models.Scope) ([]models.Record, error)

	// Insert creates a record and returns it with the durable id assigned
	// by the store. The submitted record's temporary id is ignored
	// server-side.
	Insert(ctx context.Context, scope models.Scope, record models.Record) (models.Record, error)

	// Update overwrites the business fields and timestamp of an existing
	// record.
	Update(ctx context.Context, scope models.Scope, id string, fields models.FieldMap, updatedAt int64) error

	// Delete removes a record.
	Delete(ctx context.Context, scope models.Scope, id string) error
}

// UnsubscribeFunc tears down a change-feed subscription. Safe to call more
// than once.
type UnsubscribeFunc func()

// ChangeFeed is the push channel of the remote store. Events are delivered
// in best-effort order; the engine's timestamp-based merge tolerates
// duplicates and reordering for insert/update.
type ChangeFeed interface {
	// Subscribe starts delivering the scope's change events to handler
	// from a background goroutine until the returned UnsubscribeFunc is
	// called or ctx is cancelled. A dropped connection is re-established
	// automatically.
	Subscribe(ctx context.Context, scope models.Scope, handler func(models.ChangeEvent)) (UnsubscribeFunc, error)
}
