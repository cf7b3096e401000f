package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrRecordNotFound is returned when a query or update targets a cached
	// record (identified by scope and id) that does not exist locally.
	ErrRecordNotFound = errors.New("record was not found in local cache")

	// ErrEntryNotFound is returned when an outbox operation targets an entry
	// id that does not exist in the queue.
	ErrEntryNotFound = errors.New("outbox entry was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrEncodingPayload is returned when a record's field map cannot be
	// serialised for storage.
	ErrEncodingPayload = errors.New("failed to encode payload")

	// ErrDecodingPayload is returned when a stored field map cannot be
	// deserialised back into a record.
	ErrDecodingPayload = errors.New("failed to decode payload")
)
