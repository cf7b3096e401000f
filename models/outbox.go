package models

// Operation is the kind of pending remote mutation carried by an outbox
// entry.
type Operation string

const (
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// OutboxEntry is a durable unit of not-yet-confirmed remote work. Entries
// are replayed FIFO by EnqueuedAt within their scope, so an insert for a
// temporary id always precedes an update referencing the same id.
type OutboxEntry struct {
	// EntryID is the local storage row id. Zero until persisted.
	EntryID int64 `json:"entry_id"`

	Scope     Scope     `json:"scope"`
	Operation Operation `json:"operation"`

	// RecordID identifies the affected record. For insert/update it
	// duplicates Payload.ID; for delete it is the only payload.
	RecordID string `json:"record_id"`

	// Payload is the full record snapshot for insert/update. Unused for
	// delete.
	Payload Record `json:"payload"`

	// EnqueuedAt orders replay, milliseconds since epoch.
	EnqueuedAt int64 `json:"enqueued_at"`

	// LastError marks an entry that was terminally rejected by the remote
	// store. The entry stays queued so the edit is never silently lost;
	// the application surfaces the marker to the user.
	LastError string `json:"last_error,omitempty"`
}
