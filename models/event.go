package models

// EventType classifies a change-feed event.
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// ChangeEvent is one push from the remote store's change feed, and also the
// shape the engine re-emits to local subscribers after applying a mutation.
// For delete events only Record.ID is meaningful.
type ChangeEvent struct {
	Type   EventType `json:"type"`
	Record Record    `json:"record"`
}
