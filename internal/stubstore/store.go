// Package stubstore is an in-memory stand-in for the hosted relational
// store, used for local development and integration testing of the sync
// agent. It keeps one record set per tenant+branch scope and fans every
// accepted mutation out to the scope's change-feed subscribers.
package stubstore

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jdbravo/vencsync/models"
)

const subscriberBuffer = 16

type scopeState struct {
	records map[string]models.Record
	subs    map[int]chan models.ChangeEvent
	nextSub int
}

// Store holds the in-memory record sets. The zero value is not usable; use
// NewStore.
type Store struct {
	mu     sync.Mutex
	scopes map[string]*scopeState
}

func NewStore() *Store {
	return &Store{scopes: make(map[string]*scopeState)}
}

func (s *Store) scope(scope models.Scope) *scopeState {
	state, ok := s.scopes[scope.Key()]
	if !ok {
		state = &scopeState{
			records: make(map[string]models.Record),
			subs:    make(map[int]chan models.ChangeEvent),
		}
		s.scopes[scope.Key()] = state
	}
	return state
}

// List returns the scope's records in unspecified order.
func (s *Store) List(scope models.Scope) []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.scope(scope)
	records := make([]models.Record, 0, len(state.records))
	for _, record := range state.records {
		records = append(records, record.Clone())
	}
	return records
}

// Insert stores the record under a freshly assigned durable id, ignoring
// whatever id the client submitted, and returns the stored record.
func (s *Store) Insert(scope models.Scope, record models.Record) models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	record = record.Clone()
	record.ID = uuid.NewString()

	state := s.scope(scope)
	state.records[record.ID] = record

	s.broadcast(state, models.ChangeEvent{Type: models.EventInsert, Record: record.Clone()})

	return record
}

// Update overwrites the fields and timestamp of an existing record. It
// reports false when the id is unknown.
func (s *Store) Update(scope models.Scope, id string, fields models.FieldMap, updatedAt int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.scope(scope)
	record, ok := state.records[id]
	if !ok {
		return false
	}

	record.Fields = fields.Clone()
	record.UpdatedAt = updatedAt
	state.records[id] = record

	s.broadcast(state, models.ChangeEvent{Type: models.EventUpdate, Record: record.Clone()})

	return true
}

// Delete removes a record, reporting false when the id is unknown.
func (s *Store) Delete(scope models.Scope, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.scope(scope)
	if _, ok := state.records[id]; !ok {
		return false
	}
	delete(state.records, id)

	s.broadcast(state, models.ChangeEvent{Type: models.EventDelete, Record: models.Record{ID: id}})

	return true
}

// Subscribe registers a change-feed subscriber for the scope and returns
// the event channel plus a cancel function that closes it.
func (s *Store) Subscribe(scope models.Scope) (<-chan models.ChangeEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.scope(scope)
	id := state.nextSub
	state.nextSub++

	ch := make(chan models.ChangeEvent, subscriberBuffer)
	state.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := state.subs[id]; ok {
			delete(state.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}

// broadcast delivers an event to every subscriber without blocking; a
// subscriber that cannot keep up loses events and is expected to
// resynchronize with a full list.
func (s *Store) broadcast(state *scopeState, event models.ChangeEvent) {
	for _, ch := range state.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
