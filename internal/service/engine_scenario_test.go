// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Julián Bravo

package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdbravo/vencsync/internal/logger"
	"github.com/jdbravo/vencsync/internal/store"
	"github.com/jdbravo/vencsync/models"
)

// In-memory fakes so the offline-to-online scenarios run end to end
// without a database.

type fakeCache struct {
	mu      sync.Mutex
	records map[string]models.Record
}

func newFakeCache() *fakeCache {
	return &fakeCache{records: make(map[string]models.Record)}
}

func (f *fakeCache) Load(context.Context, models.Scope) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Record, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCache) Replace(_ context.Context, _ models.Scope, records []models.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = make(map[string]models.Record, len(records))
	for _, r := range records {
		f.records[r.ID] = r.Clone()
	}
	return nil
}

func (f *fakeCache) Upsert(_ context.Context, _ models.Scope, record models.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[record.ID] = record.Clone()
	return nil
}

func (f *fakeCache) Remove(_ context.Context, _ models.Scope, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, id)
	return nil
}

func (f *fakeCache) ReplaceID(_ context.Context, _ models.Scope, oldID, newID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[oldID]
	if !ok {
		return fmt.Errorf("%w: id=%s", store.ErrRecordNotFound, oldID)
	}
	delete(f.records, oldID)
	record.ID = newID
	f.records[newID] = record
	return nil
}

type fakeOutbox struct {
	mu      sync.Mutex
	entries []models.OutboxEntry
	nextID  int64
}

func (f *fakeOutbox) Enqueue(_ context.Context, entry models.OutboxEntry) (models.OutboxEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	entry.EntryID = f.nextID
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeOutbox) All(context.Context, models.Scope) ([]models.OutboxEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.OutboxEntry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeOutbox) FindByRecordID(_ context.Context, _ models.Scope, recordID string) (models.OutboxEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.RecordID == recordID {
			return e, nil
		}
	}
	return models.OutboxEntry{}, fmt.Errorf("%w: record_id=%s", store.ErrEntryNotFound, recordID)
}

func (f *fakeOutbox) Update(_ context.Context, entry models.OutboxEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].EntryID == entry.EntryID {
			f.entries[i] = entry
			return nil
		}
	}
	return fmt.Errorf("%w: entry_id=%d", store.ErrEntryNotFound, entry.EntryID)
}

func (f *fakeOutbox) Delete(_ context.Context, entryID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].EntryID == entryID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeOutbox) ReplaceTempID(_ context.Context, _ models.Scope, tempID, durableID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].RecordID == tempID {
			f.entries[i].RecordID = durableID
			f.entries[i].Payload.ID = durableID
		}
	}
	return nil
}

// scriptedRemote records the operations it observes and assigns durable ids
// from a fixed list. The optional gates let a test park an insert mid-flight.
type scriptedRemote struct {
	mu      sync.Mutex
	ops     []string
	state   map[string]models.Record
	nextIDs []string

	insertStarted chan struct{}
	insertRelease chan struct{}
}

func newScriptedRemote(durableIDs ...string) *scriptedRemote {
	return &scriptedRemote{state: make(map[string]models.Record), nextIDs: durableIDs}
}

func (s *scriptedRemote) List(context.Context, models.Scope) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Record, 0, len(s.state))
	for _, r := range s.state {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *scriptedRemote) Insert(_ context.Context, _ models.Scope, record models.Record) (models.Record, error) {
	if s.insertStarted != nil {
		s.insertStarted <- struct{}{}
		<-s.insertRelease
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, "insert")
	record = record.Clone()
	record.ID = s.nextIDs[0]
	s.nextIDs = s.nextIDs[1:]
	s.state[record.ID] = record
	return record, nil
}

func (s *scriptedRemote) Update(_ context.Context, _ models.Scope, id string, fields models.FieldMap, updatedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, "update")
	record, ok := s.state[id]
	if !ok {
		return fmt.Errorf("scripted remote: unknown id %s", id)
	}
	record.Fields = fields.Clone()
	record.UpdatedAt = updatedAt
	s.state[id] = record
	return nil
}

func (s *scriptedRemote) Delete(_ context.Context, _ models.Scope, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, "delete")
	delete(s.state, id)
	return nil
}

func newScenarioEngine(t *testing.T, remote *scriptedRemote) (*syncEngine, *fakeCache, *fakeOutbox) {
	t.Helper()

	cache := newFakeCache()
	outbox := &fakeOutbox{}

	var clock atomic.Int64
	eng := &syncEngine{
		scope:  drainScope(),
		cache:  cache,
		outbox: outbox,
		remote: remote,
		logger: logger.Nop(),
		drafts: newDraftOverlay(),
		ids:    &stubIDGen{ids: []string{"tmp_a", "tmp_b"}},
		subs:   make(map[int]func(models.ChangeEvent)),
		runCtx: context.Background(),
		now:    func() int64 { return fixedNow + clock.Add(1) },
	}
	eng.drainer = NewDrainer(eng.scope, cache, outbox, remote, &eng.stateMu, logger.Nop(), eng.handleIDReassigned)
	eng.job = NewDrainJob(eng.drainer, logger.Nop())

	return eng, cache, outbox
}

// The offline shopping-list scenario: an item is created and edited while
// offline, then the queue drains once connectivity returns and the durable
// id replaces the temporary one everywhere.
func TestScenario_OfflineInsertEditThenDrain(t *testing.T) {
	ctx := context.Background()
	remote := newScriptedRemote("r1")
	eng, cache, _ := newScenarioEngine(t, remote)

	// offline insert is visible immediately under a temp id
	record, err := eng.Insert(ctx, models.FieldMap{"name": "Leche", "qty": 2})
	require.NoError(t, err)
	assert.Equal(t, "tmp_a", record.ID)

	cached, _ := cache.Load(ctx, drainScope())
	require.Len(t, cached, 1)
	assert.Equal(t, "tmp_a", cached[0].ID)

	// editing the still-queued record coalesces into the pending insert
	require.NoError(t, eng.Update(ctx, "tmp_a", models.FieldMap{"qty": 3}))

	pending, err := eng.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1, "one queued entry per record")
	assert.Equal(t, models.OpInsert, pending[0].Operation)
	assert.Equal(t, 3, pending[0].Payload.Fields["qty"])

	// connectivity returns
	eng.drainer.SetOnline(true)
	require.NoError(t, eng.Drain(ctx))

	// the remote store saw exactly one insert carrying the final fields
	assert.Equal(t, []string{"insert"}, remote.ops)
	assert.Equal(t, 3, remote.state["r1"].Fields["qty"])
	assert.Equal(t, "Leche", remote.state["r1"].Fields["name"])

	// the durable id replaced the temp id locally, the queue is empty
	cached, _ = cache.Load(ctx, drainScope())
	require.Len(t, cached, 1)
	assert.Equal(t, "r1", cached[0].ID)
	assert.Equal(t, 3, cached[0].Fields["qty"])

	pending, _ = eng.Pending(ctx)
	assert.Empty(t, pending)
}

// Insert acknowledged, then a later offline edit: the queued update must
// reach the remote store after the insert, carrying the reconciled id.
func TestScenario_FIFOAcrossIDReassignment(t *testing.T) {
	ctx := context.Background()
	remote := newScriptedRemote("r1")
	eng, _, outbox := newScenarioEngine(t, remote)

	_, err := eng.Insert(ctx, models.FieldMap{"name": "Leche", "qty": 2})
	require.NoError(t, err)

	// force a second queued entry instead of coalescing, as if the update
	// had been enqueued by an earlier session
	outbox.mu.Lock()
	outbox.nextID++
	outbox.entries = append(outbox.entries, models.OutboxEntry{
		EntryID:    outbox.nextID,
		Scope:      drainScope(),
		Operation:  models.OpUpdate,
		RecordID:   "tmp_a",
		Payload:    models.Record{ID: "tmp_a", Fields: models.FieldMap{"name": "Leche", "qty": 5}, UpdatedAt: fixedNow + 1},
		EnqueuedAt: fixedNow + 1,
	})
	outbox.mu.Unlock()

	eng.drainer.SetOnline(true)
	require.NoError(t, eng.Drain(ctx))

	assert.Equal(t, []string{"insert", "update"}, remote.ops)
	assert.Equal(t, 5, remote.state["r1"].Fields["qty"])

	pending, _ := eng.Pending(ctx)
	assert.Empty(t, pending)
}

// A local edit landing while the queued insert is still in flight must not
// be overwritten by the acknowledgement, and must still reach the remote
// store on the follow-up pass.
func TestScenario_EditDuringDrainIsNotLost(t *testing.T) {
	ctx := context.Background()
	remote := newScriptedRemote("r1")
	remote.insertStarted = make(chan struct{})
	remote.insertRelease = make(chan struct{})
	eng, cache, _ := newScenarioEngine(t, remote)

	record, err := eng.Insert(ctx, models.FieldMap{"name": "Leche", "qty": 2})
	require.NoError(t, err)

	eng.drainer.SetOnline(true)
	done := make(chan error, 1)
	go func() { done <- eng.Drain(ctx) }()

	<-remote.insertStarted
	// the edit lands while the insert acknowledgement is in flight
	require.NoError(t, eng.Update(ctx, record.ID, models.FieldMap{"qty": 3}))
	close(remote.insertRelease)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("drain did not finish")
	}

	// the edit reached the remote store after the insert
	assert.Equal(t, []string{"insert", "update"}, remote.ops)
	assert.Equal(t, 3, remote.state["r1"].Fields["qty"])

	// and survived locally under the durable id
	cached, _ := cache.Load(ctx, drainScope())
	require.Len(t, cached, 1)
	assert.Equal(t, "r1", cached[0].ID)
	assert.Equal(t, 3, cached[0].Fields["qty"])

	pending, _ := eng.Pending(ctx)
	assert.Empty(t, pending)
}

// Refresh merges the remote snapshot without losing local-only temp records.
func TestScenario_RefreshKeepsUnacknowledgedInserts(t *testing.T) {
	ctx := context.Background()
	remote := newScriptedRemote()
	remote.state["r1"] = models.Record{ID: "r1", Fields: models.FieldMap{"name": "Queso"}, UpdatedAt: 10}

	eng, cache, _ := newScenarioEngine(t, remote)
	eng.drainer.SetOnline(true)

	// a local-only record whose insert was never acknowledged
	require.NoError(t, cache.Upsert(ctx, drainScope(), models.Record{
		ID:        "tmp_a",
		Fields:    models.FieldMap{"name": "Leche"},
		UpdatedAt: fixedNow,
	}))

	merged, err := eng.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, merged, 2)

	cached, _ := cache.Load(ctx, drainScope())
	require.Len(t, cached, 2)
	assert.Equal(t, "r1", cached[0].ID)
	assert.Equal(t, "tmp_a", cached[1].ID)
}
