package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jdbravo/vencsync/internal/adapter"
	"github.com/jdbravo/vencsync/internal/logger"
	"github.com/jdbravo/vencsync/internal/store"
	"github.com/jdbravo/vencsync/models"
)

// syncEngine implements [Engine] for a single tenant+branch scope.
type syncEngine struct {
	scope  models.Scope
	cache  store.CacheRepository
	outbox store.OutboxRepository
	remote adapter.RemoteStore
	feed   adapter.ChangeFeed
	logger *logger.Logger

	drafts  *draftOverlay
	ids     IDGenerator
	drainer Drainer
	job     DrainJob

	// stateMu guards every local cache/outbox mutation. It is shared with
	// the drainer so a drain pass and an optimistic write never interleave.
	stateMu sync.Mutex

	subsMu sync.RWMutex
	subs   map[int]func(models.ChangeEvent)
	nextID int

	runCtx      context.Context
	cancel      context.CancelFunc
	unsubscribe adapter.UnsubscribeFunc

	now func() int64
}

// NewSyncEngine wires the engine for one scope over the given storage,
// remote adapter and change feed.
func NewSyncEngine(
	scope models.Scope,
	storages *store.Storages,
	remote adapter.RemoteStore,
	feed adapter.ChangeFeed,
	log *logger.Logger,
) Engine {
	e := &syncEngine{
		scope:  scope,
		cache:  storages.Cache,
		outbox: storages.Outbox,
		remote: remote,
		feed:   feed,
		logger: log,
		drafts: newDraftOverlay(),
		ids:    NewUUIDGenerator(),
		subs:   make(map[int]func(models.ChangeEvent)),
		runCtx: context.Background(),
		now:    func() int64 { return time.Now().UnixMilli() },
	}

	e.drainer = NewDrainer(scope, storages.Cache, storages.Outbox, remote, &e.stateMu, log, e.handleIDReassigned)
	e.job = NewDrainJob(e.drainer, log)

	return e
}

func (e *syncEngine) Start(ctx context.Context, drainInterval time.Duration) error {
	e.runCtx, e.cancel = context.WithCancel(ctx)

	e.drainer.SetOnline(true)

	if _, err := e.Refresh(e.runCtx); err != nil {
		e.logger.Warn().
			Err(err).
			Str("scope", e.scope.Key()).
			Msg("initial reconciliation failed, starting from cached snapshot")
	}

	unsubscribe, err := e.feed.Subscribe(e.runCtx, e.scope, func(event models.ChangeEvent) {
		e.applyRemoteEvent(e.runCtx, event)
	})
	if err != nil {
		e.cancel()
		return fmt.Errorf("subscribe to change feed: %w", err)
	}
	e.unsubscribe = unsubscribe

	e.job.Start(e.runCtx, drainInterval)

	// Flush whatever the previous session left queued.
	if e.drainer.Online() {
		go func() {
			if err := e.drainer.Drain(e.runCtx); err != nil {
				e.logger.Warn().Err(err).Msg("startup drain reported rejected entries")
			}
		}()
	}

	return nil
}

func (e *syncEngine) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	e.job.Stop()
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *syncEngine) Records(ctx context.Context) ([]models.Record, error) {
	records, err := e.cache.Load(ctx, e.scope)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	return records, nil
}

func (e *syncEngine) Refresh(ctx context.Context) ([]models.Record, error) {
	remoteRecords, err := e.remote.List(ctx, e.scope)
	if err != nil {
		if !adapter.IsRetryable(err) {
			return nil, fmt.Errorf("list remote records: %w", err)
		}

		e.drainer.SetOnline(false)
		e.logger.Warn().
			Err(err).
			Str("scope", e.scope.Key()).
			Msg("remote store unreachable, serving cached snapshot")

		return e.Records(ctx)
	}

	e.promote()

	e.stateMu.Lock()
	local, err := e.cache.Load(ctx, e.scope)
	if err != nil {
		e.stateMu.Unlock()
		return nil, err
	}

	merged := Merge(local, remoteRecords)
	if err := e.cache.Replace(ctx, e.scope, merged); err != nil {
		e.stateMu.Unlock()
		return nil, err
	}
	e.stateMu.Unlock()

	return merged, nil
}

func (e *syncEngine) Insert(ctx context.Context, fields models.FieldMap) (models.Record, error) {
	record := models.Record{
		ID:        e.ids.NewTempID(),
		Fields:    fields.Clone(),
		UpdatedAt: e.now(),
	}

	e.stateMu.Lock()
	if err := e.cache.Upsert(ctx, e.scope, record); err != nil {
		e.stateMu.Unlock()
		return models.Record{}, err
	}
	e.stateMu.Unlock()

	e.notify(models.ChangeEvent{Type: models.EventInsert, Record: record.Clone()})

	if !e.drainer.Online() {
		return record, e.enqueue(ctx, models.OpInsert, record, "")
	}

	durable, err := e.remote.Insert(ctx, e.scope, record)
	if err == nil {
		e.promote()
		e.applyDurableID(ctx, record.ID, durable)
		return durable, nil
	}

	if adapter.IsTerminal(err) {
		if qErr := e.enqueue(ctx, models.OpInsert, record, err.Error()); qErr != nil {
			return record, qErr
		}
		return record, err
	}

	e.demote(err, "insert")

	return record, e.enqueue(ctx, models.OpInsert, record, "")
}

func (e *syncEngine) Update(ctx context.Context, id string, fields models.FieldMap) error {
	e.stateMu.Lock()
	current, err := e.loadOne(ctx, id)
	if err != nil {
		e.stateMu.Unlock()
		return err
	}

	record := current.Clone()
	for field, value := range fields {
		record.Fields[field] = value
	}
	record.UpdatedAt = e.now()

	if err := e.cache.Upsert(ctx, e.scope, record); err != nil {
		e.stateMu.Unlock()
		return err
	}
	e.stateMu.Unlock()

	e.notify(models.ChangeEvent{Type: models.EventUpdate, Record: record.Clone()})

	// A queued entry for this id must keep its position: coalesce into it
	// instead of racing it with a direct remote call. stateMu keeps the
	// rewrite atomic against a drain pass consuming the same entry.
	e.stateMu.Lock()
	pending, err := e.outbox.FindByRecordID(ctx, e.scope, id)
	if err == nil {
		pending.Payload = record.Clone()
		pending.LastError = ""
		err = e.outbox.Update(ctx, pending)
		e.stateMu.Unlock()
		return err
	}
	e.stateMu.Unlock()
	if !errors.Is(err, store.ErrEntryNotFound) {
		return err
	}

	if record.HasTempID() {
		// Insert was never queued nor acknowledged; queue the full record
		// so the drainer creates it remotely with these fields.
		return e.enqueue(ctx, models.OpInsert, record, "")
	}

	if !e.drainer.Online() {
		return e.enqueue(ctx, models.OpUpdate, record, "")
	}

	err = e.remote.Update(ctx, e.scope, id, record.Fields, record.UpdatedAt)
	if err == nil || adapter.IsNotFound(err) {
		e.promote()
		return nil
	}

	if adapter.IsTerminal(err) {
		if qErr := e.enqueue(ctx, models.OpUpdate, record, err.Error()); qErr != nil {
			return qErr
		}
		return err
	}

	e.demote(err, "update")

	return e.enqueue(ctx, models.OpUpdate, record, "")
}

func (e *syncEngine) Delete(ctx context.Context, id string) error {
	e.stateMu.Lock()
	preImage, err := e.loadOne(ctx, id)
	if err != nil {
		e.stateMu.Unlock()
		return err
	}

	if err := e.cache.Remove(ctx, e.scope, id); err != nil {
		e.stateMu.Unlock()
		return err
	}
	e.stateMu.Unlock()

	e.drafts.Clear(id)
	e.notify(models.ChangeEvent{Type: models.EventDelete, Record: models.Record{ID: id}})

	e.stateMu.Lock()
	pending, err := e.outbox.FindByRecordID(ctx, e.scope, id)
	if err == nil {
		if pending.Operation == models.OpInsert {
			// The record never reached the remote store; dropping the
			// queued insert deletes it everywhere.
			err = e.outbox.Delete(ctx, pending.EntryID)
			e.stateMu.Unlock()
			return err
		}
		pending.Operation = models.OpDelete
		pending.Payload = models.Record{ID: id}
		pending.LastError = ""
		err = e.outbox.Update(ctx, pending)
		e.stateMu.Unlock()
		return err
	}
	e.stateMu.Unlock()
	if !errors.Is(err, store.ErrEntryNotFound) {
		return err
	}

	if models.IsTempID(id) {
		// Never synchronized and nothing queued; local removal is enough.
		return nil
	}

	if !e.drainer.Online() {
		return e.enqueue(ctx, models.OpDelete, models.Record{ID: id}, "")
	}

	err = e.remote.Delete(ctx, e.scope, id)
	if err == nil || adapter.IsNotFound(err) {
		e.promote()
		return nil
	}

	if adapter.IsTerminal(err) {
		// The store still holds the row; bring the local copy back so the
		// two sides do not silently diverge.
		e.stateMu.Lock()
		if restoreErr := e.cache.Upsert(ctx, e.scope, *preImage); restoreErr != nil {
			e.logger.Error().
				Err(restoreErr).
				Str("record_id", id).
				Msg("failed to restore record after rejected delete")
		}
		e.stateMu.Unlock()
		e.notify(models.ChangeEvent{Type: models.EventInsert, Record: preImage.Clone()})
		return err
	}

	e.demote(err, "delete")

	return e.enqueue(ctx, models.OpDelete, models.Record{ID: id}, "")
}

func (e *syncEngine) SetDraft(id string, fields models.FieldMap) {
	e.drafts.Set(id, fields)
}

func (e *syncEngine) DraftField(id, field string, fallback any) any {
	return e.drafts.Field(id, field, fallback)
}

func (e *syncEngine) ClearDraft(id string) {
	e.drafts.Clear(id)
}

func (e *syncEngine) CommitDraft(ctx context.Context, id string) error {
	fields, ok := e.drafts.Take(id)
	if !ok {
		return nil
	}

	return e.Update(ctx, id, fields)
}

func (e *syncEngine) Pending(ctx context.Context) ([]models.OutboxEntry, error) {
	return e.outbox.All(ctx, e.scope)
}

func (e *syncEngine) Drain(ctx context.Context) error {
	return e.drainer.Drain(ctx)
}

func (e *syncEngine) SetOnline(online bool) {
	if e.drainer.SetOnline(online) {
		go func() {
			if err := e.drainer.Drain(e.runCtx); err != nil {
				e.logger.Warn().Err(err).Msg("drain after reconnect reported rejected entries")
			}
		}()
	}
}

func (e *syncEngine) Online() bool {
	return e.drainer.Online()
}

func (e *syncEngine) SubscribeLocal(fn func(models.ChangeEvent)) func() {
	e.subsMu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.subsMu.Unlock()

	return func() {
		e.subsMu.Lock()
		delete(e.subs, id)
		e.subsMu.Unlock()
	}
}

// applyRemoteEvent merges one change-feed event into the local state.
// Deletes are authoritative and always discard the record's draft; inserts
// and updates go through last-writer-wins against the local copy, and the
// draft is discarded only when the inbound record is applied (a stale event
// leaves the record and its draft untouched).
func (e *syncEngine) applyRemoteEvent(ctx context.Context, event models.ChangeEvent) {
	log := e.logger.
		With().
		Str("record_id", event.Record.ID).
		Str("event", string(event.Type)).
		Logger()

	switch event.Type {
	case models.EventDelete:
		e.stateMu.Lock()
		err := e.cache.Remove(ctx, e.scope, event.Record.ID)
		e.stateMu.Unlock()
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			log.Error().Err(err).Msg("failed to apply remote delete")
			return
		}

		e.drafts.Clear(event.Record.ID)
		e.notify(event)

	case models.EventInsert, models.EventUpdate:
		e.stateMu.Lock()
		local, err := e.loadOne(ctx, event.Record.ID)
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			e.stateMu.Unlock()
			log.Error().Err(err).Msg("failed to load record for remote event")
			return
		}

		winner, applied := mergeOne(local, event.Record)
		if !applied {
			e.stateMu.Unlock()
			log.Debug().Msg("remote event older than local copy, ignored")
			return
		}

		if err := e.cache.Upsert(ctx, e.scope, winner); err != nil {
			e.stateMu.Unlock()
			log.Error().Err(err).Msg("failed to apply remote event")
			return
		}
		e.stateMu.Unlock()

		e.drafts.Clear(event.Record.ID)
		e.notify(models.ChangeEvent{Type: event.Type, Record: winner.Clone()})

	default:
		log.Warn().Msg("unknown change feed event type, skipped")
	}
}

// applyDurableID installs the durable record an immediate remote insert
// returned, replacing the optimistic temporary id everywhere.
func (e *syncEngine) applyDurableID(ctx context.Context, tempID string, durable models.Record) {
	e.stateMu.Lock()
	if err := e.cache.ReplaceID(ctx, e.scope, tempID, durable.ID); err != nil {
		e.logger.Error().
			Err(err).
			Str("temp_id", tempID).
			Str("durable_id", durable.ID).
			Msg("failed to swap temp id after insert")
	}
	if err := e.cache.Upsert(ctx, e.scope, durable); err != nil {
		e.logger.Error().
			Err(err).
			Str("durable_id", durable.ID).
			Msg("failed to store durable record after insert")
	}
	e.stateMu.Unlock()

	e.handleIDReassigned(tempID, durable)
}

// handleIDReassigned propagates a temp-id swap to drafts and observers. The
// UI keys rows by id, so the swap is surfaced as a delete of the temporary
// row followed by an insert of the durable one.
func (e *syncEngine) handleIDReassigned(tempID string, durable models.Record) {
	e.drafts.Rename(tempID, durable.ID)
	e.notify(models.ChangeEvent{Type: models.EventDelete, Record: models.Record{ID: tempID}})
	e.notify(models.ChangeEvent{Type: models.EventInsert, Record: durable.Clone()})
}

// enqueue persists an outbox entry for the record, coalescing into an
// existing entry for the same id: one queued entry per record, newest
// payload wins, the original operation and queue position are kept.
func (e *syncEngine) enqueue(ctx context.Context, op models.Operation, record models.Record, lastError string) error {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	existing, err := e.outbox.FindByRecordID(ctx, e.scope, record.ID)
	if err == nil {
		existing.Payload = record.Clone()
		existing.LastError = lastError
		return e.outbox.Update(ctx, existing)
	}
	if !errors.Is(err, store.ErrEntryNotFound) {
		return err
	}

	entry := models.OutboxEntry{
		Scope:      e.scope,
		Operation:  op,
		RecordID:   record.ID,
		Payload:    record.Clone(),
		EnqueuedAt: e.now(),
		LastError:  lastError,
	}

	if _, err := e.outbox.Enqueue(ctx, entry); err != nil {
		return fmt.Errorf("enqueue %s for record %s: %w", op, record.ID, err)
	}

	return nil
}

// loadOne fetches a single record from the cache. Callers hold stateMu when
// the read feeds a mutation.
func (e *syncEngine) loadOne(ctx context.Context, id string) (*models.Record, error) {
	records, err := e.cache.Load(ctx, e.scope)
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}

	return nil, fmt.Errorf("%w: id=%s", store.ErrRecordNotFound, id)
}

// promote records a successful remote round trip and kicks a drain when it
// flips the engine back online.
func (e *syncEngine) promote() {
	if e.drainer.SetOnline(true) {
		go func() {
			if err := e.drainer.Drain(e.runCtx); err != nil {
				e.logger.Warn().Err(err).Msg("drain after reconnect reported rejected entries")
			}
		}()
	}
}

// demote flips the engine offline after a retryable remote failure.
func (e *syncEngine) demote(cause error, operation string) {
	e.drainer.SetOnline(false)
	e.logger.Warn().
		Err(cause).
		Str("operation", operation).
		Str("scope", e.scope.Key()).
		Msg("remote store unreachable, switching to offline queueing")
}

func (e *syncEngine) notify(event models.ChangeEvent) {
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()

	for _, fn := range e.subs {
		fn(event)
	}
}
