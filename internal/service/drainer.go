package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/jdbravo/vencsync/internal/adapter"
	"github.com/jdbravo/vencsync/internal/logger"
	"github.com/jdbravo/vencsync/internal/store"
	"github.com/jdbravo/vencsync/models"
)

type outboxDrainer struct {
	scope  models.Scope
	cache  store.CacheRepository
	outbox store.OutboxRepository
	remote adapter.RemoteStore
	logger *logger.Logger

	// stateMu is shared with the owning engine and guards every local
	// cache/outbox mutation, so a drain pass never interleaves a temp-id
	// swap with an optimistic write.
	stateMu *sync.Mutex

	online atomic.Bool

	// single in-flight guard: at most one drain pass runs at a time, a
	// trigger arriving mid-pass is coalesced into one follow-up pass.
	flightMu sync.Mutex
	running  bool
	rerun    bool

	// onIDReassigned lets the engine rename drafts and notify the UI when
	// an insert replay swaps a temporary id for a durable one.
	onIDReassigned func(tempID string, durable models.Record)
}

// NewDrainer builds the outbox [Drainer] for one scope. stateMu must be the
// mutex guarding the engine's local state; onIDReassigned may be nil.
func NewDrainer(
	scope models.Scope,
	cache store.CacheRepository,
	outbox store.OutboxRepository,
	remote adapter.RemoteStore,
	stateMu *sync.Mutex,
	log *logger.Logger,
	onIDReassigned func(tempID string, durable models.Record),
) Drainer {
	return &outboxDrainer{
		scope:          scope,
		cache:          cache,
		outbox:         outbox,
		remote:         remote,
		stateMu:        stateMu,
		logger:         log,
		onIDReassigned: onIDReassigned,
	}
}

func (d *outboxDrainer) SetOnline(online bool) bool {
	was := d.online.Swap(online)
	return online && !was
}

func (d *outboxDrainer) Online() bool {
	return d.online.Load()
}

// Drain implements Drainer. The in-flight guard is released once the pass
// settles, whatever the outcome; a remote call that hangs is bounded by the
// adapter's request timeout, so the guard is never held indefinitely.
func (d *outboxDrainer) Drain(ctx context.Context) error {
	d.flightMu.Lock()
	if d.running {
		d.rerun = true
		d.flightMu.Unlock()
		return nil
	}
	d.running = true
	d.flightMu.Unlock()

	defer func() {
		d.flightMu.Lock()
		d.running = false
		d.flightMu.Unlock()
	}()

	var errs []error
	for {
		if err := d.drainOnce(ctx); err != nil {
			errs = append(errs, err)
		}

		d.flightMu.Lock()
		again := d.rerun
		d.rerun = false
		d.flightMu.Unlock()

		if !again || ctx.Err() != nil {
			break
		}
	}

	return errors.Join(errs...)
}

// drainOnce replays the queue oldest-first. A failing entry never blocks
// the independent entries behind it; only update/delete entries that still
// reference an unacknowledged temporary id are deferred to a later pass.
func (d *outboxDrainer) drainOnce(ctx context.Context) error {
	if !d.online.Load() {
		return nil
	}

	entries, err := d.outbox.All(ctx, d.scope)
	if err != nil {
		return fmt.Errorf("load outbox for drain: %w", err)
	}

	var terminalErrs []error
	successes, retryables := 0, 0

	for i := range entries {
		if ctx.Err() != nil {
			break
		}

		entry := entries[i]

		if entry.LastError != "" {
			// Terminally rejected on an earlier pass. Resending the same
			// payload would only be rejected again; a fresh local edit
			// clears the marker and puts the entry back into rotation.
			continue
		}

		if entry.Operation != models.OpInsert && models.IsTempID(entry.RecordID) {
			// The insert for this id has not been acknowledged yet;
			// replaying the update/delete now would hit the store out
			// of order. Wait for a later pass.
			continue
		}

		replayedID := entry.RecordID
		recheck := true

		var replayErr error
		switch entry.Operation {
		case models.OpInsert:
			var durableID string
			durableID, replayErr = d.replayInsert(ctx, entry, entries[i+1:])
			if replayErr == nil {
				if durableID == "" {
					// consumed without a swap, nothing could have
					// coalesced into it that still matters
					recheck = false
				} else {
					replayedID = durableID
				}
			}
		case models.OpUpdate:
			replayErr = d.replayUpdate(ctx, entry)
		case models.OpDelete:
			replayErr = d.replayDelete(ctx, entry)
		default:
			replayErr = fmt.Errorf("unknown outbox operation %q", entry.Operation)
		}

		switch {
		case replayErr == nil:
			successes++
			d.finishReplayed(ctx, entry, replayedID, recheck)

		case adapter.IsTerminal(replayErr):
			d.markTerminal(ctx, entry, replayErr)
			terminalErrs = append(terminalErrs,
				fmt.Errorf("%s %s: %w", entry.Operation, entry.RecordID, replayErr))

		default:
			retryables++
			d.logger.Debug().
				Err(replayErr).
				Int64("entry_id", entry.EntryID).
				Str("record_id", entry.RecordID).
				Msg("outbox entry replay failed, keeping for next drain")
		}
	}

	// A pass where nothing got through but retryable failures piled up
	// means connectivity is gone again.
	if successes == 0 && retryables > 0 {
		d.online.Store(false)
	}

	return errors.Join(terminalErrs...)
}

// replayInsert pushes the queued record and, on success, swaps its
// temporary id for the durable one across the local cache, the persisted
// queue, and the rest of the in-memory pass. It returns the durable id, or
// "" when the entry was consumed without a swap.
func (d *outboxDrainer) replayInsert(ctx context.Context, entry models.OutboxEntry, rest []models.OutboxEntry) (string, error) {
	durable, err := d.remote.Insert(ctx, d.scope, entry.Payload)
	if err != nil {
		return "", err
	}

	tempID := entry.RecordID

	d.stateMu.Lock()
	if swapErr := d.cache.ReplaceID(ctx, d.scope, tempID, durable.ID); swapErr != nil {
		d.stateMu.Unlock()
		if errors.Is(swapErr, store.ErrRecordNotFound) {
			// Record was deleted locally while the insert was queued;
			// nothing to reconcile.
			return "", nil
		}
		// The insert landed remotely but the local swap failed. Keeping
		// the entry would replay the insert and duplicate the record,
		// so log loudly and let the next full reconciliation pick the
		// durable record up.
		d.logger.Error().
			Err(swapErr).
			Str("temp_id", tempID).
			Str("durable_id", durable.ID).
			Msg("temp id swap failed after remote insert")
		return "", nil
	}

	// The local copy may carry an edit made after the payload was queued;
	// last-writer-wins decides which version the cache keeps.
	winner, applied := mergeOne(d.findLocal(ctx, durable.ID), durable)
	if applied {
		if upsertErr := d.cache.Upsert(ctx, d.scope, winner); upsertErr != nil {
			d.logger.Error().
				Err(upsertErr).
				Str("durable_id", durable.ID).
				Msg("failed to store durable record after insert replay")
		}
	}

	if err := d.outbox.ReplaceTempID(ctx, d.scope, tempID, durable.ID); err != nil {
		d.logger.Error().
			Err(err).
			Str("temp_id", tempID).
			Msg("failed to rewrite temp id in pending outbox entries")
	}
	d.stateMu.Unlock()

	// The slice for this pass was loaded before the swap; keep it in sync.
	for j := range rest {
		if rest[j].RecordID == tempID {
			rest[j].RecordID = durable.ID
			rest[j].Payload.ID = durable.ID
		}
	}

	if d.onIDReassigned != nil {
		d.onIDReassigned(tempID, winner)
	}

	return durable.ID, nil
}

// finishReplayed removes a successfully replayed entry from the queue. The
// remote call ran outside stateMu, so a local write may have coalesced a
// newer payload into the entry in the meantime; deleting it then would drop
// that write. Such an entry is kept (an acknowledged insert becomes an
// update) and a follow-up pass is scheduled to deliver it.
func (d *outboxDrainer) finishReplayed(ctx context.Context, entry models.OutboxEntry, recordID string, recheck bool) {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()

	if recheck {
		current, err := d.outbox.FindByRecordID(ctx, d.scope, recordID)
		if err == nil && current.EntryID == entry.EntryID && payloadChanged(current, entry) {
			if current.Operation == models.OpInsert {
				// the insert itself just succeeded
				current.Operation = models.OpUpdate
				if updErr := d.outbox.Update(ctx, current); updErr != nil {
					d.logger.Error().
						Err(updErr).
						Int64("entry_id", current.EntryID).
						Msg("failed to requeue acknowledged insert as update")
				}
			}

			d.flightMu.Lock()
			d.rerun = true
			d.flightMu.Unlock()
			return
		}
	}

	if err := d.outbox.Delete(ctx, entry.EntryID); err != nil {
		d.logger.Error().
			Err(err).
			Int64("entry_id", entry.EntryID).
			Msg("failed to remove replayed outbox entry")
	}
}

// payloadChanged reports whether the stored entry carries a different
// payload than the snapshot this pass replayed. The payload id is excluded:
// a temp-id rewrite alone does not change what was sent.
func payloadChanged(current, snapshot models.OutboxEntry) bool {
	return current.Payload.UpdatedAt != snapshot.Payload.UpdatedAt ||
		!reflect.DeepEqual(current.Payload.Fields, snapshot.Payload.Fields)
}

// findLocal fetches one record from the cache. Callers hold stateMu.
func (d *outboxDrainer) findLocal(ctx context.Context, id string) *models.Record {
	records, err := d.cache.Load(ctx, d.scope)
	if err != nil {
		d.logger.Error().Err(err).Msg("failed to load cache during insert replay")
		return nil
	}

	for i := range records {
		if records[i].ID == id {
			return &records[i]
		}
	}

	return nil
}

// replayUpdate treats a missing remote record as success: the effect the
// entry was meant to produce is already gone, retrying would loop forever.
func (d *outboxDrainer) replayUpdate(ctx context.Context, entry models.OutboxEntry) error {
	err := d.remote.Update(ctx, d.scope, entry.RecordID, entry.Payload.Fields, entry.Payload.UpdatedAt)
	if adapter.IsNotFound(err) {
		return nil
	}
	return err
}

func (d *outboxDrainer) replayDelete(ctx context.Context, entry models.OutboxEntry) error {
	err := d.remote.Delete(ctx, d.scope, entry.RecordID)
	if adapter.IsNotFound(err) {
		return nil
	}
	return err
}

// markTerminal stamps the entry with its rejection so the application can
// alert the user. The entry is never dropped: a stuck entry beats silent
// data loss. The warning is logged once per marking, not on every pass.
func (d *outboxDrainer) markTerminal(ctx context.Context, entry models.OutboxEntry, cause error) {
	if entry.LastError != "" {
		return
	}

	entry.LastError = cause.Error()
	if err := d.outbox.Update(ctx, entry); err != nil {
		d.logger.Error().
			Err(err).
			Int64("entry_id", entry.EntryID).
			Msg("failed to mark outbox entry as rejected")
		return
	}

	d.logger.Warn().
		Int64("entry_id", entry.EntryID).
		Str("record_id", entry.RecordID).
		Str("operation", string(entry.Operation)).
		Str("cause", cause.Error()).
		Msg("outbox entry terminally rejected, kept queued for manual cleanup")
}
