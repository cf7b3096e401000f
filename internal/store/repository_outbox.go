package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jdbravo/vencsync/internal/logger"
	"github.com/jdbravo/vencsync/models"
)

type outboxRepository struct {
	*DB
	logger *logger.Logger
}

func NewOutboxRepository(db *DB, logger *logger.Logger) OutboxRepository {
	return &outboxRepository{
		DB:     db,
		logger: logger,
	}
}

func (o *outboxRepository) Enqueue(ctx context.Context, entry models.OutboxEntry) (models.OutboxEntry, error) {
	log := logger.FromContext(ctx)

	rawPayload, err := json.Marshal(entry.Payload)
	if err != nil {
		return models.OutboxEntry{}, fmt.Errorf("%w: %w", ErrEncodingPayload, err)
	}

	res, err := o.DB.ExecContext(ctx, enqueueOutboxEntry,
		entry.Scope.Key(),
		string(entry.Operation),
		entry.RecordID,
		rawPayload,
		entry.EnqueuedAt,
		entry.LastError,
	)
	if err != nil {
		log.Err(err).
			Str("func", "outboxRepository.Enqueue").
			Str("scope", entry.Scope.Key()).
			Str("record_id", entry.RecordID).
			Str("operation", string(entry.Operation)).
			Msg("failed to enqueue outbox entry")
		return models.OutboxEntry{}, fmt.Errorf("failed to enqueue outbox entry (record_id=%s): %w", entry.RecordID, err)
	}

	entryID, err := res.LastInsertId()
	if err != nil {
		return models.OutboxEntry{}, fmt.Errorf("failed to read enqueued entry id: %w", err)
	}

	entry.EntryID = entryID
	return entry, nil
}

func (o *outboxRepository) All(ctx context.Context, scope models.Scope) ([]models.OutboxEntry, error) {
	log := logger.FromContext(ctx)

	rows, err := o.DB.QueryContext(ctx, getAllOutboxEntries, scope.Key())
	if err != nil {
		log.Err(err).
			Str("func", "outboxRepository.All").
			Str("scope", scope.Key()).
			Msg("failed to execute query for pending outbox entries")
		return nil, fmt.Errorf("failed to query outbox entries: %w", err)
	}
	defer rows.Close()

	var entries []models.OutboxEntry

	for rows.Next() {
		entry, scanErr := scanOutboxEntry(rows.Scan, scope)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "outboxRepository.All").
				Str("scope", scope.Key()).
				Msg("failed to scan outbox entry row")
			return nil, scanErr
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}

func (o *outboxRepository) FindByRecordID(ctx context.Context, scope models.Scope, recordID string) (models.OutboxEntry, error) {
	log := logger.FromContext(ctx)

	row := o.DB.QueryRowContext(ctx, findOutboxEntryByRecord, scope.Key(), recordID)

	entry, err := scanOutboxEntry(row.Scan, scope)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.OutboxEntry{}, fmt.Errorf("%w: record_id=%s", ErrEntryNotFound, recordID)
		}
		log.Err(err).
			Str("func", "outboxRepository.FindByRecordID").
			Str("scope", scope.Key()).
			Str("record_id", recordID).
			Msg("failed to scan outbox entry")
		return models.OutboxEntry{}, err
	}

	return entry, nil
}

func (o *outboxRepository) Update(ctx context.Context, entry models.OutboxEntry) error {
	log := logger.FromContext(ctx)

	rawPayload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingPayload, err)
	}

	res, err := o.DB.ExecContext(ctx, updateOutboxEntry,
		string(entry.Operation),
		entry.RecordID,
		rawPayload,
		entry.EnqueuedAt,
		entry.LastError,
		entry.EntryID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "outboxRepository.Update").
			Int64("entry_id", entry.EntryID).
			Msg("failed to update outbox entry")
		return fmt.Errorf("failed to update outbox entry (entry_id=%d): %w", entry.EntryID, err)
	}

	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		return fmt.Errorf("%w: entry_id=%d", ErrEntryNotFound, entry.EntryID)
	}

	return nil
}

func (o *outboxRepository) Delete(ctx context.Context, entryID int64) error {
	log := logger.FromContext(ctx)

	if _, err := o.DB.ExecContext(ctx, deleteOutboxEntry, entryID); err != nil {
		log.Err(err).
			Str("func", "outboxRepository.Delete").
			Int64("entry_id", entryID).
			Msg("failed to delete outbox entry")
		return fmt.Errorf("failed to delete outbox entry (entry_id=%d): %w", entryID, err)
	}

	return nil
}

func (o *outboxRepository) ReplaceTempID(ctx context.Context, scope models.Scope, tempID, durableID string) error {
	log := logger.FromContext(ctx)

	if _, err := o.DB.ExecContext(ctx, replaceOutboxTempID, durableID, scope.Key(), tempID); err != nil {
		log.Err(err).
			Str("func", "outboxRepository.ReplaceTempID").
			Str("scope", scope.Key()).
			Str("temp_id", tempID).
			Str("durable_id", durableID).
			Msg("failed to replace temp id in outbox entries")
		return fmt.Errorf("failed to replace outbox temp id (%s -> %s): %w", tempID, durableID, err)
	}

	return nil
}

func scanOutboxEntry(scan func(dest ...any) error, scope models.Scope) (models.OutboxEntry, error) {
	var (
		entry      models.OutboxEntry
		operation  string
		rawPayload []byte
	)

	if err := scan(&entry.EntryID, &operation, &entry.RecordID, &rawPayload, &entry.EnqueuedAt, &entry.LastError); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.OutboxEntry{}, err
		}
		return models.OutboxEntry{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	if err := json.Unmarshal(rawPayload, &entry.Payload); err != nil {
		return models.OutboxEntry{}, fmt.Errorf("%w: %w", ErrDecodingPayload, err)
	}

	entry.Scope = scope
	entry.Operation = models.Operation(operation)
	return entry, nil
}
