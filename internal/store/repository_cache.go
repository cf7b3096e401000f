package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jdbravo/vencsync/internal/logger"
	"github.com/jdbravo/vencsync/models"
)

type cacheRepository struct {
	*DB
	logger *logger.Logger
}

func NewCacheRepository(db *DB, logger *logger.Logger) CacheRepository {
	return &cacheRepository{
		DB:     db,
		logger: logger,
	}
}

func (c *cacheRepository) Load(ctx context.Context, scope models.Scope) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	rows, err := c.DB.QueryContext(ctx, getAllRecords, scope.Key())
	if err != nil {
		log.Err(err).
			Str("func", "cacheRepository.Load").
			Str("scope", scope.Key()).
			Msg("failed to execute query for loading cached records")
		return nil, fmt.Errorf("failed to query cached records: %w", err)
	}
	defer rows.Close()

	var records []models.Record

	for rows.Next() {
		var (
			record    models.Record
			rawFields []byte
		)

		if scanErr := rows.Scan(&record.ID, &rawFields, &record.UpdatedAt); scanErr != nil {
			log.Err(scanErr).
				Str("func", "cacheRepository.Load").
				Str("scope", scope.Key()).
				Msg("failed to scan cached record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}

		if err = json.Unmarshal(rawFields, &record.Fields); err != nil {
			log.Err(err).
				Str("func", "cacheRepository.Load").
				Str("id", record.ID).
				Msg("failed to decode cached record fields")
			return nil, fmt.Errorf("%w: %w", ErrDecodingPayload, err)
		}

		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}

// Replace installs a fully reconciled record set in one transaction: the
// previous snapshot is either replaced completely or kept untouched.
func (c *cacheRepository) Replace(ctx context.Context, scope models.Scope, records []models.Record) error {
	log := logger.FromContext(ctx)

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "cacheRepository.Replace").
			Str("scope", scope.Key()).
			Msg("failed to begin replace transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, deleteAllRecords, scope.Key()); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	for _, record := range records {
		rawFields, encErr := json.Marshal(record.Fields)
		if encErr != nil {
			return fmt.Errorf("%w: %w", ErrEncodingPayload, encErr)
		}

		if _, err = tx.ExecContext(ctx, upsertRecord, scope.Key(), record.ID, rawFields, record.UpdatedAt); err != nil {
			log.Err(err).
				Str("func", "cacheRepository.Replace").
				Str("scope", scope.Key()).
				Str("id", record.ID).
				Msg("failed to insert record during replace")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (c *cacheRepository) Upsert(ctx context.Context, scope models.Scope, record models.Record) error {
	log := logger.FromContext(ctx)

	rawFields, err := json.Marshal(record.Fields)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingPayload, err)
	}

	if _, err = c.DB.ExecContext(ctx, upsertRecord, scope.Key(), record.ID, rawFields, record.UpdatedAt); err != nil {
		log.Err(err).
			Str("func", "cacheRepository.Upsert").
			Str("scope", scope.Key()).
			Str("id", record.ID).
			Msg("failed to execute upsert for record")
		return fmt.Errorf("failed to upsert record (id=%s): %w", record.ID, err)
	}

	return nil
}

func (c *cacheRepository) Remove(ctx context.Context, scope models.Scope, id string) error {
	log := logger.FromContext(ctx)

	if _, err := c.DB.ExecContext(ctx, deleteRecord, scope.Key(), id); err != nil {
		log.Err(err).
			Str("func", "cacheRepository.Remove").
			Str("scope", scope.Key()).
			Str("id", id).
			Msg("failed to execute delete for record")
		return fmt.Errorf("failed to delete record (id=%s): %w", id, err)
	}

	return nil
}

func (c *cacheRepository) ReplaceID(ctx context.Context, scope models.Scope, oldID, newID string) error {
	log := logger.FromContext(ctx)

	res, err := c.DB.ExecContext(ctx, replaceRecordID, newID, scope.Key(), oldID)
	if err != nil {
		log.Err(err).
			Str("func", "cacheRepository.ReplaceID").
			Str("scope", scope.Key()).
			Str("old_id", oldID).
			Str("new_id", newID).
			Msg("failed to execute id replacement")
		return fmt.Errorf("failed to replace record id (%s -> %s): %w", oldID, newID, err)
	}

	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		return fmt.Errorf("%w: id=%s", ErrRecordNotFound, oldID)
	}

	return nil
}
