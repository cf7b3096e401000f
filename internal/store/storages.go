package store

import (
	"context"
	"fmt"

	"github.com/jdbravo/vencsync/internal/config"
	"github.com/jdbravo/vencsync/internal/logger"
)

// Storages groups the local persistence repositories into a single value
// that can be passed around the service layer.
type Storages struct {
	// Cache is the SQLite-backed snapshot of the record set per scope.
	Cache CacheRepository

	// Outbox is the SQLite-backed queue of pending remote mutations.
	Outbox OutboxRepository
}

// NewStorages initialises the local storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs and returns a [Storages] value wired to fresh cache and
//     outbox repositories.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewStorages(cfg config.AgentStorage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		Cache:  NewCacheRepository(db, logger),
		Outbox: NewOutboxRepository(db, logger),
	}, nil
}
