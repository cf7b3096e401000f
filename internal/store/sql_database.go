package store

import (
	"database/sql"

	"github.com/jdbravo/vencsync/internal/logger"
	"github.com/jdbravo/vencsync/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
