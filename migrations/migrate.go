// Package migrations embeds the SQL schema for the local cache and outbox
// tables and applies it with goose.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var schema embed.FS

// Migrate brings db up to the latest embedded schema version. Safe to run
// on every startup; goose tracks applied versions in its own table.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(schema)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set sqlite dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("apply schema migrations: %w", err)
	}

	return nil
}
