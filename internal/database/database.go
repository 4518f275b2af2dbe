package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"healia/clinic/internal/migrations"
)

// Connect opens the embedded SQLite database using the provided DSN.
// A single connection serializes every store operation.
func Connect(dsn string) *sqlx.DB {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(1)
	return db
}

// Reset destroys every collection and recreates the schema. It is
// all-or-nothing: there is no selective per-collection reset.
func Reset(db *sqlx.DB) error {
	tables := migrations.Tables()
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.Exec(`DROP TABLE IF EXISTS ` + tables[i]); err != nil {
			return fmt.Errorf("reset: drop %s: %w", tables[i], err)
		}
	}
	migrations.Run(db)
	return nil
}
