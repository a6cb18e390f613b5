// Package sqlite implements the identity store on SQLite, the default
// single-node database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/Ken19931113/debook/internal/observability"
	"github.com/Ken19931113/debook/internal/storage"
	"github.com/Ken19931113/debook/internal/storage/migrations"
)

// Open opens (creating if needed) the database file at path and applies the schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func isDuplicateKeyError(err error) bool {
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqlErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// track records query duration; call the result with the named error on return.
func track(operation string) func(*error) {
	start := time.Now()
	return func(errp *error) {
		err := *errp
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, storage.ErrNotFound) {
			err = nil
		}
		observability.RecordDBQuery("sqlite", operation, time.Since(start).Seconds(), err)
	}
}
