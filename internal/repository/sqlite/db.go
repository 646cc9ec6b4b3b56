// Package sqlite contains SQLite implementations of repository interfaces built on sqlx.
package sqlite

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/and161185/streamish/internal/migrate"
)

// DB wraps a single-connection sqlx handle.
type DB struct{ X *sqlx.DB }

// Open opens the database file at path (":memory:" for a private in-memory database)
// with foreign keys enforced. One connection keeps writes serialised and in-memory data alive.
func Open(ctx context.Context, path string) (*DB, error) {
	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&_foreign_keys=on"
	} else {
		dsn += "?_foreign_keys=on"
	}
	x, err := sqlx.ConnectContext(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	x.SetMaxOpenConns(1)
	x.SetConnMaxLifetime(0)
	return &DB{X: x}, nil
}

// Migrate applies the embedded SQLite schema.
func (db *DB) Migrate(ctx context.Context) error {
	return migrate.Apply(ctx, db.X.DB, migrate.DialectSQLite)
}

// Ping reports whether the database is reachable.
func (db *DB) Ping(ctx context.Context) error { return db.X.PingContext(ctx) }

// Close closes the underlying handle.
func (db *DB) Close() error { return db.X.Close() }
