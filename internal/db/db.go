// Package db opens the SQLite store and keeps its schema current.
package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// connParams go through the DSN so that every pooled connection enforces
// foreign keys and waits on locks, not only the first one.
const connParams = "_foreign_keys=on&_busy_timeout=5000"

// Open opens (or creates) the database at path and applies pending migrations.
// The pool holds a single connection: SQLite admits one writer at a time, and
// queueing in the pool is preferable to SQLITE_BUSY errors under load.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		path = "app.db"
	}
	d, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	d.SetMaxOpenConns(1)
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	// In-memory databases reject WAL; that is fine.
	_, _ = d.Exec(`PRAGMA journal_mode=WAL`)
	if err := Migrate(d); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

func dsn(path string) string {
	switch {
	case strings.Contains(path, "?"):
		return path + "&" + connParams
	case strings.HasPrefix(path, "file:"):
		return path + "?" + connParams
	default:
		return "file:" + path + "?" + connParams
	}
}
