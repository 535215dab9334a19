package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
)

// Migrations are embedded pairs named NNNN_name.up.sql / NNNN_name.down.sql.
//
//go:embed migrations/*.sql
var migrationFiles embed.FS

var migrationName = regexp.MustCompile(`^(\d{4})_(.+)\.(up|down)\.sql$`)

type migration struct {
	version int
	name    string
	up      string
	down    string
}

// migrations returns the embedded scripts in ascending version order.
func migrations() ([]migration, error) {
	files, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	byVersion := map[int]*migration{}
	for _, f := range files {
		parts := migrationName.FindStringSubmatch(f.Name())
		if parts == nil {
			continue
		}
		v, _ := strconv.Atoi(parts[1])
		body, err := migrationFiles.ReadFile("migrations/" + f.Name())
		if err != nil {
			return nil, err
		}
		m := byVersion[v]
		if m == nil {
			m = &migration{version: v, name: parts[2]}
			byVersion[v] = m
		}
		if parts[3] == "up" {
			m.up = string(body)
		} else {
			m.down = string(body)
		}
	}
	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.up == "" {
			return nil, fmt.Errorf("migration %04d_%s has no up script", m.version, m.name)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	applied_at TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
)`

// Migrate applies every migration newer than the current version, each in
// its own transaction.
func Migrate(d *sql.DB) error {
	current, err := CurrentVersion(d)
	if err != nil {
		return err
	}
	all, err := migrations()
	if err != nil {
		return err
	}
	for _, m := range all {
		if m.version <= current {
			continue
		}
		err := inTx(d, m.up, `INSERT INTO schema_migrations (version) VALUES (?)`, m.version)
		if err != nil {
			return fmt.Errorf("apply migration %04d_%s: %w", m.version, m.name, err)
		}
	}
	return nil
}

// RollbackLast reverts the most recently applied migration. It is a no-op on
// an empty database.
func RollbackLast(d *sql.DB) error {
	if d == nil {
		return errors.New("nil db")
	}
	current, err := CurrentVersion(d)
	if err != nil || current == 0 {
		return err
	}
	all, err := migrations()
	if err != nil {
		return err
	}
	for _, m := range all {
		if m.version != current {
			continue
		}
		if m.down == "" {
			return fmt.Errorf("migration %04d_%s has no down script", m.version, m.name)
		}
		return inTx(d, m.down, `DELETE FROM schema_migrations WHERE version = ?`, m.version)
	}
	return fmt.Errorf("applied version %d is not embedded", current)
}

// CurrentVersion returns the highest applied migration version, or 0.
func CurrentVersion(d *sql.DB) (int, error) {
	if _, err := d.Exec(createVersionTable); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}
	var v sql.NullInt64
	if err := d.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, err
	}
	return int(v.Int64), nil
}

// inTx runs a migration script and its version bookkeeping atomically.
func inTx(d *sql.DB, script, bookkeeping string, version int) error {
	tx, err := d.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(bookkeeping, version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
