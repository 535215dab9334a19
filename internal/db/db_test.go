package db

import (
	"path/filepath"
	"testing"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	d, err := Open("file:dbtest_open?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	v, err := CurrentVersion(d)
	if err != nil {
		t.Fatalf("current version: %v", err)
	}
	if v != 1 {
		t.Fatalf("expected version 1, got %d", v)
	}
	for _, table := range []string{"users", "projects", "issues", "tags", "issue_tags", "audit_logs"} {
		var name string
		if err := d.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestOpen_ForeignKeysEnforced(t *testing.T) {
	d, err := Open("file:dbtest_fk?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if _, err := d.Exec(`INSERT INTO issues (title, status, project_id) VALUES ('t', 'Open', 999)`); err == nil {
		t.Fatalf("expected foreign key violation for missing project")
	}
}

func TestAuditLogsAppendOnly(t *testing.T) {
	d, err := Open("file:dbtest_audit?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if _, err := d.Exec(`INSERT INTO audit_logs (action, username, timestamp, details) VALUES ('a', 'u', CURRENT_TIMESTAMP, 'd')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := d.Exec(`UPDATE audit_logs SET details = 'x'`); err == nil {
		t.Fatalf("expected update to be rejected")
	}
	if _, err := d.Exec(`DELETE FROM audit_logs`); err == nil {
		t.Fatalf("expected delete to be rejected")
	}
}

func TestRollbackLast_ThenReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollback.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := RollbackLast(d); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if v, _ := CurrentVersion(d); v != 0 {
		t.Fatalf("expected version 0 after rollback, got %d", v)
	}
	_ = d.Close()

	d, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer d.Close()
	if v, _ := CurrentVersion(d); v != 1 {
		t.Fatalf("expected migrations re-applied, got version %d", v)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	d, err := Open("file:dbtest_idem?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := Migrate(d); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("expected one bookkeeping row, got %d (%v)", n, err)
	}
}

func TestDSN(t *testing.T) {
	cases := map[string]string{
		"app.db":                          "file:app.db?" + connParams,
		"file:x.db":                       "file:x.db?" + connParams,
		"file:m?mode=memory&cache=shared": "file:m?mode=memory&cache=shared&" + connParams,
	}
	for in, want := range cases {
		if got := dsn(in); got != want {
			t.Fatalf("dsn(%q) = %q, want %q", in, got, want)
		}
	}
}
