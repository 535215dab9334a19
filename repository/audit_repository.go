package repository

import (
	"context"
	"errors"
	"time"

	"issueTracking/models"
)

// AuditRepository appends audit entries. There is no update or delete; the
// schema rejects both with triggers.
type AuditRepository struct {
	db  DBTX
	now func() time.Time
}

func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db, now: time.Now}
}

// Append stores e with a UTC timestamp captured at write time. Any timestamp
// already set on e is overwritten.
func (r *AuditRepository) Append(ctx context.Context, e *models.AuditLog) (*models.AuditLog, error) {
	if e == nil {
		return nil, errors.New("audit entry is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ts := r.now().UTC()
	res, err := r.db.ExecContext(ctx, `INSERT INTO audit_logs (action, username, timestamp, details) VALUES (?,?,?,?)`,
		e.Action, e.Username, ts, e.Details)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *e
	out.ID = id
	out.Timestamp = ts
	return &out, nil
}

// List returns entries newest first.
func (r *AuditRepository) List(ctx context.Context, limit, offset int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id, action, username, timestamp, details FROM audit_logs ORDER BY id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.AuditLog{}
	for rows.Next() {
		var e models.AuditLog
		if err := rows.Scan(&e.ID, &e.Action, &e.Username, &e.Timestamp, &e.Details); err != nil {
			return nil, err
		}
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of audit entries.
func (r *AuditRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&n)
	return n, err
}
