package service

import (
	"context"
	"errors"
	"log/slog"

	"issueTracking/models"
	"issueTracking/repository"
)

// AuditRecorder appends one immutable entry per successful mutation.
type AuditRecorder struct {
	log *slog.Logger
}

func NewAuditRecorder(log *slog.Logger) *AuditRecorder {
	return &AuditRecorder{log: log}
}

// Record appends an entry through repo. The timestamp is taken by the repository at write time.
func (a *AuditRecorder) Record(ctx context.Context, repo *repository.AuditRepository, action, actor, details string) (*models.AuditLog, error) {
	if actor == "" {
		return nil, errors.New("audit: actor is required")
	}
	return repo.Append(ctx, &models.AuditLog{Action: action, Username: actor, Details: details})
}

// mutation is the body of an audited write. It must use the ctx it is given,
// and returns the audit action and details to record once the write succeeded.
type mutation func(ctx context.Context, tx *repository.Store) (action, details string, err error)

// runAudited executes fn and its audit append in one transaction, so a
// mutation is never committed without its entry. The transaction runs on a
// context detached from the caller's cancellation: once started, a write
// completes even if the client goes away.
func runAudited(ctx context.Context, store *repository.Store, rec *AuditRecorder, actor string, fn mutation) error {
	ctx = context.WithoutCancel(ctx)
	var entry *models.AuditLog
	err := store.InTx(ctx, func(tx *repository.Store) error {
		action, details, err := fn(ctx, tx)
		if err != nil {
			return err
		}
		entry, err = rec.Record(ctx, tx.Audit, action, actor, details)
		return err
	})
	if err != nil {
		return err
	}
	rec.log.Info("audit",
		"action", entry.Action,
		"actor", entry.Username,
		"details", entry.Details,
		"audit_id", entry.ID,
	)
	return nil
}

// AuditService exposes the audit trail for reading.
type AuditService struct {
	store *repository.Store
}

func NewAuditService(store *repository.Store) *AuditService {
	return &AuditService{store: store}
}

// List returns entries newest first.
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]models.AuditLog, error) {
	return s.store.Audit.List(ctx, limit, offset)
}
