package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Store bundles the repositories over one handle. A Store returned by InTx
// shares a single transaction across all of its repositories.
type Store struct {
	db *sql.DB

	Users    *UserRepository
	Projects *ProjectRepository
	Issues   *IssueRepository
	Tags     *TagRepository
	Audit    *AuditRepository
}

// NewStore builds repositories bound to the connection pool.
func NewStore(db *sql.DB) *Store {
	s := bind(db)
	s.db = db
	return s
}

func bind(h DBTX) *Store {
	return &Store{
		Users:    NewUserRepository(h),
		Projects: NewProjectRepository(h),
		Issues:   NewIssueRepository(h),
		Tags:     NewTagRepository(h),
		Audit:    NewAuditRepository(h),
	}
}

// InTx runs fn with a Store bound to a fresh transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) (err error) {
	if s.db == nil {
		return errors.New("store: InTx called on a transactional store")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(bind(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping checks that the underlying database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return errors.New("store: no database handle")
	}
	return s.db.PingContext(ctx)
}
