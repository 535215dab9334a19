package repository

import (
	"context"
	"database/sql"

	"issueTracking/models"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	CreateWithBootstrapRole(ctx context.Context, username, passwordHash string) (*models.User, error)
	CreateBootstrapAdmin(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

// ProjectRepositoryI defines operations on Project entities.
type ProjectRepositoryI interface {
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, p *models.Project) error
	List(ctx context.Context) ([]models.Project, error)
}

// IssueRepositoryI defines operations on Issue entities and their tag set.
type IssueRepositoryI interface {
	Create(ctx context.Context, i *models.Issue) (*models.Issue, error)
	GetByID(ctx context.Context, id int64) (*models.Issue, error)
	Update(ctx context.Context, i *models.Issue) error
	UpdateStatus(ctx context.Context, id int64, status models.IssueStatus) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.Issue, error)
	Search(ctx context.Context, p SearchParams) ([]models.Issue, error)
	AddTag(ctx context.Context, issueID, tagID int64) error
	RemoveTag(ctx context.Context, issueID, tagID int64) (bool, error)
}

// TagRepositoryI defines operations on Tag entities.
type TagRepositoryI interface {
	Create(ctx context.Context, t *models.Tag) (*models.Tag, error)
	GetByID(ctx context.Context, id int64) (*models.Tag, error)
	Update(ctx context.Context, t *models.Tag) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.Tag, error)
}

// AuditRepositoryI appends and reads audit log entries.
type AuditRepositoryI interface {
	Append(ctx context.Context, e *models.AuditLog) (*models.AuditLog, error)
	List(ctx context.Context, limit, offset int) ([]models.AuditLog, error)
}

var (
	_ UserRepositoryI    = (*UserRepository)(nil)
	_ ProjectRepositoryI = (*ProjectRepository)(nil)
	_ IssueRepositoryI   = (*IssueRepository)(nil)
	_ TagRepositoryI     = (*TagRepository)(nil)
	_ AuditRepositoryI   = (*AuditRepository)(nil)
)
