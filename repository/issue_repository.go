package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"issueTracking/models"
)

// IssueRepository is the core repository for Issue entities.
// It handles basic CRUD, status updates and the issue_tags join relation.
// Existence checks on referenced projects and tags belong to the caller.
type IssueRepository struct {
	db DBTX
}

// NewIssueRepository creates a new IssueRepository.
func NewIssueRepository(db DBTX) *IssueRepository {
	return &IssueRepository{db: db}
}

// Create inserts a new issue. Status defaults to Open if empty.
func (r *IssueRepository) Create(ctx context.Context, i *models.Issue) (*models.Issue, error) {
	if i == nil {
		return nil, errors.New("issue is nil")
	}
	if i.Status == "" {
		i.Status = models.IssueStatusOpen
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO issues (title, description, status, project_id) VALUES (?,?,?,?)`,
		i.Title, i.Description, string(i.Status), i.ProjectID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("created issue not found: id=%d", id)
	}
	return out, nil
}

// GetByID fetches an issue with its project and tag set.
func (r *IssueRepository) GetByID(ctx context.Context, id int64) (*models.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, issueSelect+` WHERE i.id = ?`, id)
	if err != nil {
		return nil, err
	}
	list, err := scanIssueRows(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	if err := r.loadTags(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// List returns all issues ordered by id.
func (r *IssueRepository) List(ctx context.Context) ([]models.Issue, error) {
	return r.Search(ctx, SearchParams{})
}

// Update replaces title, description, status and project. Returns
// sql.ErrNoRows if the issue does not exist.
func (r *IssueRepository) Update(ctx context.Context, i *models.Issue) error {
	if i == nil {
		return errors.New("issue is nil")
	}
	if i.Status == "" {
		i.Status = models.IssueStatusOpen
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE issues SET title = ?, description = ?, status = ?, project_id = ? WHERE id = ?`,
		i.Title, i.Description, string(i.Status), i.ProjectID, i.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatus updates the status of an issue. Any status may replace any other.
func (r *IssueRepository) UpdateStatus(ctx context.Context, id int64, status models.IssueStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE issues SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an issue row. Tag associations go with it via ON DELETE CASCADE.
func (r *IssueRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM issues WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AddTag associates a tag with an issue. Returns ErrTagAlreadyAttached if
// the pair already exists.
func (r *IssueRepository) AddTag(ctx context.Context, issueID, tagID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `INSERT INTO issue_tags (issue_id, tag_id) VALUES (?, ?)`, issueID, tagID)
	if isUniqueViolation(err, "issue_tags") {
		return ErrTagAlreadyAttached
	}
	return err
}

// RemoveTag detaches a tag from an issue and reports whether it was attached.
func (r *IssueRepository) RemoveTag(ctx context.Context, issueID, tagID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM issue_tags WHERE issue_id = ? AND tag_id = ?`, issueID, tagID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ErrTagAlreadyAttached is returned by AddTag for a duplicate association.
var ErrTagAlreadyAttached = errors.New("tag already attached to issue")
