package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"issueTracking/models"
	"issueTracking/repository"
)

// IssueInput is the full set of caller-supplied issue fields.
type IssueInput struct {
	Title       string
	Description string
	Status      models.IssueStatus
	ProjectID   int64
}

func (in *IssueInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return newError(ErrInvalidInput, "Title is required")
	}
	if in.Status == "" {
		in.Status = models.IssueStatusOpen
	}
	if !in.Status.Valid() {
		return newError(ErrInvalidInput, "Invalid status %q", in.Status)
	}
	return nil
}

// IssueService runs the issue lifecycle. Every successful mutation appends
// exactly one audit entry in the same transaction. Preconditions are checked
// in order and the first failure aborts before any write.
type IssueService struct {
	store *repository.Store
	audit *AuditRecorder
}

func NewIssueService(store *repository.Store, audit *AuditRecorder) *IssueService {
	return &IssueService{store: store, audit: audit}
}

// List returns every issue with its project and tags.
func (s *IssueService) List(ctx context.Context) ([]models.Issue, error) {
	return s.store.Issues.List(ctx)
}

// Get returns one issue or ErrNotFound.
func (s *IssueService) Get(ctx context.Context, id int64) (*models.Issue, error) {
	i, err := s.store.Issues.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get issue: %w", err)
	}
	if i == nil {
		return nil, issueNotFound(id)
	}
	return i, nil
}

// Search applies the present filters conjunctively. No filters returns all issues.
func (s *IssueService) Search(ctx context.Context, p repository.SearchParams) ([]models.Issue, error) {
	return s.store.Issues.Search(ctx, p)
}

// Create inserts an issue under an existing project.
func (s *IssueService) Create(ctx context.Context, actor string, in IssueInput) (*models.Issue, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	var out *models.Issue
	err := runAudited(ctx, s.store, s.audit, actor, func(ctx context.Context, tx *repository.Store) (string, string, error) {
		if err := requireProject(ctx, tx, in.ProjectID); err != nil {
			return "", "", err
		}
		created, err := tx.Issues.Create(ctx, &models.Issue{
			Title:       in.Title,
			Description: in.Description,
			Status:      in.Status,
			ProjectID:   in.ProjectID,
		})
		if err != nil {
			return "", "", fmt.Errorf("create issue: %w", err)
		}
		out = created
		return models.AuditCreateIssue, fmt.Sprintf("Issue %d created", created.ID), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces title, description, status and project of an issue.
func (s *IssueService) Update(ctx context.Context, actor string, id int64, in IssueInput) (*models.Issue, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	var out *models.Issue
	err := runAudited(ctx, s.store, s.audit, actor, func(ctx context.Context, tx *repository.Store) (string, string, error) {
		if _, err := requireIssue(ctx, tx, id); err != nil {
			return "", "", err
		}
		if err := requireProject(ctx, tx, in.ProjectID); err != nil {
			return "", "", err
		}
		err := tx.Issues.Update(ctx, &models.Issue{
			ID:          id,
			Title:       in.Title,
			Description: in.Description,
			Status:      in.Status,
			ProjectID:   in.ProjectID,
		})
		if err != nil {
			return "", "", fmt.Errorf("update issue: %w", err)
		}
		if out, err = requireIssue(ctx, tx, id); err != nil {
			return "", "", err
		}
		return models.AuditUpdateIssue, fmt.Sprintf("Issue %d updated", id), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus sets the status only. Any status may follow any other.
func (s *IssueService) UpdateStatus(ctx context.Context, actor string, id int64, status models.IssueStatus) (*models.Issue, error) {
	if !status.Valid() {
		return nil, newError(ErrInvalidInput, "Invalid status %q", status)
	}
	var out *models.Issue
	err := runAudited(ctx, s.store, s.audit, actor, func(ctx context.Context, tx *repository.Store) (string, string, error) {
		if _, err := requireIssue(ctx, tx, id); err != nil {
			return "", "", err
		}
		if err := tx.Issues.UpdateStatus(ctx, id, status); err != nil {
			return "", "", fmt.Errorf("update issue status: %w", err)
		}
		var err error
		if out, err = requireIssue(ctx, tx, id); err != nil {
			return "", "", err
		}
		return models.AuditUpdateIssueStatus, fmt.Sprintf("Issue %d status updated to %s", id, status), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an issue. Its tag associations are dropped by the store.
func (s *IssueService) Delete(ctx context.Context, actor string, id int64) error {
	return runAudited(ctx, s.store, s.audit, actor, func(ctx context.Context, tx *repository.Store) (string, string, error) {
		if _, err := requireIssue(ctx, tx, id); err != nil {
			return "", "", err
		}
		if err := tx.Issues.Delete(ctx, id); err != nil {
			return "", "", fmt.Errorf("delete issue: %w", err)
		}
		return models.AuditDeleteIssue, fmt.Sprintf("Issue %d deleted", id), nil
	})
}

// AddTag attaches an existing tag. A missing tag or a tag already on the
// issue is rejected.
func (s *IssueService) AddTag(ctx context.Context, actor string, issueID, tagID int64) (*models.Issue, error) {
	var out *models.Issue
	err := runAudited(ctx, s.store, s.audit, actor, func(ctx context.Context, tx *repository.Store) (string, string, error) {
		if _, err := requireIssue(ctx, tx, issueID); err != nil {
			return "", "", err
		}
		tag, err := tx.Tags.GetByID(ctx, tagID)
		if err != nil {
			return "", "", fmt.Errorf("get tag: %w", err)
		}
		if tag == nil {
			return "", "", newError(ErrInvalidReference, "Tag not found")
		}
		if err := tx.Issues.AddTag(ctx, issueID, tagID); err != nil {
			if errors.Is(err, repository.ErrTagAlreadyAttached) {
				return "", "", newError(ErrInvalidInput, "Tag already on issue")
			}
			return "", "", fmt.Errorf("add tag: %w", err)
		}
		if out, err = requireIssue(ctx, tx, issueID); err != nil {
			return "", "", err
		}
		return models.AuditAddTag, fmt.Sprintf("Tag %d added to Issue %d", tagID, issueID), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveTag detaches a tag. Removing a tag that is not on the issue is an
// error, not a no-op.
func (s *IssueService) RemoveTag(ctx context.Context, actor string, issueID, tagID int64) (*models.Issue, error) {
	var out *models.Issue
	err := runAudited(ctx, s.store, s.audit, actor, func(ctx context.Context, tx *repository.Store) (string, string, error) {
		if _, err := requireIssue(ctx, tx, issueID); err != nil {
			return "", "", err
		}
		removed, err := tx.Issues.RemoveTag(ctx, issueID, tagID)
		if err != nil {
			return "", "", fmt.Errorf("remove tag: %w", err)
		}
		if !removed {
			return "", "", newError(ErrInvalidReference, "Tag not found on issue")
		}
		if out, err = requireIssue(ctx, tx, issueID); err != nil {
			return "", "", err
		}
		return models.AuditRemoveTag, fmt.Sprintf("Tag %d removed from Issue %d", tagID, issueID), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func requireIssue(ctx context.Context, tx *repository.Store, id int64) (*models.Issue, error) {
	i, err := tx.Issues.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get issue: %w", err)
	}
	if i == nil {
		return nil, issueNotFound(id)
	}
	return i, nil
}

func requireProject(ctx context.Context, tx *repository.Store, id int64) error {
	ok, err := tx.Projects.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check project: %w", err)
	}
	if !ok {
		return newError(ErrInvalidReference, "Project not found")
	}
	return nil
}

func issueNotFound(id int64) error {
	return newError(ErrNotFound, "Issue %d not found", id)
}
