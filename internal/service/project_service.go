package service

import (
	"context"
	"fmt"
	"strings"

	"issueTracking/models"
	"issueTracking/repository"
)

// ProjectInput is the caller-supplied project fields.
type ProjectInput struct {
	Name        string
	Description string
	Assignee    string
}

// ProjectService runs project CRUD. Projects cannot be deleted.
type ProjectService struct {
	store *repository.Store
	audit *AuditRecorder
}

func NewProjectService(store *repository.Store, audit *AuditRecorder) *ProjectService {
	return &ProjectService{store: store, audit: audit}
}

func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	return s.store.Projects.List(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id int64) (*models.Project, error) {
	p, err := s.store.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if p == nil {
		return nil, newError(ErrNotFound, "Project %d not found", id)
	}
	return p, nil
}

func (s *ProjectService) Create(ctx context.Context, actor string, in ProjectInput) (*models.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, newError(ErrInvalidInput, "Name is required")
	}
	var out *models.Project
	err := runAudited(ctx, s.store, s.audit, actor, func(ctx context.Context, tx *repository.Store) (string, string, error) {
		p, err := tx.Projects.Create(ctx, &models.Project{Name: in.Name, Description: in.Description, Assignee: in.Assignee})
		if err != nil {
			return "", "", fmt.Errorf("create project: %w", err)
		}
		out = p
		return models.AuditCreateProject, fmt.Sprintf("Project %d created", p.ID), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProjectService) Update(ctx context.Context, actor string, id int64, in ProjectInput) (*models.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, newError(ErrInvalidInput, "Name is required")
	}
	out := &models.Project{ID: id, Name: in.Name, Description: in.Description, Assignee: in.Assignee}
	err := runAudited(ctx, s.store, s.audit, actor, func(ctx context.Context, tx *repository.Store) (string, string, error) {
		ok, err := tx.Projects.Exists(ctx, id)
		if err != nil {
			return "", "", fmt.Errorf("check project: %w", err)
		}
		if !ok {
			return "", "", newError(ErrNotFound, "Project %d not found", id)
		}
		if err := tx.Projects.Update(ctx, out); err != nil {
			return "", "", fmt.Errorf("update project: %w", err)
		}
		return models.AuditUpdateProject, fmt.Sprintf("Project %d updated", id), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
