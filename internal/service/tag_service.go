package service

import (
	"context"
	"fmt"
	"strings"

	"issueTracking/models"
	"issueTracking/repository"
)

// TagInput is the caller-supplied tag fields.
type TagInput struct {
	Name        string
	Description string
}

// TagService runs tag CRUD. Writes are audited.
type TagService struct {
	store *repository.Store
	audit *AuditRecorder
}

func NewTagService(store *repository.Store, audit *AuditRecorder) *TagService {
	return &TagService{store: store, audit: audit}
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	return s.store.Tags.List(ctx)
}

func (s *TagService) Get(ctx context.Context, id int64) (*models.Tag, error) {
	t, err := s.store.Tags.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	if t == nil {
		return nil, newError(ErrNotFound, "Tag %d not found", id)
	}
	return t, nil
}

func (s *TagService) Create(ctx context.Context, actor string, in TagInput) (*models.Tag, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, newError(ErrInvalidInput, "Name is required")
	}
	var out *models.Tag
	err := runAudited(ctx, s.store, s.audit, actor, func(ctx context.Context, tx *repository.Store) (string, string, error) {
		t, err := tx.Tags.Create(ctx, &models.Tag{Name: name, Description: in.Description})
		if err != nil {
			return "", "", fmt.Errorf("create tag: %w", err)
		}
		out = t
		return models.AuditCreateTag, fmt.Sprintf("Tag %d created", t.ID), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TagService) Update(ctx context.Context, actor string, id int64, in TagInput) (*models.Tag, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, newError(ErrInvalidInput, "Name is required")
	}
	out := &models.Tag{ID: id, Name: name, Description: in.Description}
	err := runAudited(ctx, s.store, s.audit, actor, func(ctx context.Context, tx *repository.Store) (string, string, error) {
		existing, err := tx.Tags.GetByID(ctx, id)
		if err != nil {
			return "", "", fmt.Errorf("get tag: %w", err)
		}
		if existing == nil {
			return "", "", newError(ErrNotFound, "Tag %d not found", id)
		}
		if err := tx.Tags.Update(ctx, out); err != nil {
			return "", "", fmt.Errorf("update tag: %w", err)
		}
		return models.AuditUpdateTag, fmt.Sprintf("Tag %d updated", id), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a tag and, through the store, its issue associations.
func (s *TagService) Delete(ctx context.Context, actor string, id int64) error {
	return runAudited(ctx, s.store, s.audit, actor, func(ctx context.Context, tx *repository.Store) (string, string, error) {
		existing, err := tx.Tags.GetByID(ctx, id)
		if err != nil {
			return "", "", fmt.Errorf("get tag: %w", err)
		}
		if existing == nil {
			return "", "", newError(ErrNotFound, "Tag %d not found", id)
		}
		if err := tx.Tags.Delete(ctx, id); err != nil {
			return "", "", fmt.Errorf("delete tag: %w", err)
		}
		return models.AuditDeleteTag, fmt.Sprintf("Tag %d deleted", id), nil
	})
}
