package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"issueTracking/internal/db"
	"issueTracking/models"
)

func TestTagRepository_CRUD(t *testing.T) {
	d, err := db.Open("file:tagrepo?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	repo := NewTagRepository(d)
	ctx := context.Background()

	tg, err := repo.Create(ctx, &models.Tag{Name: "bug", Description: "defect"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	tg.Description = "a defect"
	if err := repo.Update(ctx, tg); err != nil {
		t.Fatalf("update: %v", err)
	}
	g, err := repo.GetByID(ctx, tg.ID)
	if err != nil || g == nil || g.Description != "a defect" {
		t.Fatalf("get: %v %+v", err, g)
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
	if err := repo.Delete(ctx, tg.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, tg.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows on second delete, got %v", err)
	}
	gone, err := repo.GetByID(ctx, tg.ID)
	if err != nil || gone != nil {
		t.Fatalf("expected tag deleted, got %+v err=%v", gone, err)
	}
}
