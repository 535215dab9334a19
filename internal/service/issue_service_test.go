package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issueTracking/models"
	"issueTracking/repository"
)

func TestIssueService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "Core", "carol")
	base := f.auditCount(t)

	created, err := f.issues.Create(ctx, "alice", IssueInput{Title: "Login fails", Description: "500", ProjectID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, models.IssueStatusOpen, created.Status)
	require.NotNil(t, created.Project)
	assert.Equal(t, "carol", created.Project.Assignee)
	assert.Empty(t, created.Tags)

	got, err := f.issues.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Description, got.Description)

	updated, err := f.issues.Update(ctx, "alice", created.ID, IssueInput{Title: "Login broken", Status: models.IssueStatusInProgress, ProjectID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, "Login broken", updated.Title)
	assert.Equal(t, models.IssueStatusInProgress, updated.Status)

	for _, st := range []models.IssueStatus{models.IssueStatusResolved, models.IssueStatusOpen, models.IssueStatusResolved} {
		out, err := f.issues.UpdateStatus(ctx, "bob", created.ID, st)
		require.NoError(t, err)
		assert.Equal(t, st, out.Status)
	}

	require.NoError(t, f.issues.Delete(ctx, "alice", created.ID))
	_, err = f.issues.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// create, update, three status changes, delete.
	assert.Equal(t, base+6, f.auditCount(t))

	entries, err := f.audit.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, models.AuditDeleteIssue, entries[0].Action)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, models.AuditUpdateIssueStatus, entries[1].Action)
	assert.Equal(t, "bob", entries[1].Username)
}

func TestIssueService_CreateWithMissingProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := f.auditCount(t)

	_, err := f.issues.Create(ctx, "alice", IssueInput{Title: "x", ProjectID: 999})
	require.ErrorIs(t, err, ErrInvalidReference)
	msg, _ := Message(err)
	assert.Equal(t, "Project not found", msg)

	list, err := f.issues.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, base, f.auditCount(t))
}

func TestIssueService_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "Core", "")

	_, err := f.issues.Create(ctx, "alice", IssueInput{Title: " ", ProjectID: p.ID})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.issues.Create(ctx, "alice", IssueInput{Title: "x", Status: "Closed", ProjectID: p.ID})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.issues.UpdateStatus(ctx, "alice", 1, "Closed")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestIssueService_MissingIssue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "Core", "")
	base := f.auditCount(t)

	_, err := f.issues.Update(ctx, "alice", 42, IssueInput{Title: "x", ProjectID: p.ID})
	require.ErrorIs(t, err, ErrNotFound)
	_, err = f.issues.UpdateStatus(ctx, "alice", 42, models.IssueStatusResolved)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, f.issues.Delete(ctx, "alice", 42), ErrNotFound)
	_, err = f.issues.AddTag(ctx, "alice", 42, 1)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = f.issues.RemoveTag(ctx, "alice", 42, 1)
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, base, f.auditCount(t))
}

func TestIssueService_UpdateChecksIssueBeforeProject(t *testing.T) {
	f := newFixture(t)
	_, err := f.issues.Update(context.Background(), "alice", 42, IssueInput{Title: "x", ProjectID: 999})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIssueService_Tags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "Core", "")
	iss, err := f.issues.Create(ctx, "alice", IssueInput{Title: "x", ProjectID: p.ID})
	require.NoError(t, err)
	bug, err := f.tags.Create(ctx, "admin", TagInput{Name: "bug"})
	require.NoError(t, err)
	ui, err := f.tags.Create(ctx, "admin", TagInput{Name: "ui"})
	require.NoError(t, err)

	out, err := f.issues.AddTag(ctx, "alice", iss.ID, bug.ID)
	require.NoError(t, err)
	require.Len(t, out.Tags, 1)
	assert.Equal(t, "bug", out.Tags[0].Name)

	base := f.auditCount(t)
	_, err = f.issues.AddTag(ctx, "alice", iss.ID, bug.ID)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.issues.AddTag(ctx, "alice", iss.ID, 999)
	require.ErrorIs(t, err, ErrInvalidReference)

	_, err = f.issues.RemoveTag(ctx, "alice", iss.ID, ui.ID)
	require.ErrorIs(t, err, ErrInvalidReference)
	got, err := f.issues.Get(ctx, iss.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, bug.ID, got.Tags[0].ID)
	assert.Equal(t, base, f.auditCount(t))

	out, err = f.issues.RemoveTag(ctx, "alice", iss.ID, bug.ID)
	require.NoError(t, err)
	assert.Empty(t, out.Tags)
	assert.Equal(t, base+1, f.auditCount(t))

	entries, err := f.audit.List(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, models.AuditRemoveTag, entries[0].Action)
}

func TestIssueService_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "Core", "carol")

	open, err := f.issues.Create(ctx, "alice", IssueInput{Title: "a", ProjectID: p.ID})
	require.NoError(t, err)
	done, err := f.issues.Create(ctx, "alice", IssueInput{Title: "b", Status: models.IssueStatusResolved, ProjectID: p.ID})
	require.NoError(t, err)

	resolved := models.IssueStatusResolved
	list, err := f.issues.Search(ctx, repository.SearchParams{Status: &resolved})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, done.ID, list[0].ID)

	all, err := f.issues.Search(ctx, repository.SearchParams{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, open.ID, all[0].ID)
}

func TestIssueService_CanceledCallerStillCommits(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, "Core", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	iss, err := f.issues.Create(ctx, "alice", IssueInput{Title: "x", ProjectID: p.ID})
	require.NoError(t, err)
	got, err := f.issues.Get(context.Background(), iss.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Title)
}
