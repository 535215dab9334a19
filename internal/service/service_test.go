package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"issueTracking/internal/auth"
	"issueTracking/internal/testutil"
	"issueTracking/models"
	"issueTracking/repository"
)

const testSecret = "service-test-secret"

type fixture struct {
	store    *repository.Store
	auth     *AuthService
	issues   *IssueService
	tags     *TagService
	projects *ProjectService
	audit    *AuditService
	tokens   *auth.TokenIssuer
}

func newFixture(t *testing.T, opts ...AuthOption) *fixture {
	t.Helper()
	store := repository.NewStore(testutil.OpenInMemoryDB(t))
	log := testutil.DiscardLogger()
	tokens, err := auth.NewTokenIssuer(testSecret, 0)
	require.NoError(t, err)
	rec := NewAuditRecorder(log)
	return &fixture{
		store:    store,
		auth:     NewAuthService(store.Users, auth.NewCredentialStore(bcrypt.MinCost), tokens, log, opts...),
		issues:   NewIssueService(store, rec),
		tags:     NewTagService(store, rec),
		projects: NewProjectService(store, rec),
		audit:    NewAuditService(store),
		tokens:   tokens,
	}
}

func (f *fixture) auditCount(t *testing.T) int64 {
	t.Helper()
	n, err := f.store.Audit.Count(context.Background())
	require.NoError(t, err)
	return n
}

func (f *fixture) project(t *testing.T, name, assignee string) *models.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), "admin", ProjectInput{Name: name, Assignee: assignee})
	require.NoError(t, err)
	return p
}
