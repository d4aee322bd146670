package access_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/waypoint/internal/domain/access"
	"github.com/rpggio/waypoint/internal/domain/project"
	"github.com/rpggio/waypoint/internal/domain/share"
	"github.com/rpggio/waypoint/internal/repository"
	"github.com/rpggio/waypoint/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	proj     = &project.Project{ID: "p1", OwnerID: "u-owner", Name: "Launch"}
	tokenVal = strings.Repeat("ab", 32)
)

type fixture struct {
	projects  *mocks.ProjectRepository
	shares    *mocks.ShareRepository
	tokens    *mocks.TokenRepository
	snapshots *mocks.SnapshotLoader
	resolver  *access.Resolver
	facade    *access.Facade
}

func newFixture() *fixture {
	f := &fixture{
		projects:  &mocks.ProjectRepository{},
		shares:    &mocks.ShareRepository{},
		tokens:    &mocks.TokenRepository{},
		snapshots: &mocks.SnapshotLoader{},
	}
	f.resolver = access.NewResolver(f.projects, f.shares, f.tokens, nil)
	registry := share.NewRegistry(f.shares, f.tokens, nil, f.projects, f.snapshots, nil)
	f.facade = access.NewFacade(f.resolver, f.snapshots, registry, nil)
	return f
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)
	otherToken := strings.Repeat("cd", 32)
	expiredToken := strings.Repeat("ef", 32)
	unknownToken := strings.Repeat("01", 32)

	f := newFixture()
	f.projects.On("Get", ctx, "p1").Return(proj, nil)
	f.projects.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)
	f.shares.On("GetByProjectAndUser", ctx, "p1", "u-reader").Return(&share.Share{Permission: share.PermissionRead}, nil)
	f.shares.On("GetByProjectAndUser", ctx, "p1", "u-writer").Return(&share.Share{Permission: share.PermissionReadWrite}, nil)
	f.shares.On("GetByProjectAndUser", ctx, "p1", "u-stranger").Return(nil, repository.ErrNotFound)
	f.tokens.On("GetByToken", ctx, tokenVal).Return(&share.Token{ProjectID: "p1", Token: tokenVal}, nil)
	f.tokens.On("GetByToken", ctx, otherToken).Return(&share.Token{ProjectID: "p2", Token: otherToken}, nil)
	f.tokens.On("GetByToken", ctx, expiredToken).Return(&share.Token{ProjectID: "p1", Token: expiredToken, ExpiresAt: &past}, nil)
	f.tokens.On("GetByToken", ctx, unknownToken).Return(nil, repository.ErrNotFound)

	tests := []struct {
		name      string
		projectID string
		principal access.Principal
		want      access.Verdict
	}{
		{"missing project", "missing", access.UserPrincipal("u-owner"), access.NotFound},
		{"owner", "p1", access.UserPrincipal("u-owner"), access.Owner},
		{"read grant", "p1", access.UserPrincipal("u-reader"), access.Read},
		{"readwrite grant", "p1", access.UserPrincipal("u-writer"), access.ReadWrite},
		{"no grant", "p1", access.UserPrincipal("u-stranger"), access.Forbidden},
		{"valid token", "p1", access.TokenPrincipal(tokenVal), access.Read},
		{"token of another project", "p1", access.TokenPrincipal(otherToken), access.Forbidden},
		{"expired token", "p1", access.TokenPrincipal(expiredToken), access.Forbidden},
		{"unknown token", "p1", access.TokenPrincipal(unknownToken), access.Forbidden},
		{"malformed token", "p1", access.TokenPrincipal("nope"), access.Forbidden},
		{"anonymous", "p1", access.Principal{}, access.Forbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.resolver.Resolve(ctx, tt.projectID, tt.principal)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
	f.tokens.AssertNotCalled(t, "GetByToken", ctx, "nope")
}

func TestResolve_OwnerWinsOverStrayShare(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.projects.On("Get", ctx, "p1").Return(proj, nil)
	f.shares.On("GetByProjectAndUser", ctx, "p1", "u-owner").Return(&share.Share{Permission: share.PermissionRead}, nil)

	got, err := f.resolver.Resolve(ctx, "p1", access.UserPrincipal("u-owner"))
	require.NoError(t, err)
	require.Equal(t, access.Owner, got)
	f.shares.AssertNotCalled(t, "GetByProjectAndUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_StoreFailureIsNotAVerdict(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.projects.On("Get", ctx, "p1").Return(proj, nil)
	f.shares.On("GetByProjectAndUser", ctx, "p1", "u-reader").Return(nil, errors.New("database is locked"))

	_, err := f.resolver.Resolve(ctx, "p1", access.UserPrincipal("u-reader"))
	var storeErr *repository.StoreError
	require.ErrorAs(t, err, &storeErr)
	require.NotErrorIs(t, err, access.ErrDenied)
}

func TestVerdictPredicates(t *testing.T) {
	for _, v := range []access.Verdict{access.NotFound, access.Forbidden, access.Read, access.ReadWrite, access.Owner} {
		require.Equal(t, v == access.ReadWrite || v == access.Owner, v.AllowsWrite(), v.String())
		require.Equal(t, v >= access.Read, v.AllowsRead(), v.String())
		require.Equal(t, v == access.Owner, v.IsOwner(), v.String())
	}
	require.Equal(t, "readwrite", access.ReadWrite.String())
}

func TestAuthorizeWrite_ReadShareIsForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.projects.On("Get", ctx, "p1").Return(proj, nil)
	f.shares.On("GetByProjectAndUser", ctx, "p1", "u-reader").Return(&share.Share{Permission: share.PermissionRead}, nil)

	v, err := f.facade.AuthorizeWrite(ctx, "p1", access.UserPrincipal("u-reader"))
	require.ErrorIs(t, err, access.ErrDenied)
	require.Equal(t, access.Read, v)

	denied, ok := access.VerdictOf(err)
	require.True(t, ok)
	require.Equal(t, access.Read, denied)
}

func TestAuthorizeOwner_ReadWriteIsDenied(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.projects.On("Get", ctx, "p1").Return(proj, nil)
	f.shares.On("GetByProjectAndUser", ctx, "p1", "u-writer").Return(&share.Share{Permission: share.PermissionReadWrite}, nil)

	_, err := f.facade.AuthorizeOwner(ctx, "p1", access.UserPrincipal("u-writer"))
	require.ErrorIs(t, err, access.ErrDenied)

	v, err := f.facade.AuthorizeWrite(ctx, "p1", access.UserPrincipal("u-writer"))
	require.NoError(t, err)
	require.Equal(t, access.ReadWrite, v)
}

func TestGetProjectWithProgress_DeniedNeverLoadsSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.projects.On("Get", ctx, "p1").Return(proj, nil)
	f.projects.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)
	f.shares.On("GetByProjectAndUser", ctx, "p1", "u-stranger").Return(nil, repository.ErrNotFound)

	_, err := f.facade.GetProjectWithProgress(ctx, "p1", access.UserPrincipal("u-stranger"), access.ViewOptions{})
	require.ErrorIs(t, err, access.ErrDenied)
	v, _ := access.VerdictOf(err)
	require.Equal(t, access.Forbidden, v)

	_, err = f.facade.GetProjectWithProgress(ctx, "missing", access.UserPrincipal("u-owner"), access.ViewOptions{})
	require.ErrorIs(t, err, access.ErrDenied)
	v, _ = access.VerdictOf(err)
	require.Equal(t, access.NotFound, v)

	f.snapshots.AssertNotCalled(t, "Snapshot", mock.Anything, mock.Anything)
}

func TestGetProjectWithProgress_ComputesProgress(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.projects.On("Get", ctx, "p1").Return(proj, nil)

	stages := []project.Stage{
		{ID: "s1", ProjectID: "p1", Weight: 2},
		{ID: "s2", ProjectID: "p1", Weight: 1},
	}
	var tasks []project.Task
	for i, st := range []struct {
		stage  string
		status project.TaskStatus
	}{
		{"s1", project.TaskCompleted}, {"s1", project.TaskCompleted}, {"s1", project.TaskTodo}, {"s1", project.TaskInProgress},
		{"s2", project.TaskCompleted}, {"s2", project.TaskCompleted}, {"s2", project.TaskCompleted},
	} {
		tasks = append(tasks, project.Task{ID: string(rune('a' + i)), StageID: st.stage, Status: st.status})
	}
	f.snapshots.On("Snapshot", ctx, "p1").Return(&project.Snapshot{Project: proj, Stages: stages, Tasks: tasks}, nil)

	view, err := f.facade.GetProjectWithProgress(ctx, "p1", access.UserPrincipal("u-owner"), access.ViewOptions{Rollup: true})
	require.NoError(t, err)
	require.Equal(t, "owner", view.Permission)
	require.InDelta(t, 200.0/3.0, view.Progress, 1e-9)
	require.Len(t, view.PerStage, 2)
	require.InDelta(t, 50, view.PerStage[0].Progress, 1e-9)
	require.InDelta(t, 100, view.PerStage[1].Progress, 1e-9)
	require.Len(t, view.Rollup, 2)
}

func TestGetSharedProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.tokens.On("GetByToken", ctx, tokenVal).Return(&share.Token{ProjectID: "p1", Token: tokenVal}, nil)
	f.tokens.On("GetByToken", ctx, strings.Repeat("ff", 32)).Return(nil, repository.ErrNotFound)
	f.snapshots.On("Snapshot", ctx, "p1").Return(&project.Snapshot{Project: proj}, nil)

	view, err := f.facade.GetSharedProject(ctx, tokenVal, access.ViewOptions{})
	require.NoError(t, err)
	require.Equal(t, "read", view.Permission)
	require.Equal(t, 0.0, view.Progress)
	require.NotNil(t, view.Stages)
	require.Nil(t, view.Rollup)

	_, err = f.facade.GetSharedProject(ctx, strings.Repeat("ff", 32), access.ViewOptions{})
	require.ErrorIs(t, err, share.ErrTokenInvalid)
}
