package mocks

import (
	"context"

	"github.com/rpggio/waypoint/internal/domain/activity"
	"github.com/rpggio/waypoint/internal/domain/project"
	"github.com/rpggio/waypoint/internal/domain/share"
	"github.com/rpggio/waypoint/internal/domain/user"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProjectRepository) ListForUser(ctx context.Context, userID string, opts project.ListOptions) ([]project.ProjectSummary, error) {
	args := m.Called(ctx, userID, opts)
	if list, ok := args.Get(0).([]project.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// StageRepository is a mock for project.StageRepository.
type StageRepository struct {
	mock.Mock
}

func (m *StageRepository) Create(ctx context.Context, stage *project.Stage) error {
	args := m.Called(ctx, stage)
	return args.Error(0)
}

func (m *StageRepository) Get(ctx context.Context, projectID, id string) (*project.Stage, error) {
	args := m.Called(ctx, projectID, id)
	if stage, ok := args.Get(0).(*project.Stage); ok {
		return stage, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StageRepository) ListByProject(ctx context.Context, projectID string) ([]project.Stage, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]project.Stage); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// TaskRepository is a mock for project.TaskRepository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, task *project.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *TaskRepository) Get(ctx context.Context, projectID, id string) (*project.Task, error) {
	args := m.Called(ctx, projectID, id)
	if task, ok := args.Get(0).(*project.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, task *project.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]project.Task, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]project.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// UserRepository is a mock for user.Repository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	args := m.Called(ctx, login)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// ShareRepository is a mock for share.Repository.
type ShareRepository struct {
	mock.Mock
}

func (m *ShareRepository) Upsert(ctx context.Context, s *share.Share) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *ShareRepository) GetByProjectAndUser(ctx context.Context, projectID, userID string) (*share.Share, error) {
	args := m.Called(ctx, projectID, userID)
	if s, ok := args.Get(0).(*share.Share); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ShareRepository) ListByProject(ctx context.Context, projectID string) ([]share.ShareRecord, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]share.ShareRecord); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ShareRepository) Delete(ctx context.Context, projectID, shareID string) error {
	args := m.Called(ctx, projectID, shareID)
	return args.Error(0)
}

// TokenRepository is a mock for share.TokenRepository.
type TokenRepository struct {
	mock.Mock
}

func (m *TokenRepository) Create(ctx context.Context, t *share.Token) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TokenRepository) GetByProject(ctx context.Context, projectID string) (*share.Token, error) {
	args := m.Called(ctx, projectID)
	if t, ok := args.Get(0).(*share.Token); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TokenRepository) GetByToken(ctx context.Context, token string) (*share.Token, error) {
	args := m.Called(ctx, token)
	if t, ok := args.Get(0).(*share.Token); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TokenRepository) DeleteByProject(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

// SnapshotLoader is a mock for share.SnapshotLoader.
type SnapshotLoader struct {
	mock.Mock
}

func (m *SnapshotLoader) Snapshot(ctx context.Context, projectID string) (*project.Snapshot, error) {
	args := m.Called(ctx, projectID)
	if s, ok := args.Get(0).(*project.Snapshot); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
