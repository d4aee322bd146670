package project_test

import (
	"context"
	"testing"

	"github.com/rpggio/waypoint/internal/domain/project"
	"github.com/rpggio/waypoint/internal/repository"
	"github.com/rpggio/waypoint/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newService() (*project.Service, *mocks.ProjectRepository, *mocks.StageRepository, *mocks.TaskRepository) {
	projects := &mocks.ProjectRepository{}
	stages := &mocks.StageRepository{}
	tasks := &mocks.TaskRepository{}
	return project.NewService(projects, stages, tasks, nil), projects, stages, tasks
}

func TestProjectService_CreateAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	svc, projects, _, _ := newService()

	projects.On("Create", ctx, mock.AnythingOfType("*project.Project")).Return(nil)

	proj, err := svc.Create(ctx, "u1", project.CreateRequest{Name: "  Launch  "})
	require.NoError(t, err)
	require.NotEmpty(t, proj.ID)
	require.Equal(t, "Launch", proj.Name)
	require.Equal(t, "u1", proj.OwnerID)
	require.Equal(t, project.DefaultColor, proj.Color)
	require.Equal(t, project.StatusPlanning, proj.Status)
	projects.AssertExpectations(t)
}

func TestProjectService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newService()

	_, err := svc.Create(ctx, "u1", project.CreateRequest{Name: " "})
	require.ErrorIs(t, err, project.ErrInvalidInput)

	_, err = svc.Create(ctx, "u1", project.CreateRequest{Name: "x", Color: "blue"})
	require.ErrorIs(t, err, project.ErrInvalidInput)

	_, err = svc.Create(ctx, "u1", project.CreateRequest{Name: "x", Status: "archived"})
	require.ErrorIs(t, err, project.ErrInvalidInput)
}

func TestProjectService_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	svc, projects, _, _ := newService()

	existing := &project.Project{ID: "p1", OwnerID: "u1", Name: "Old", Color: "#000000", Status: project.StatusPlanning}
	projects.On("Get", ctx, "p1").Return(existing, nil)
	projects.On("Update", ctx, mock.AnythingOfType("*project.Project")).Return(nil)

	status := project.StatusActive
	updated, err := svc.Update(ctx, "p1", project.UpdateRequest{Status: &status})
	require.NoError(t, err)
	require.Equal(t, "Old", updated.Name)
	require.Equal(t, project.StatusActive, updated.Status)
}

func TestProjectService_GetMissing(t *testing.T) {
	ctx := context.Background()
	svc, projects, _, _ := newService()
	projects.On("Get", ctx, "nope").Return(nil, repository.ErrNotFound)

	_, err := svc.Get(ctx, "nope")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestProjectService_CreateStage(t *testing.T) {
	ctx := context.Background()
	svc, _, stages, _ := newService()

	stages.On("Create", ctx, mock.AnythingOfType("*project.Stage")).Return(nil)
	stages.On("Get", ctx, "p1", "foreign").Return(nil, repository.ErrNotFound)

	zero := 0.0
	stage, err := svc.CreateStage(ctx, "p1", project.CreateStageRequest{Name: "Design", Weight: &zero})
	require.NoError(t, err)
	require.Equal(t, 1.0, stage.Weight)
	require.True(t, stage.IsRoot())

	parent := "foreign"
	_, err = svc.CreateStage(ctx, "p1", project.CreateStageRequest{Name: "Sub", ParentStageID: &parent})
	require.ErrorIs(t, err, project.ErrInvalidParent)
}

func TestProjectService_TaskLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, stages, tasks := newService()

	stages.On("Get", ctx, "p1", "s1").Return(&project.Stage{ID: "s1", ProjectID: "p1"}, nil)
	stages.On("Get", ctx, "p1", "s-other").Return(nil, repository.ErrNotFound)
	tasks.On("Create", ctx, mock.AnythingOfType("*project.Task")).Return(nil)

	task, err := svc.CreateTask(ctx, "p1", "s1", project.CreateTaskRequest{Title: "Write copy"})
	require.NoError(t, err)
	require.Equal(t, project.TaskTodo, task.Status)
	require.Equal(t, project.PriorityMedium, task.Priority)

	_, err = svc.CreateTask(ctx, "p1", "s-other", project.CreateTaskRequest{Title: "x"})
	require.ErrorIs(t, err, project.ErrStageNotFound)

	_, err = svc.CreateTask(ctx, "p1", "s1", project.CreateTaskRequest{Title: "x", Priority: 7})
	require.ErrorIs(t, err, project.ErrInvalidInput)

	tasks.On("Get", ctx, "p1", task.ID).Return(task, nil)
	tasks.On("Update", ctx, task).Return(nil)

	done := project.TaskCompleted
	updated, err := svc.UpdateTask(ctx, "p1", task.ID, project.UpdateTaskRequest{Status: &done})
	require.NoError(t, err)
	require.Equal(t, project.TaskCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)

	todo := project.TaskTodo
	updated, err = svc.UpdateTask(ctx, "p1", task.ID, project.UpdateTaskRequest{Status: &todo})
	require.NoError(t, err)
	require.Nil(t, updated.CompletedAt)
}

func TestProjectService_Snapshot(t *testing.T) {
	ctx := context.Background()
	svc, projects, stages, tasks := newService()

	projects.On("Get", ctx, "p1").Return(&project.Project{ID: "p1"}, nil)
	stages.On("ListByProject", ctx, "p1").Return([]project.Stage{{ID: "s1"}}, nil)
	tasks.On("ListByProject", ctx, "p1").Return([]project.Task{{ID: "t1", StageID: "s1"}}, nil)

	snap, err := svc.Snapshot(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "p1", snap.Project.ID)
	require.Len(t, snap.Stages, 1)
	require.Len(t, snap.Tasks, 1)
}
