package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/waypoint/internal/repository"
)

// Service handles project, stage and task operations. Callers authorize
// before invoking any method.
type Service struct {
	projects Repository
	stages   StageRepository
	tasks    TaskRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new project service.
func NewService(projects Repository, stages StageRepository, tasks TaskRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		projects: projects,
		stages:   stages,
		tasks:    tasks,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name        string
	Description string
	Color       string
	Status      Status
}

// UpdateRequest is a partial project update; nil fields are left unchanged.
type UpdateRequest struct {
	Name        *string
	Description *string
	Color       *string
	Status      *Status
}

// CreateStageRequest defines stage creation inputs.
type CreateStageRequest struct {
	Name          string
	Weight        *float64
	ParentStageID *string
	SortOrder     int
}

// CreateTaskRequest defines task creation inputs.
type CreateTaskRequest struct {
	Title    string
	Priority int
}

// UpdateTaskRequest is a partial task update.
type UpdateTaskRequest struct {
	Title    *string
	Status   *TaskStatus
	Priority *int
}

// Create creates a new project owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrInvalidInput
	}
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	color := req.Color
	if color == "" {
		color = DefaultColor
	}
	status := req.Status
	if status == "" {
		status = StatusPlanning
	}

	now := s.now()
	proj := &Project{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Color:       color,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projects.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created", "project_id", proj.ID, "owner_id", ownerID)
	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// Snapshot loads the project together with all of its stages and tasks.
func (s *Service) Snapshot(ctx context.Context, id string) (*Snapshot, error) {
	proj, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	stages, err := s.stages.ListByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing stages: %w", err)
	}
	tasks, err := s.tasks.ListByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return &Snapshot{Project: proj, Stages: stages, Tasks: tasks}, nil
}

// List returns the projects owned by or shared with userID.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) ([]ProjectSummary, error) {
	return s.projects.ListForUser(ctx, userID, opts)
}

// Update applies a partial update to a project.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Project, error) {
	if err := ValidateUpdateInput(req); err != nil {
		return nil, err
	}

	proj, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		proj.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		proj.Description = *req.Description
	}
	if req.Color != nil {
		proj.Color = *req.Color
	}
	if req.Status != nil {
		proj.Status = *req.Status
	}
	proj.UpdatedAt = s.now()

	if err := s.projects.Update(ctx, proj); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}
	return proj, nil
}

// Delete removes a project. Stages, tasks, shares and the share token go with it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	s.logger.Info("project deleted", "project_id", id)
	return nil
}

// CreateStage adds a stage to a project. A parent stage must live in the same project.
func (s *Service) CreateStage(ctx context.Context, projectID string, req CreateStageRequest) (*Stage, error) {
	if err := ValidateStageInput(req); err != nil {
		return nil, err
	}

	if req.ParentStageID != nil {
		if _, err := s.stages.Get(ctx, projectID, *req.ParentStageID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrInvalidParent
			}
			return nil, fmt.Errorf("getting parent stage: %w", err)
		}
	}

	weight := 1.0
	if req.Weight != nil && *req.Weight > 0 {
		weight = *req.Weight
	}

	stage := &Stage{
		ID:            uuid.NewString(),
		ProjectID:     projectID,
		ParentStageID: req.ParentStageID,
		Name:          strings.TrimSpace(req.Name),
		Weight:        weight,
		SortOrder:     req.SortOrder,
		CreatedAt:     s.now(),
	}

	if err := s.stages.Create(ctx, stage); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("creating stage: %w", err)
	}
	return stage, nil
}

// CreateTask adds a task to a stage of the project.
func (s *Service) CreateTask(ctx context.Context, projectID, stageID string, req CreateTaskRequest) (*Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrInvalidInput
	}
	priority := req.Priority
	if priority == 0 {
		priority = PriorityMedium
	}
	if err := ValidatePriority(priority); err != nil {
		return nil, err
	}

	if _, err := s.stages.Get(ctx, projectID, stageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, fmt.Errorf("getting stage: %w", err)
	}

	now := s.now()
	task := &Task{
		ID:        uuid.NewString(),
		StageID:   stageID,
		Title:     strings.TrimSpace(req.Title),
		Status:    TaskTodo,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	return task, nil
}

// UpdateTask applies a partial update to a task of the project.
func (s *Service) UpdateTask(ctx context.Context, projectID, taskID string, req UpdateTaskRequest) (*Task, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, ErrInvalidInput
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidInput
	}
	if req.Priority != nil {
		if err := ValidatePriority(*req.Priority); err != nil {
			return nil, err
		}
	}

	task, err := s.tasks.Get(ctx, projectID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}

	now := s.now()
	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Status != nil {
		task.SetStatus(*req.Status, now)
	}
	task.UpdatedAt = now

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("updating task: %w", err)
	}
	return task, nil
}
