package project

import "context"

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	Update(ctx context.Context, proj *Project) error
	Delete(ctx context.Context, id string) error
	ListForUser(ctx context.Context, userID string, opts ListOptions) ([]ProjectSummary, error)
}

// StageRepository provides persistence for stages.
type StageRepository interface {
	Create(ctx context.Context, stage *Stage) error
	Get(ctx context.Context, projectID, id string) (*Stage, error)
	ListByProject(ctx context.Context, projectID string) ([]Stage, error)
}

// TaskRepository provides persistence for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	Get(ctx context.Context, projectID, id string) (*Task, error)
	Update(ctx context.Context, task *Task) error
	ListByProject(ctx context.Context, projectID string) ([]Task, error)
}
