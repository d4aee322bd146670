package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/waypoint/internal/domain/project"
	"github.com/rpggio/waypoint/internal/repository"
)

// TaskRepository implements project.TaskRepository for SQLite
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a task
func (r *TaskRepository) Create(ctx context.Context, task *project.Task) error {
	query := `
		INSERT INTO tasks (id, stage_id, title, status, priority, completed_at, created_at, updated_at)
		VALUES (:id, :stage_id, :title, :status, :priority, :completed_at, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, task); err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// Get retrieves a task whose stage belongs to projectID
func (r *TaskRepository) Get(ctx context.Context, projectID, id string) (*project.Task, error) {
	query := `
		SELECT t.id, t.stage_id, t.title, t.status, t.priority, t.completed_at, t.created_at, t.updated_at
		FROM tasks t
		JOIN stages s ON s.id = t.stage_id
		WHERE t.id = ? AND s.project_id = ?
	`
	var task project.Task
	err := r.db.GetContext(ctx, &task, query, id, projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// Update writes the mutable task fields
func (r *TaskRepository) Update(ctx context.Context, task *project.Task) error {
	query := `
		UPDATE tasks
		SET title = :title, status = :status, priority = :priority,
			completed_at = :completed_at, updated_at = :updated_at
		WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, task)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(result)
}

// ListByProject returns every task of every stage of the project
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]project.Task, error) {
	query := `
		SELECT t.id, t.stage_id, t.title, t.status, t.priority, t.completed_at, t.created_at, t.updated_at
		FROM tasks t
		JOIN stages s ON s.id = t.stage_id
		WHERE s.project_id = ?
		ORDER BY t.priority, t.created_at, t.rowid
	`
	tasks := []project.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}
