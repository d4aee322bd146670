package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/waypoint/internal/domain/project"
	"github.com/rpggio/waypoint/internal/repository"
)

// StageRepository implements project.StageRepository for SQLite
type StageRepository struct {
	db *DB
}

// NewStageRepository creates a new StageRepository
func NewStageRepository(db *DB) *StageRepository {
	return &StageRepository{db: db}
}

// Create inserts a stage
func (r *StageRepository) Create(ctx context.Context, stage *project.Stage) error {
	query := `
		INSERT INTO stages (id, project_id, parent_stage_id, name, weight, sort_order, created_at)
		VALUES (:id, :project_id, :parent_stage_id, :name, :weight, :sort_order, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, stage); err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create stage: %w", err)
	}
	return nil
}

// Get retrieves a stage scoped to its project
func (r *StageRepository) Get(ctx context.Context, projectID, id string) (*project.Stage, error) {
	query := `
		SELECT id, project_id, parent_stage_id, name, weight, sort_order, created_at
		FROM stages
		WHERE id = ? AND project_id = ?
	`
	var stage project.Stage
	err := r.db.GetContext(ctx, &stage, query, id, projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stage: %w", err)
	}
	return &stage, nil
}

// ListByProject returns the stages of a project in display order
func (r *StageRepository) ListByProject(ctx context.Context, projectID string) ([]project.Stage, error) {
	query := `
		SELECT id, project_id, parent_stage_id, name, weight, sort_order, created_at
		FROM stages
		WHERE project_id = ?
		ORDER BY sort_order, created_at, rowid
	`
	stages := []project.Stage{}
	if err := r.db.SelectContext(ctx, &stages, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	return stages, nil
}
