package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/waypoint/internal/domain/project"
	"github.com/rpggio/waypoint/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (id, owner_id, name, description, color, status, created_at, updated_at)
		VALUES (:id, :owner_id, :name, :description, :color, :status, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, proj); err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `
		SELECT id, owner_id, name, description, color, status, created_at, updated_at
		FROM projects
		WHERE id = ?
	`

	var proj project.Project
	err := r.db.GetContext(ctx, &proj, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &proj, nil
}

// Update writes the mutable project fields
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	query := `
		UPDATE projects
		SET name = :name, description = :description, color = :color, status = :status, updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, proj)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return requireAffected(result)
}

// Delete removes a project; stages, tasks, shares and the share token cascade.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireAffected(result)
}

// ListForUser returns the projects owned by or shared with userID, most
// recently updated first, optionally filtered by a full-text query.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID string, opts project.ListOptions) ([]project.ProjectSummary, error) {
	query := `
		SELECT
			p.id,
			p.owner_id,
			p.name,
			p.description,
			p.color,
			p.status,
			p.created_at,
			CASE WHEN p.owner_id = ? THEN 'owner' ELSE s.permission END AS permission,
			(SELECT COUNT(*) FROM stages st WHERE st.project_id = p.id) AS stage_count,
			(SELECT COUNT(*) FROM tasks t JOIN stages st ON st.id = t.stage_id WHERE st.project_id = p.id) AS task_count
		FROM projects p
		LEFT JOIN project_shares s ON s.project_id = p.id AND s.shared_with_user_id = ?
		WHERE (p.owner_id = ? OR s.id IS NOT NULL)
	`
	args := []any{userID, userID, userID}

	if match := ftsQuery(opts.Query); match != "" {
		query += " AND p.rowid IN (SELECT rowid FROM projects_fts WHERE projects_fts MATCH ?)"
		args = append(args, match)
	}

	query += " ORDER BY p.updated_at DESC, p.rowid DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	summaries := []project.ProjectSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return summaries, nil
}

// ftsQuery turns free text into an FTS5 prefix query with every term quoted,
// so user input cannot inject FTS syntax.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	if len(terms) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		quoted = append(quoted, `"`+strings.ReplaceAll(term, `"`, `""`)+`"*`)
	}
	return strings.Join(quoted, " ")
}

func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
