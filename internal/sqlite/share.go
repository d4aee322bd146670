package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/waypoint/internal/domain/share"
	"github.com/rpggio/waypoint/internal/repository"
)

// ShareRepository implements share.Repository for SQLite
type ShareRepository struct {
	db *DB
}

// NewShareRepository creates a new ShareRepository
func NewShareRepository(db *DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// Upsert inserts a grant or overwrites the permission of the existing grant
// for the same (project, user). The existing row keeps its ID and created_at.
func (r *ShareRepository) Upsert(ctx context.Context, s *share.Share) error {
	query := `
		INSERT INTO project_shares (
			id, project_id, shared_with_user_id, permission, created_by_user_id, created_at, updated_at
		) VALUES (
			:id, :project_id, :shared_with_user_id, :permission, :created_by_user_id, :created_at, :updated_at
		)
		ON CONFLICT (project_id, shared_with_user_id) DO UPDATE SET
			permission = excluded.permission,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to upsert share: %w", err)
	}
	return nil
}

// GetByProjectAndUser retrieves the grant of userID on projectID
func (r *ShareRepository) GetByProjectAndUser(ctx context.Context, projectID, userID string) (*share.Share, error) {
	query := `
		SELECT id, project_id, shared_with_user_id, permission, created_by_user_id, created_at, updated_at
		FROM project_shares
		WHERE project_id = ? AND shared_with_user_id = ?
	`
	var s share.Share
	err := r.db.GetContext(ctx, &s, query, projectID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	return &s, nil
}

// ListByProject returns the grants of a project with grantee identity, newest first
func (r *ShareRepository) ListByProject(ctx context.Context, projectID string) ([]share.ShareRecord, error) {
	query := `
		SELECT
			s.id, s.project_id, s.shared_with_user_id, s.permission, s.created_by_user_id,
			s.created_at, s.updated_at,
			u.username, u.email
		FROM project_shares s
		JOIN users u ON u.id = s.shared_with_user_id
		WHERE s.project_id = ?
		ORDER BY s.created_at DESC, s.rowid DESC
	`
	records := []share.ShareRecord{}
	if err := r.db.SelectContext(ctx, &records, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	return records, nil
}

// Delete removes a grant only when it belongs to projectID
func (r *ShareRepository) Delete(ctx context.Context, projectID, shareID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM project_shares WHERE id = ? AND project_id = ?", shareID, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete share: %w", err)
	}
	return requireAffected(result)
}

// ShareTokenRepository implements share.TokenRepository for SQLite
type ShareTokenRepository struct {
	db *DB
}

// NewShareTokenRepository creates a new ShareTokenRepository
func NewShareTokenRepository(db *DB) *ShareTokenRepository {
	return &ShareTokenRepository{db: db}
}

// Create inserts a token. A second token for the same project reports repository.ErrConflict.
func (r *ShareTokenRepository) Create(ctx context.Context, t *share.Token) error {
	query := `
		INSERT INTO project_share_tokens (id, project_id, token, created_by_user_id, expires_at, created_at)
		VALUES (:id, :project_id, :token, :created_by_user_id, :expires_at, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		switch {
		case isUniqueViolation(err):
			return repository.ErrConflict
		case isForeignKeyViolation(err):
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create share token: %w", err)
	}
	return nil
}

// GetByProject retrieves the token of a project
func (r *ShareTokenRepository) GetByProject(ctx context.Context, projectID string) (*share.Token, error) {
	return r.getOne(ctx, "project_id = ?", projectID)
}

// GetByToken retrieves a token by its value
func (r *ShareTokenRepository) GetByToken(ctx context.Context, token string) (*share.Token, error) {
	return r.getOne(ctx, "token = ?", token)
}

// DeleteByProject removes the token of a project
func (r *ShareTokenRepository) DeleteByProject(ctx context.Context, projectID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM project_share_tokens WHERE project_id = ?", projectID)
	if err != nil {
		return fmt.Errorf("failed to delete share token: %w", err)
	}
	return requireAffected(result)
}

func (r *ShareTokenRepository) getOne(ctx context.Context, where string, arg string) (*share.Token, error) {
	query := `
		SELECT id, project_id, token, created_by_user_id, expires_at, created_at
		FROM project_share_tokens
		WHERE ` + where

	var t share.Token
	err := r.db.GetContext(ctx, &t, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share token: %w", err)
	}
	return &t, nil
}
