package share

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/waypoint/internal/domain/activity"
	"github.com/rpggio/waypoint/internal/repository"
)

// Registry manages per-user grants and the anonymous share token of projects.
// Callers must have resolved the acting principal to the project's owner
// before invoking any mutating method.
type Registry struct {
	shares     Repository
	tokens     TokenRepository
	users      UserLookup
	projects   ProjectReader
	snapshots  SnapshotLoader
	activities ActivityLogger
	logger     *slog.Logger

	tokenTTL time.Duration
	now      func() time.Time
	newToken func() (string, error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithTokenTTL sets the lifetime of newly issued share tokens. Zero means no expiry.
func WithTokenTTL(ttl time.Duration) Option {
	return func(r *Registry) { r.tokenTTL = ttl }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithActivityLogger records sharing events in the activity log.
func WithActivityLogger(l ActivityLogger) Option {
	return func(r *Registry) { r.activities = l }
}

// NewRegistry creates a new share registry.
func NewRegistry(
	shares Repository,
	tokens TokenRepository,
	users UserLookup,
	projects ProjectReader,
	snapshots SnapshotLoader,
	logger *slog.Logger,
	opts ...Option,
) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Registry{
		shares:    shares,
		tokens:    tokens,
		users:     users,
		projects:  projects,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
		newToken:  GenerateToken,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GrantShare creates or updates the grant of targetUsername on the project.
// Re-sharing with the same user overwrites the permission of the existing grant.
func (r *Registry) GrantShare(ctx context.Context, projectID, ownerID, targetUsername string, perm Permission) (*ShareRecord, error) {
	if !perm.Valid() {
		return nil, ErrInvalidPermission
	}

	proj, err := r.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, repository.WrapStore("get project", err)
	}

	target, err := r.users.GetByUsername(ctx, strings.TrimSpace(targetUsername))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, repository.WrapStore("get user", err)
	}
	if target.ID == proj.OwnerID {
		return nil, ErrSelfShare
	}

	now := r.now()
	s := &Share{
		ID:               uuid.NewString(),
		ProjectID:        projectID,
		SharedWithUserID: target.ID,
		Permission:       perm,
		CreatedByUserID:  ownerID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := r.shares.Upsert(ctx, s); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrProjectNotFound
		}
		return nil, repository.WrapStore("upsert share", err)
	}

	stored, err := r.shares.GetByProjectAndUser(ctx, projectID, target.ID)
	if err != nil {
		return nil, repository.WrapStore("get share", err)
	}

	r.record(ctx, projectID, ownerID, activity.TypeShareGranted,
		fmt.Sprintf("shared with %s (%s)", target.Username, perm))

	return &ShareRecord{Share: *stored, Username: target.Username, Email: target.Email}, nil
}

// ListShares returns the grants of a project, newest first.
func (r *Registry) ListShares(ctx context.Context, projectID string) ([]ShareRecord, error) {
	records, err := r.shares.ListByProject(ctx, projectID)
	if err != nil {
		return nil, repository.WrapStore("list shares", err)
	}
	if records == nil {
		records = []ShareRecord{}
	}
	return records, nil
}

// RevokeShare deletes a share. The share must belong to projectID.
func (r *Registry) RevokeShare(ctx context.Context, projectID, shareID, actorID string) error {
	if err := r.shares.Delete(ctx, projectID, shareID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrShareNotFound
		}
		return repository.WrapStore("delete share", err)
	}
	r.record(ctx, projectID, actorID, activity.TypeShareRevoked, fmt.Sprintf("revoked share %s", shareID))
	return nil
}

func (r *Registry) record(ctx context.Context, projectID, actorID string, typ activity.ActivityType, summary string) {
	if r.activities == nil {
		return
	}
	entry := &activity.ActivityEntry{
		ProjectID:    projectID,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    r.now(),
	}
	if actorID != "" {
		entry.ActorID = &actorID
	}
	if err := r.activities.LogActivity(ctx, entry); err != nil {
		r.logger.Warn("failed to record activity", "project_id", projectID, "type", typ, "error", err)
	}
}
