package share

import (
	"context"

	"github.com/rpggio/waypoint/internal/domain/activity"
	"github.com/rpggio/waypoint/internal/domain/project"
	"github.com/rpggio/waypoint/internal/domain/user"
)

// Repository provides persistence for user shares.
type Repository interface {
	Upsert(ctx context.Context, s *Share) error
	GetByProjectAndUser(ctx context.Context, projectID, userID string) (*Share, error)
	ListByProject(ctx context.Context, projectID string) ([]ShareRecord, error)
	Delete(ctx context.Context, projectID, shareID string) error
}

// TokenRepository provides persistence for share tokens. Create must report
// repository.ErrConflict when the project already has a token.
type TokenRepository interface {
	Create(ctx context.Context, t *Token) error
	GetByProject(ctx context.Context, projectID string) (*Token, error)
	GetByToken(ctx context.Context, token string) (*Token, error)
	DeleteByProject(ctx context.Context, projectID string) error
}

// UserLookup resolves share targets.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

// ProjectReader reads projects.
type ProjectReader interface {
	Get(ctx context.Context, id string) (*project.Project, error)
}

// SnapshotLoader loads a project with its stages and tasks.
type SnapshotLoader interface {
	Snapshot(ctx context.Context, projectID string) (*project.Snapshot, error)
}

// ActivityLogger records sharing events.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
