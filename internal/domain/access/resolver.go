package access

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/rpggio/waypoint/internal/domain/project"
	"github.com/rpggio/waypoint/internal/domain/share"
	"github.com/rpggio/waypoint/internal/repository"
)

// ProjectReader reads projects.
type ProjectReader interface {
	Get(ctx context.Context, id string) (*project.Project, error)
}

// ShareLookup reads user grants.
type ShareLookup interface {
	GetByProjectAndUser(ctx context.Context, projectID, userID string) (*share.Share, error)
}

// TokenLookup reads share tokens.
type TokenLookup = share.TokenReader

// Resolver computes verdicts. It never mutates state.
type Resolver struct {
	projects ProjectReader
	shares   ShareLookup
	tokens   TokenLookup
	logger   *slog.Logger
	now      func() time.Time
}

// NewResolver creates a new access resolver.
func NewResolver(projects ProjectReader, shares ShareLookup, tokens TokenLookup, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{
		projects: projects,
		shares:   shares,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
}

// Resolve returns the verdict of principal on projectID. Persistence failures
// are returned as *repository.StoreError, never as a verdict.
func (r *Resolver) Resolve(ctx context.Context, projectID string, principal Principal) (Verdict, error) {
	proj, err := r.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, project.ErrProjectNotFound) {
			return NotFound, nil
		}
		return NotFound, repository.WrapStore("get project", err)
	}

	switch {
	case principal.UserID != "":
		if principal.UserID == proj.OwnerID {
			return Owner, nil
		}
		grant, err := r.shares.GetByProjectAndUser(ctx, projectID, principal.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return Forbidden, nil
			}
			return NotFound, repository.WrapStore("get share", err)
		}
		switch grant.Permission {
		case share.PermissionReadWrite:
			return ReadWrite, nil
		case share.PermissionRead:
			return Read, nil
		default:
			r.logger.Warn("share with unknown permission", "project_id", projectID, "share_id", grant.ID, "permission", grant.Permission)
			return Forbidden, nil
		}

	case principal.ShareToken != "":
		tok, err := share.LookupToken(ctx, r.tokens, principal.ShareToken, r.now())
		if err != nil {
			if errors.Is(err, share.ErrTokenInvalid) {
				return Forbidden, nil
			}
			return NotFound, err
		}
		if tok.ProjectID != projectID {
			return Forbidden, nil
		}
		return Read, nil
	}

	return Forbidden, nil
}
