package access

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/rpggio/waypoint/internal/domain/progress"
	"github.com/rpggio/waypoint/internal/domain/project"
	"github.com/rpggio/waypoint/internal/repository"
)

// SnapshotLoader loads a project with its stages and tasks.
type SnapshotLoader interface {
	Snapshot(ctx context.Context, projectID string) (*project.Snapshot, error)
}

// TokenResolver resolves an anonymous share token to its project snapshot.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*project.Snapshot, error)
}

// ProjectView is a project with its stages, tasks and computed progress.
type ProjectView struct {
	Project    *project.Project           `json:"project"`
	Stages     []project.Stage            `json:"stages"`
	Tasks      []project.Task             `json:"tasks"`
	Progress   float64                    `json:"progress"`
	PerStage   []progress.StageProgress   `json:"per_stage"`
	Rollup     []progress.SubtreeProgress `json:"rollup,omitempty"`
	Permission string                     `json:"permission"`
}

// ViewOptions tunes GetProjectWithProgress.
type ViewOptions struct {
	// Rollup attaches per-subtree progress in addition to the root-only figures.
	Rollup bool
}

// Facade authorizes principals and assembles project views.
type Facade struct {
	resolver  *Resolver
	snapshots SnapshotLoader
	tokens    TokenResolver
	logger    *slog.Logger
}

// NewFacade creates a new access facade.
func NewFacade(resolver *Resolver, snapshots SnapshotLoader, tokens TokenResolver, logger *slog.Logger) *Facade {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Facade{resolver: resolver, snapshots: snapshots, tokens: tokens, logger: logger}
}

// AuthorizeRead returns the verdict when it allows reading, otherwise a *DeniedError.
func (f *Facade) AuthorizeRead(ctx context.Context, projectID string, principal Principal) (Verdict, error) {
	return f.authorize(ctx, projectID, principal, Verdict.AllowsRead)
}

// AuthorizeWrite returns the verdict when it allows writing, otherwise a *DeniedError.
func (f *Facade) AuthorizeWrite(ctx context.Context, projectID string, principal Principal) (Verdict, error) {
	return f.authorize(ctx, projectID, principal, Verdict.AllowsWrite)
}

// AuthorizeOwner returns Owner, otherwise a *DeniedError.
func (f *Facade) AuthorizeOwner(ctx context.Context, projectID string, principal Principal) (Verdict, error) {
	return f.authorize(ctx, projectID, principal, Verdict.IsOwner)
}

func (f *Facade) authorize(ctx context.Context, projectID string, principal Principal, allowed func(Verdict) bool) (Verdict, error) {
	v, err := f.resolver.Resolve(ctx, projectID, principal)
	if err != nil {
		return v, err
	}
	if !allowed(v) {
		f.logger.Debug("access denied", "project_id", projectID, "user_id", principal.UserID, "verdict", v)
		return v, deny(v)
	}
	return v, nil
}

// GetProjectWithProgress authorizes a read and only then loads the snapshot.
func (f *Facade) GetProjectWithProgress(ctx context.Context, projectID string, principal Principal, opts ViewOptions) (*ProjectView, error) {
	v, err := f.AuthorizeRead(ctx, projectID, principal)
	if err != nil {
		return nil, err
	}

	snap, err := f.snapshots.Snapshot(ctx, projectID)
	if err != nil {
		// Deleted between authorization and load.
		if errors.Is(err, project.ErrProjectNotFound) || errors.Is(err, repository.ErrNotFound) {
			return nil, deny(NotFound)
		}
		return nil, repository.WrapStore("load snapshot", err)
	}
	return buildView(snap, v, opts), nil
}

// GetSharedProject resolves an anonymous share token to a read-only view.
// Invalid tokens of every kind yield share.ErrTokenInvalid.
func (f *Facade) GetSharedProject(ctx context.Context, token string, opts ViewOptions) (*ProjectView, error) {
	snap, err := f.tokens.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return buildView(snap, Read, opts), nil
}

func buildView(snap *project.Snapshot, v Verdict, opts ViewOptions) *ProjectView {
	stages := snap.Stages
	if stages == nil {
		stages = []project.Stage{}
	}
	tasks := snap.Tasks
	if tasks == nil {
		tasks = []project.Task{}
	}

	res := progress.Compute(stages, tasks)
	view := &ProjectView{
		Project:    snap.Project,
		Stages:     stages,
		Tasks:      tasks,
		Progress:   res.ProjectProgress,
		PerStage:   res.PerStage,
		Permission: v.String(),
	}
	if opts.Rollup {
		view.Rollup = progress.Rollup(stages, tasks)
	}
	return view
}
