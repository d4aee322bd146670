package mcp

import (
	"context"
	"time"

	"github.com/rpggio/waypoint/internal/domain/access"
	"github.com/rpggio/waypoint/internal/domain/progress"
	"github.com/rpggio/waypoint/internal/domain/project"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type listProjectsInput struct {
	Query  string `json:"query,omitempty" jsonschema:"full-text filter over project name and description"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of projects"`
	Offset int    `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type projectSummaryOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Permission  string `json:"permission"`
	StageCount  int    `json:"stage_count"`
	TaskCount   int    `json:"task_count"`
	CreatedAt   string `json:"created_at"`
}

type listProjectsOutput struct {
	Projects []projectSummaryOutput `json:"projects"`
}

type getProjectInput struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Rollup    bool   `json:"rollup,omitempty" jsonschema:"include per-subtree progress"`
}

type getSharedProjectInput struct {
	Token  string `json:"token" jsonschema:"share token from a shared link"`
	Rollup bool   `json:"rollup,omitempty" jsonschema:"include per-subtree progress"`
}

type stageOutput struct {
	ID            string  `json:"id"`
	ParentStageID string  `json:"parent_stage_id,omitempty"`
	Name          string  `json:"name"`
	Weight        float64 `json:"weight"`
	Progress      float64 `json:"progress"`
	TotalTasks    int     `json:"total_tasks"`
	DoneTasks     int     `json:"completed_tasks"`
	// SubtreeProgress is set only when rollup was requested.
	SubtreeProgress *float64 `json:"subtree_progress,omitempty"`
}

type projectViewOutput struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      string        `json:"status"`
	Permission  string        `json:"permission"`
	Progress    float64       `json:"progress"`
	Stages      []stageOutput `json:"stages"`
	UpdatedAt   string        `json:"updated_at"`
}

func registerTools(server *sdkmcp.Server, svc Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects you own or that are shared with you, with your permission on each",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in listProjectsInput) (*sdkmcp.CallToolResult, listProjectsOutput, error) {
		userID := getUserID(ctx)
		if userID == "" {
			return nil, listProjectsOutput{}, toolError(errUnauthenticated)
		}
		list, err := svc.Projects.List(ctx, userID, project.ListOptions{Query: in.Query, Limit: in.Limit, Offset: in.Offset})
		if err != nil {
			return nil, listProjectsOutput{}, toolError(err)
		}
		out := listProjectsOutput{Projects: make([]projectSummaryOutput, 0, len(list))}
		for _, p := range list {
			out.Projects = append(out.Projects, projectSummaryOutput{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Status:      string(p.Status),
				Permission:  p.Permission,
				StageCount:  p.StageCount,
				TaskCount:   p.TaskCount,
				CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		return nil, out, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project with its weighted progress and per-stage completion",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in getProjectInput) (*sdkmcp.CallToolResult, projectViewOutput, error) {
		userID := getUserID(ctx)
		if userID == "" {
			return nil, projectViewOutput{}, toolError(errUnauthenticated)
		}
		view, err := svc.Access.GetProjectWithProgress(ctx, in.ProjectID, access.UserPrincipal(userID), access.ViewOptions{Rollup: in.Rollup})
		if err != nil {
			return nil, projectViewOutput{}, toolError(err)
		}
		return nil, newProjectViewOutput(view), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_shared_project",
		Description: "Read a project through its anonymous share link token (read-only, no login needed)",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in getSharedProjectInput) (*sdkmcp.CallToolResult, projectViewOutput, error) {
		view, err := svc.Access.GetSharedProject(ctx, in.Token, access.ViewOptions{Rollup: in.Rollup})
		if err != nil {
			return nil, projectViewOutput{}, toolError(err)
		}
		return nil, newProjectViewOutput(view), nil
	})
}

func newProjectViewOutput(view *access.ProjectView) projectViewOutput {
	counts := progress.CountByStage(view.Tasks)
	effectiveWeight := map[string]float64{}
	for _, sp := range view.PerStage {
		effectiveWeight[sp.StageID] = sp.Weight
	}
	subtree := map[string]float64{}
	for _, sp := range view.Rollup {
		subtree[sp.StageID] = sp.Progress
	}

	out := projectViewOutput{
		ID:          view.Project.ID,
		Name:        view.Project.Name,
		Description: view.Project.Description,
		Status:      string(view.Project.Status),
		Permission:  view.Permission,
		Progress:    view.Progress,
		Stages:      make([]stageOutput, 0, len(view.Stages)),
		UpdatedAt:   view.Project.UpdatedAt.UTC().Format(time.RFC3339),
	}
	for _, st := range view.Stages {
		c := counts[st.ID]
		so := stageOutput{
			ID:         st.ID,
			Name:       st.Name,
			Weight:     st.Weight,
			Progress:   c.Percent(),
			TotalTasks: c.Total,
			DoneTasks:  c.Completed,
		}
		if st.ParentStageID != nil {
			so.ParentStageID = *st.ParentStageID
		}
		// Root stages report the weight used in the project figure.
		if w, ok := effectiveWeight[st.ID]; ok {
			so.Weight = w
		}
		if p, ok := subtree[st.ID]; ok {
			so.SubtreeProgress = &p
		}
		out.Stages = append(out.Stages, so)
	}
	return out
}
