package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `waypoint tracks projects as stages and tasks and reports weighted progress.

Tools:
- list_projects: projects you own or that are shared with you, with your permission on each.
- get_project: one project with overall progress (0-100) and per-stage completion.
- get_shared_project: read a project through an anonymous share link token.

Progress is weighted over root stages only; substages are grouping. Pass rollup=true to also get
per-subtree completion. See waypoint://docs/access for permission levels.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "waypoint://docs/access",
		Name:        "docs_access",
		Title:       "waypoint access levels",
		Description: "Who can read or change a project, and how share links behave.",
		Content: `# Access levels

| Level | Read | Write stages/tasks/project | Manage shares, links, delete |
|---|---|---|---|
| owner | yes | yes | yes |
| readwrite | yes | yes | no |
| read | yes | no | no |
| share link | yes | no | no |

- Every project has exactly one owner: the user who created it.
- The owner grants ` + "`read`" + ` or ` + "`readwrite`" + ` to other users by username. Granting again to the same
  user replaces the previous level; there is never more than one grant per user.
- A project has at most one anonymous share link. Issuing it again returns the same link. Links are
  always read-only and may expire.
- A project you have no access to is reported as not found, whether or not it exists.
- An invalid, expired or revoked share link is reported the same way as one that never existed.

## Progress

- Only root stages (no parent) are weighed. Stage progress is completed tasks / total tasks * 100,
  or 0 when the stage has no tasks.
- Overall progress is the weight-averaged stage progress; a weight of 0 or less counts as 1.
- A project with no root stages has progress 0.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
