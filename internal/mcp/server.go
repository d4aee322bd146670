package mcp

import (
	"context"
	"log/slog"

	"github.com/rpggio/waypoint/internal/domain/access"
	"github.com/rpggio/waypoint/internal/domain/project"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectLister lists the projects visible to a user.
type ProjectLister interface {
	List(ctx context.Context, userID string, opts project.ListOptions) ([]project.ProjectSummary, error)
}

// ProjectViewer authorizes and assembles project views.
type ProjectViewer interface {
	GetProjectWithProgress(ctx context.Context, projectID string, principal access.Principal, opts access.ViewOptions) (*access.ProjectView, error)
	GetSharedProject(ctx context.Context, token string, opts access.ViewOptions) (*access.ProjectView, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectLister
	Access   ProjectViewer
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      UserResolver
	TransportMode string // "stdio" or "http"
	// DefaultUser is the principal of every call in stdio mode.
	DefaultUser string
	Logger      *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "waypoint",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is a local, single-user transport: no bearer tokens.
	if cfg.TransportMode == "stdio" {
		server.AddReceivingMiddleware(noAuthMiddleware(cfg.DefaultUser))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
