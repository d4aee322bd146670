package transport

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/waypoint/internal/domain/access"
	"github.com/rpggio/waypoint/internal/domain/activity"
	"github.com/rpggio/waypoint/internal/domain/project"
	"github.com/rpggio/waypoint/internal/domain/share"
	"github.com/rpggio/waypoint/internal/domain/user"
)

// Services groups the domain services exposed over HTTP.
type Services struct {
	Users    *user.Service
	Projects *project.Service
	Shares   *share.Registry
	Access   *access.Facade
	Activity *activity.Service
}

// Config configures the HTTP server.
type Config struct {
	Services Services
	Resolver UserResolver
	// MCP, when set, is mounted at /mcp outside the REST auth group.
	MCP    http.Handler
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	svc    Services
	logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	srv := &Server{svc: cfg.Services, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)

	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
		r.Handle("/mcp/*", cfg.MCP)
	}

	r.Post("/auth/register", srv.handleRegister)
	r.Post("/auth/login", srv.handleLogin)
	r.Get("/shared/{token}", srv.handleGetShared)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Resolver))

		r.Get("/auth/me", srv.handleMe)

		r.Post("/projects", srv.handleCreateProject)
		r.Get("/projects", srv.handleListProjects)

		r.Route("/projects/{projectID}", func(r chi.Router) {
			r.Get("/", srv.handleGetProject)
			r.Patch("/", srv.handleUpdateProject)
			r.Delete("/", srv.handleDeleteProject)

			r.Post("/stages", srv.handleCreateStage)
			r.Post("/stages/{stageID}/tasks", srv.handleCreateTask)
			r.Patch("/tasks/{taskID}", srv.handleUpdateTask)

			r.Get("/activity", srv.handleListActivity)

			r.Post("/share", srv.handleGrantShare)
			r.Get("/shares", srv.handleListShares)
			r.Delete("/shares/{shareID}", srv.handleRevokeShare)

			r.Post("/share-token", srv.handleIssueToken)
			r.Get("/share-token", srv.handleGetToken)
			r.Delete("/share-token", srv.handleRevokeToken)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// fail writes the mapped error response. Unmapped errors are logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
	writeError(w, status, msg)
}

func principal(r *http.Request) access.Principal {
	userID, _ := UserFromContext(r.Context())
	return access.UserPrincipal(userID)
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
