package testserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpggio/waypoint/internal/auth"
	"github.com/rpggio/waypoint/internal/domain/access"
	"github.com/rpggio/waypoint/internal/domain/activity"
	"github.com/rpggio/waypoint/internal/domain/project"
	"github.com/rpggio/waypoint/internal/domain/share"
	"github.com/rpggio/waypoint/internal/domain/user"
	"github.com/rpggio/waypoint/internal/mcp"
	"github.com/rpggio/waypoint/internal/sqlite"
	"github.com/rpggio/waypoint/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secret = "test-secret"

// TestServer is the full REST and MCP stack over an in-memory database.
type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Tokens *auth.TokenManager
}

// Option tunes a TestServer.
type Option func(*options)

type options struct {
	shareTokenTTL time.Duration
}

// WithShareTokenTTL makes issued share tokens expire after ttl.
func WithShareTokenTTL(ttl time.Duration) Option {
	return func(o *options) { o.shareTokenTTL = ttl }
}

func New(t *testing.T, opts ...Option) *TestServer {
	t.Helper()

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	userRepo := sqlite.NewUserRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)
	stageRepo := sqlite.NewStageRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	shareRepo := sqlite.NewShareRepository(db)
	tokenRepo := sqlite.NewShareTokenRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	tokens := auth.NewTokenManager(secret, time.Hour)
	userSvc := user.NewService(userRepo, auth.NewPasswordManager(bcrypt.MinCost), tokens, nil)
	projectSvc := project.NewService(projectRepo, stageRepo, taskRepo, nil)
	activitySvc := activity.NewService(activityRepo, nil)
	registry := share.NewRegistry(shareRepo, tokenRepo, userRepo, projectRepo, projectSvc, nil,
		share.WithTokenTTL(o.shareTokenTTL),
		share.WithActivityLogger(activitySvc),
	)
	resolver := access.NewResolver(projectRepo, shareRepo, tokenRepo, nil)
	facade := access.NewFacade(resolver, projectSvc, registry, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: projectSvc,
			Access:   facade,
		},
		Resolver:      tokens,
		TransportMode: "http",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true},
	)

	server := httptest.NewServer(transport.NewServer(transport.Config{
		Services: transport.Services{
			Users:    userSvc,
			Projects: projectSvc,
			Shares:   registry,
			Access:   facade,
			Activity: activitySvc,
		},
		Resolver: tokens,
		MCP:      mcpHandler,
	}))

	ts := &TestServer{
		Server: server,
		DB:     db,
		Tokens: tokens,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// Response is a decoded HTTP response.
type Response struct {
	Status int
	Body   []byte
}

// Decode unmarshals the response body into dst.
func (r Response) Decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, dst), string(r.Body))
}

// Do sends a JSON request; an empty token sends no Authorization header.
func (ts *TestServer) Do(t *testing.T, method, path, token string, body any) Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return Response{Status: resp.StatusCode, Body: data}
}

// User is a registered, logged-in test user.
type User struct {
	ID       string
	Username string
	Token    string
}

// Register creates a user and logs them in.
func (ts *TestServer) Register(t *testing.T, username string) User {
	t.Helper()

	password := "password-" + username
	resp := ts.Do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))

	var u struct {
		ID string `json:"id"`
	}
	resp.Decode(t, &u)

	resp = ts.Do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"login":    username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))

	var login struct {
		Token string `json:"token"`
	}
	resp.Decode(t, &login)

	return User{ID: u.ID, Username: username, Token: login.Token}
}
