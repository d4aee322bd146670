package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rpggio/waypoint/internal/auth"
	"github.com/rpggio/waypoint/internal/config"
	"github.com/rpggio/waypoint/internal/domain/access"
	"github.com/rpggio/waypoint/internal/domain/activity"
	"github.com/rpggio/waypoint/internal/domain/project"
	"github.com/rpggio/waypoint/internal/domain/share"
	"github.com/rpggio/waypoint/internal/domain/user"
	"github.com/rpggio/waypoint/internal/mcp"
	"github.com/rpggio/waypoint/internal/repository"
	"github.com/rpggio/waypoint/internal/sqlite"
	"github.com/rpggio/waypoint/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == config.TransportStdio {
		logWriter = os.Stderr
	}
	if logPath := os.Getenv("WAYPOINT_LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	userRepo := sqlite.NewUserRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)
	stageRepo := sqlite.NewStageRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	shareRepo := sqlite.NewShareRepository(db)
	tokenRepo := sqlite.NewShareTokenRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	passwords := auth.NewPasswordManager(cfg.Auth.BcryptCost)

	userSvc := user.NewService(userRepo, passwords, tokens, logger)
	projectSvc := project.NewService(projectRepo, stageRepo, taskRepo, logger)
	activitySvc := activity.NewService(activityRepo, logger)
	registry := share.NewRegistry(shareRepo, tokenRepo, userRepo, projectRepo, projectSvc, logger,
		share.WithTokenTTL(cfg.Share.TokenTTL),
		share.WithActivityLogger(activitySvc),
	)
	resolver := access.NewResolver(projectRepo, shareRepo, tokenRepo, logger)
	facade := access.NewFacade(resolver, projectSvc, registry, logger)

	mcpCfg := mcp.Config{
		Services: mcp.Services{
			Projects: projectSvc,
			Access:   facade,
		},
		Resolver:      tokens,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	}

	if cfg.Transport.Mode == config.TransportStdio {
		userID, err := ensureLocalUser(context.Background(), userRepo, userSvc, cfg.MCP.DefaultUser)
		if err != nil {
			logger.Error("failed to resolve default user", "username", cfg.MCP.DefaultUser, "error", err)
			os.Exit(1)
		}
		mcpCfg.DefaultUser = userID
		runStdioMode(logger, mcp.NewServer(mcpCfg))
		return
	}

	var mcpHandler http.Handler
	if cfg.MCP.Enabled {
		mcpServer := mcp.NewServer(mcpCfg)
		mcpHandler = sdkmcp.NewStreamableHTTPHandler(
			func(r *http.Request) *sdkmcp.Server { return mcpServer },
			&sdkmcp.StreamableHTTPOptions{
				Stateless:      false,
				SessionTimeout: 30 * time.Minute,
			},
		)
	}

	router := transport.NewServer(transport.Config{
		Services: transport.Services{
			Users:    userSvc,
			Projects: projectSvc,
			Shares:   registry,
			Access:   facade,
			Activity: activitySvc,
		},
		Resolver: tokens,
		MCP:      mcpHandler,
		Logger:   logger,
	})
	runHTTPMode(logger, router, cfg.Server.Host, cfg.Server.Port)
}

// ensureLocalUser returns the ID of username, registering it with a random
// password when the database does not know it yet.
func ensureLocalUser(ctx context.Context, users *sqlite.UserRepository, svc *user.Service, username string) (string, error) {
	u, err := users.GetByUsername(ctx, username)
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}
	u, err = svc.Register(ctx, user.RegisterRequest{
		Username: username,
		Email:    username + "@localhost.localdomain",
		Password: uuid.NewString(),
	})
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport", "auth", "disabled")

	stdio := &sdkmcp.StdioTransport{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, stdio); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, router chi.Router, host string, port int) {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file}
	if err := writer.truncateIfNeeded(); err != nil {
		return nil, nil, err
	}
	return writer, file, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}
	if size <= keepLogSizeBytes {
		return nil
	}

	buf := make([]byte, keepLogSizeBytes)
	if _, err := w.file.Seek(size-keepLogSizeBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := w.file.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}
