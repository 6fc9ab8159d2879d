// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/halloran/voxnote/internal/api"
	"github.com/halloran/voxnote/internal/artifact"
	"github.com/halloran/voxnote/internal/engine"
	"github.com/halloran/voxnote/internal/mcpserver"
	"github.com/halloran/voxnote/internal/notestore"
	"github.com/halloran/voxnote/internal/notify"
	"github.com/halloran/voxnote/internal/pipeline"
)

// Run starts the HTTP service with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("upload_dir", cfg.Storage.UploadDir),
		slog.String("sqlite_path", cfg.Storage.SQLitePath),
		slog.String("log_level", cfg.App.LogLevel.String()))

	arts, notes, orch, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}
	defer notes.Close()

	apiRouter := api.NewRouter(arts, orch, notes, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start the transient-storage sweeper.
	g.Go(func() error {
		return arts.Sweep(gCtx, cfg.Storage.UploadTTL(), 0, logger)
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the VoxNote tools over MCP stdio transport instead of HTTP.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	// MCP owns stdout; keep logs on stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)

	_, notes, orch, err := buildPipeline(app.config, logger)
	if err != nil {
		return err
	}
	defer notes.Close()

	return mcpserver.New(notes, orch).ServeStdio()
}

// buildPipeline constructs the shared collaborators: transient storage,
// note store, mailer, runner, and orchestrator.
func buildPipeline(cfg *Config, logger *slog.Logger) (*artifact.Store, *notestore.DB, *pipeline.Orchestrator, error) {
	arts, err := artifact.NewStore(cfg.Storage.UploadDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init upload storage: %w", err)
	}

	notes, err := notestore.Open(cfg.Storage.SQLitePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init note store: %w", err)
	}

	mailer := notify.NewMailer(cfg.Mail.Enabled, cfg.Mail.Host, cfg.Mail.Port,
		cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From, logger)
	runner := engine.NewRunner(cfg.Engines.Timeout(), logger)

	orch := pipeline.New(arts, runner, notes, mailer,
		cfg.Engines.Transcriber, cfg.Engines.Summarizer, logger)

	return arts, notes, orch, nil
}
