// Package main initializes and starts the portfolio server, setting up
// configuration, logging, the database, repositories, services, handlers
// and optional TLS.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/folio/internal/config"
	"github.com/atinyakov/folio/internal/db"
	"github.com/atinyakov/folio/internal/logger"
	"github.com/atinyakov/folio/internal/models"
	"github.com/atinyakov/folio/internal/repository"
	"github.com/atinyakov/folio/internal/server/handler/http"
	"github.com/atinyakov/folio/internal/service"
	"github.com/atinyakov/folio/internal/upload"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse .env, flags, config file and environment.
	options, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(2)
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	// Purge expired sessions in the background.
	db.StartSessionCleaner(ctx, postgresDB, time.Hour, zapLogger)

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	sessionRepo := repository.NewPostgresSessionRepository(postgresDB)
	projectRepo := repository.NewPostgresProjectRepository(postgresDB)
	postRepo := repository.NewPostgresPostRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, sessionRepo, options.SessionTTL.Duration, zapLogger)
	projectService := service.NewContentService[*models.Project, *service.ProjectForm]("project", projectRepo, zapLogger)
	postService := service.NewContentService[*models.BlogPost, *service.PostForm]("post", postRepo, zapLogger)
	overviewService := service.NewOverviewService(projectRepo, postRepo, zapLogger)

	uploads := upload.NewStore(options.UploadDir)

	// Create HTTP handlers.
	handlers := http.Handlers{
		Auth: &http.AuthHandler{
			AuthService:   authService,
			SecureCookies: options.SecureCookies,
			Log:           zapLogger,
		},
		Pages: &http.PageHandler{Overview: overviewService, Log: zapLogger},
		Projects: &http.ContentHandler[*models.Project, *service.ProjectForm]{
			Service: projectService,
			Uploads: uploads,
			NewForm: func() *service.ProjectForm { return &service.ProjectForm{Visibility: string(models.Public)} },
			Path:    "/projects",
			Titles:  http.Titles{List: "Projects", Show: "Project", New: "New Project", Edit: "Edit Project"},
			Log:     zapLogger,
		},
		Posts: &http.ContentHandler[*models.BlogPost, *service.PostForm]{
			Service: postService,
			Uploads: uploads,
			NewForm: func() *service.PostForm { return &service.PostForm{Visibility: string(models.Public)} },
			Path:    "/blog",
			Titles:  http.Titles{List: "Blog", Show: "Post", New: "New Post", Edit: "Edit Post"},
			Log:     zapLogger,
		},
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(handlers, sessionRepo, options.UploadDir, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	if options.TLSCert != "" && options.TLSKey != "" {
		zapLogger.Info("starting HTTPS server", zap.String("addr", options.Port))
		err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
	} else {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("server failed", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
