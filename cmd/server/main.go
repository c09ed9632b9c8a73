package main

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

	"showcase/internal/api"
	"showcase/internal/app/service"
	"showcase/internal/common/security"
	"showcase/internal/domain/repository"
	"showcase/internal/platform/config"
	"showcase/internal/platform/database"
	"showcase/internal/platform/queue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func Run(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Setup Logger
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 3. Initialize Database and apply migrations
	db, applied, err := database.OpenAndMigrate(ctx, cfg.DBDriver, cfg.DBConnStr)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database ready", "driver", cfg.DBDriver, "migrations_applied", applied)

	// 4. Submission events go to redis when it is configured and reachable
	var publisher queue.Publisher = queue.NopPublisher{}
	if cfg.RedisAddr != "" {
		rdb, err := queue.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("Failed to connect to Redis, submission events disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer rdb.Close()
			publisher = queue.NewRedisPublisher(rdb, cfg.SubmissionQueueName)
			logger.Info("Redis connected", "addr", cfg.RedisAddr, "queue", cfg.SubmissionQueueName)
		}
	}

	// 5. Initialize Repositories and Services
	tokens := security.NewTokenService(cfg.JWTKey, cfg.JWTExp)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	authService := service.NewAuthService(userRepo, tokens)
	projectService := service.NewProjectService(projectRepo, commentRepo, publisher, logger)
	commentService := service.NewCommentService(commentRepo)

	// 6. Initialize Router & HTTP Server
	router := api.NewRouter(api.Dependencies{
		Tokens:         tokens,
		AuthService:    authService,
		ProjectService: projectService,
		CommentService: commentService,
		Logger:         logger,
		RequestLogging: true,
	})

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.APIPort, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// 7. Graceful Shutdown
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("could not listen on %s: %w", cfg.APIPort, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("Server stopped gracefully")
	return nil
}
