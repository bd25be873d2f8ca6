package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/oakmund/taskfolio/internal/config"
	"github.com/oakmund/taskfolio/internal/database"
	"github.com/oakmund/taskfolio/internal/handler"
	"github.com/oakmund/taskfolio/internal/middleware"
	"github.com/oakmund/taskfolio/internal/repository"
	"github.com/oakmund/taskfolio/internal/service"
	"github.com/oakmund/taskfolio/pkg/auth"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg),
	}))
	slog.SetDefault(logger)

	// Connect to database
	slog.Info("connecting_database")
	db, err := database.Connect(database.Config{
		URL:          cfg.Database.URL,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
	}()

	// Run auto migration
	if cfg.Database.AutoMigrate {
		slog.Info("running_migrations")
		if err := database.Migrate(context.Background(), db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize token manager
	tokenManager := auth.NewTokenManager(cfg.Session.Secret, cfg.Session.Duration)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokenManager, cfg.Database.QueryTimeout)
	taskService := service.NewTaskService(taskRepo, categoryRepo, cfg.Database.QueryTimeout)

	// Initialize handlers
	h, err := handler.New(authService, taskService, handler.Config{
		SessionSecret: cfg.Session.Secret,
		SessionMaxAge: int(cfg.Session.Duration.Seconds()),
		SecureCookies: cfg.Session.Secure,
	})
	if err != nil {
		log.Fatalf("Failed to initialize handlers: %v", err)
	}

	// Build the router: request logging first, then the route guard ahead
	// of every page so redirects fire before any handler runs.
	guard := middleware.NewRouteGuard(tokenManager)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(guard.Handler)
	h.Routes(r)

	server := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server_listening", "port", cfg.Server.HTTPPort, "environment", cfg.Server.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	slog.Info("server_stopped")
}

func logLevel(cfg *config.Config) slog.Level {
	if cfg.IsDevelopment() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
