package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/Chrix-Dev/To-do-app/docs" // Swagger docs (generated)
	"github.com/Chrix-Dev/To-do-app/internal/auth"
	"github.com/Chrix-Dev/To-do-app/internal/config"
	"github.com/Chrix-Dev/To-do-app/internal/database"
	httpServer "github.com/Chrix-Dev/To-do-app/internal/http"
	"github.com/Chrix-Dev/To-do-app/internal/logging"
	"github.com/Chrix-Dev/To-do-app/internal/todo"
	"github.com/Chrix-Dev/To-do-app/internal/user"
)

// @title           Todo API
// @version         1.0
// @description     A task list REST API with token authentication and per-user todos.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Repositories
	userRepo := user.NewRepository(db)
	todoRepo := todo.NewRepository(db)

	// Token service
	tokenService, err := auth.NewJWTService(cfg.Auth.Secret, cfg.Auth.Algorithm)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Services
	authService := auth.NewService(userRepo, tokenService, cfg.Auth.TokenTTL)
	todoService := todo.NewService(todoRepo)

	// HTTP handlers and middleware
	authHandler := auth.NewHandler(authService)
	todoHandler := todo.NewHandler(todoService)
	authMiddleware := auth.NewMiddleware(tokenService, userRepo)

	router := httpServer.NewRouter(cfg, authHandler, todoHandler, authMiddleware, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		logger,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received shutdown signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}
