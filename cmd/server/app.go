package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/events"
	"github.com/phrazzld/storefront-api/internal/platform/postgres"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/phrazzld/storefront-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore         store.UserStore
	categoryStore     store.CategoryStore
	productStore      store.ProductStore
	refreshTokenStore store.RefreshTokenStore
	taskStore         task.TaskStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	userService      service.UserService
	categoryService  service.CategoryService
	productService   service.ProductService

	// Event system and background processing
	eventEmitter events.EventEmitter
	taskRunner   *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts the core dependencies (configuration, logger,
// database connection) that must be established before initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.categoryStore = postgres.NewPostgresCategoryStore(db, logger)
	app.productStore = postgres.NewPostgresProductStore(db, logger)
	app.refreshTokenStore = postgres.NewPostgresRefreshTokenStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	app.taskRunner = task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		WorkerCount:  cfg.Task.WorkerCount,
		QueueSize:    cfg.Task.QueueSize,
		StuckTaskAge: time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
	}, logger)

	// The view counter runs as a background task so catalog reads never
	// wait on the write.
	viewTaskFactory := task.NewProductViewTaskFactory(app.productStore, logger)
	viewEventHandler := task.NewProductViewEventHandler(viewTaskFactory, app.taskRunner, logger)

	emitter, ok := app.eventEmitter.(*events.InMemoryEventEmitter)
	if !ok {
		return nil, fmt.Errorf("unexpected event emitter type, cannot register view handler")
	}
	emitter.RegisterHandler(viewEventHandler)

	app.userService = service.NewUserService(app.userStore, db, logger)
	app.categoryService = service.NewCategoryService(app.categoryStore, db, logger)
	app.productService = service.NewProductService(
		app.productStore,
		app.userStore,
		app.eventEmitter,
		db,
		logger,
	)

	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
