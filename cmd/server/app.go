package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/bahasabuddy/api/internal/config"
	"github.com/bahasabuddy/api/internal/domain/srs"
	"github.com/bahasabuddy/api/internal/events"
	"github.com/bahasabuddy/api/internal/platform/postgres"
	"github.com/bahasabuddy/api/internal/service"
	"github.com/bahasabuddy/api/internal/service/auth"
	"github.com/bahasabuddy/api/internal/service/progress"
	"github.com/bahasabuddy/api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	profileStore        store.ProfileStore
	cardProgressStore   store.CardProgressStore
	lessonProgressStore store.LessonProgressStore
	dailyGoalStore      store.DailyGoalStore
	achievementStore    store.AchievementStore
	catalogStore        store.CatalogStore

	// Service interfaces
	jwtService      auth.JWTService
	srsService      srs.Service
	xpService       service.XPService
	goalService     service.DailyGoalService
	lessonService   service.LessonService
	progressService progress.ProgressService

	// Event system
	eventEmitter events.EventEmitter
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize stores
	app.profileStore = postgres.NewPostgresProfileStore(db, logger)
	app.cardProgressStore = postgres.NewPostgresCardProgressStore(db, logger)
	app.lessonProgressStore = postgres.NewPostgresLessonProgressStore(db, logger)
	app.dailyGoalStore = postgres.NewPostgresDailyGoalStore(db, logger)
	app.achievementStore = postgres.NewPostgresAchievementStore(db, logger)
	app.catalogStore = postgres.NewPostgresCatalogStore(db, logger)

	// Initialize event emitter and register the achievement sweep handler
	emitter := events.NewInMemoryEventEmitter(logger)
	awarder, err := service.NewAchievementAwarder(
		db,
		app.achievementStore,
		app.profileStore,
		app.cardProgressStore,
		app.lessonProgressStore,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create achievement awarder: %w", err)
	}
	emitter.RegisterHandler(awarder)
	app.eventEmitter = emitter

	// Initialize SRS service
	app.srsService = srs.NewDefaultService()

	// Initialize XP service
	app.xpService, err = service.NewXPService(app.profileStore, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create XP service: %w", err)
	}

	// Initialize daily goal service with configured default targets
	app.goalService, err = service.NewDailyGoalService(
		app.dailyGoalStore,
		cfg.Progress.GoalTargets(),
		app.eventEmitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create daily goal service: %w", err)
	}

	// Initialize lesson service
	app.lessonService, err = service.NewLessonService(
		app.lessonProgressStore,
		app.catalogStore,
		app.xpService,
		app.goalService,
		app.eventEmitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create lesson service: %w", err)
	}

	// Initialize the review coordinator
	app.progressService = progress.NewProgressService(
		app.cardProgressStore,
		app.catalogStore,
		app.srsService,
		app.xpService,
		app.goalService,
		app.eventEmitter,
		cfg.Progress.XPPerCardReview,
		cfg.Progress.ReviewBatchSize,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
