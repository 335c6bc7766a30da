package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/recitehq/recite-api/internal/config"
	"github.com/recitehq/recite-api/internal/domain/srs"
	"github.com/recitehq/recite-api/internal/platform/postgres"
	"github.com/recitehq/recite-api/internal/service/practice"
	"github.com/recitehq/recite-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	cardStore  store.CardStore
	stateStore store.ReviewStateStore
	logStore   store.ReviewLogStore

	// Service interfaces
	srsService      srs.Service
	practiceService practice.PracticeService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	_ context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.cardStore = postgres.NewCardStore(db, logger)
	app.stateStore = postgres.NewReviewStateStore(db, logger)
	app.logStore = postgres.NewReviewLogStore(db, logger)

	// Initialize scheduler
	app.srsService = srs.NewDefaultService()

	// Initialize practice service
	app.practiceService = practice.NewPracticeService(
		db,
		app.cardStore,
		app.stateStore,
		app.logStore,
		app.srsService,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
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
