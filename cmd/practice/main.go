// Package main implements a terminal practice client. It drives a study
// session over one card group directly against the database, persisting
// progress locally so an interrupted session can be resumed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/recitehq/recite-api/internal/config"
	"github.com/recitehq/recite-api/internal/domain/srs"
	"github.com/recitehq/recite-api/internal/platform/logger"
	"github.com/recitehq/recite-api/internal/platform/postgres"
	"github.com/recitehq/recite-api/internal/service/practice"
	"github.com/recitehq/recite-api/internal/session"
)

func main() {
	userFlag := flag.String("user", "", "user ID (UUID, required)")
	projectFlag := flag.String("project", "", "project ID (UUID, required)")
	groupFlag := flag.String("group", "", "card group ID (UUID, required)")
	limitFlag := flag.Int("limit", 0, "cap the session queue (0 uses the configured default)")
	modeFlag := flag.String("mode", string(session.ModeDue), "session mode: due or all")
	simulateFlag := flag.Bool("simulate", false,
		"local simulation only, no ratings written (all mode only)")
	snapshotFlag := flag.String("snapshot-db", "",
		"path to the local session snapshot database (default ~/.recite/sessions.db)")
	flag.Parse()

	if err := run(*userFlag, *projectFlag, *groupFlag,
		*limitFlag, *modeFlag, *simulateFlag, *snapshotFlag); err != nil {
		log.Fatalf("practice: %v", err)
	}
}

func run(userArg, projectArg, groupArg string,
	limit int, modeArg string, simulate bool, snapshotPath string,
) error {
	userID, err := uuid.Parse(userArg)
	if err != nil {
		return fmt.Errorf("invalid -user: %w", err)
	}
	projectID, err := uuid.Parse(projectArg)
	if err != nil {
		return fmt.Errorf("invalid -project: %w", err)
	}
	groupID, err := uuid.Parse(groupArg)
	if err != nil {
		return fmt.Errorf("invalid -group: %w", err)
	}

	mode := session.Mode(modeArg)
	if !mode.Valid() {
		return fmt.Errorf("invalid -mode %q: want due or all", modeArg)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if limit <= 0 {
		limit = cfg.Session.DefaultLimit
	}
	if limit > cfg.Session.MaxLimit {
		limit = cfg.Session.MaxLimit
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := setupDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Error closing database connection", "error", err)
		}
	}()

	if snapshotPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to resolve home directory: %w", err)
		}
		snapshotPath = filepath.Join(home, ".recite", "sessions.db")
	}
	if err := os.MkdirAll(filepath.Dir(snapshotPath), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	ttl := time.Duration(cfg.Session.SnapshotTTLMinutes) * time.Minute
	snapshots, err := session.OpenSnapshotStore(snapshotPath, ttl, appLogger)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer func() {
		if err := snapshots.Close(); err != nil {
			appLogger.Error("Error closing snapshot store", "error", err)
		}
	}()

	practiceService := practice.NewPracticeService(
		db,
		postgres.NewCardStore(db, appLogger),
		postgres.NewReviewStateStore(db, appLogger),
		postgres.NewReviewLogStore(db, appLogger),
		srs.NewDefaultService(),
		appLogger,
	)

	adapter := practice.NewSessionAdapter(practiceService, userID)
	manager := session.NewManager(adapter, adapter, snapshots, appLogger)

	ctx := context.Background()
	if err := manager.Open(ctx, projectID, groupID, limit, mode, !simulate); err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer manager.Close(ctx)

	return runLoop(ctx, manager, os.Stdin, os.Stdout)
}
