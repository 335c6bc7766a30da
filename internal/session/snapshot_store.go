package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// Snapshot store errors
var (
	// ErrSnapshotNotFound is returned when no snapshot exists for the key.
	ErrSnapshotNotFound = errors.New("session snapshot not found")

	// ErrSnapshotStale is returned when a snapshot exists but is discarded:
	// wrong schema version, mismatched key, or older than the freshness
	// window. The stored row is deleted; callers rebuild the session.
	ErrSnapshotStale = errors.New("session snapshot stale")
)

// DefaultSnapshotTTL is the freshness window beyond which a persisted
// session is discarded rather than resumed.
const DefaultSnapshotTTL = 6 * time.Hour

// SnapshotStore persists session snapshots in a local SQLite file, keyed by
// (project, group). It is a cache: any entry can be safely discarded and
// the session rebuilt from the server.
type SnapshotStore struct {
	db     *sql.DB
	ttl    time.Duration
	logger *slog.Logger
}

// OpenSnapshotStore opens (or creates) the snapshot database at path.
// A ttl of zero selects DefaultSnapshotTTL. If logger is nil, a default
// logger will be used.
func OpenSnapshotStore(path string, ttl time.Duration, logger *slog.Logger) (*SnapshotStore, error) {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SnapshotStore{
		db:     db,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "snapshot_store")),
	}
	if err := s.migrate(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			s.logger.Warn("failed to close snapshot db", slog.String("error", closeErr.Error()))
		}
		return nil, fmt.Errorf("migrate snapshot db: %w", err)
	}

	return s, nil
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

func (s *SnapshotStore) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS session_snapshots (
		project_id TEXT NOT NULL,
		group_id   TEXT NOT NULL,
		saved_at   TEXT NOT NULL,
		payload    BLOB NOT NULL,
		PRIMARY KEY (project_id, group_id)
	);`

	_, err := s.db.Exec(schema)
	return err
}

// Save persists the snapshot, replacing any previous one for the same
// (project, group) key. Last writer wins.
func (s *SnapshotStore) Save(ctx context.Context, snap *Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	const query = `
		INSERT OR REPLACE INTO session_snapshots (project_id, group_id, saved_at, payload)
		VALUES (?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		snap.ProjectID.String(), snap.GroupID.String(),
		snap.SavedAt.UTC().Format(time.RFC3339Nano), payload)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return nil
}

// Load retrieves the snapshot for (project, group) if it exists, carries
// the current schema version, matches the key, and is younger than the
// freshness window. Anything else returns ErrSnapshotStale (deleting the
// stored row) or ErrSnapshotNotFound.
func (s *SnapshotStore) Load(ctx context.Context, projectID, groupID uuid.UUID, now time.Time) (*Snapshot, error) {
	const query = `
		SELECT payload FROM session_snapshots
		WHERE project_id = ? AND group_id = ?`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, projectID.String(), groupID.String()).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		s.discard(ctx, projectID, groupID, "undecodable")
		return nil, ErrSnapshotStale
	}

	switch {
	case snap.Version != SnapshotSchemaVersion:
		s.discard(ctx, projectID, groupID, "schema version mismatch")
		return nil, ErrSnapshotStale
	case snap.ProjectID != projectID || snap.GroupID != groupID:
		s.discard(ctx, projectID, groupID, "key mismatch")
		return nil, ErrSnapshotStale
	case now.Sub(snap.SavedAt) > s.ttl:
		s.discard(ctx, projectID, groupID, "expired")
		return nil, ErrSnapshotStale
	}

	return &snap, nil
}

// Delete removes the snapshot for (project, group), if any.
func (s *SnapshotStore) Delete(ctx context.Context, projectID, groupID uuid.UUID) error {
	const query = `DELETE FROM session_snapshots WHERE project_id = ? AND group_id = ?`
	_, err := s.db.ExecContext(ctx, query, projectID.String(), groupID.String())
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) discard(ctx context.Context, projectID, groupID uuid.UUID, reason string) {
	if err := s.Delete(ctx, projectID, groupID); err != nil {
		s.logger.Warn("failed to discard stale snapshot",
			slog.String("reason", reason),
			slog.String("error", err.Error()))
		return
	}
	s.logger.Debug("discarded stale snapshot",
		slog.String("project_id", projectID.String()),
		slog.String("group_id", groupID.String()),
		slog.String("reason", reason))
}
