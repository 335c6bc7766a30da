package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/recitehq/recite-api/internal/domain"
	"github.com/recitehq/recite-api/internal/store"
)

// ReviewStateStore implements the store.ReviewStateStore interface
// using a PostgreSQL database as the storage backend.
type ReviewStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewStateStore creates a new PostgreSQL implementation of the
// ReviewStateStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewReviewStateStore(db store.DBTX, logger *slog.Logger) *ReviewStateStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ReviewStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_state_store")),
	}
}

// Ensure ReviewStateStore implements store.ReviewStateStore
var _ store.ReviewStateStore = (*ReviewStateStore)(nil)

const reviewStateColumns = `user_id, card_id, state, due_at, interval_days, ease,
	reps, lapses, last_reviewed_at, created_at, updated_at`

// EnsureExists implements store.ReviewStateStore.EnsureExists.
// Existing rows keep their state untouched; only missing rows are created
// with the lazy-init defaults.
func (s *ReviewStateStore) EnsureExists(
	ctx context.Context,
	userID uuid.UUID,
	cardIDs []uuid.UUID,
) error {
	if len(cardIDs) == 0 {
		return nil
	}

	const query = `
		INSERT INTO review_states (` + reviewStateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULL, $9, $10)
		ON CONFLICT (user_id, card_id) DO NOTHING`

	for _, cardID := range cardIDs {
		def, err := domain.NewReviewState(userID, cardID)
		if err != nil {
			return mapError("ensure review state", err)
		}

		_, err = s.db.ExecContext(ctx, query,
			def.UserID, def.CardID, def.State, def.DueAt, def.IntervalDays,
			def.Ease, def.Reps, def.Lapses, def.CreatedAt, def.UpdatedAt)
		if err != nil {
			return mapError("ensure review state", err)
		}
	}

	return nil
}

// GetBatch implements store.ReviewStateStore.GetBatch.
func (s *ReviewStateStore) GetBatch(
	ctx context.Context,
	userID uuid.UUID,
	cardIDs []uuid.UUID,
) ([]*domain.ReviewState, error) {
	if len(cardIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + reviewStateColumns + `
		FROM review_states
		WHERE user_id = $1 AND card_id IN (` + inPlaceholders(2, len(cardIDs)) + `)`

	args := make([]any, 0, len(cardIDs)+1)
	args = append(args, userID)
	for _, id := range cardIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("get review states", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var states []*domain.ReviewState
	for rows.Next() {
		state, err := scanReviewState(rows)
		if err != nil {
			return nil, mapError("scan review state", err)
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("get review states", err)
	}

	return states, nil
}

// Get implements store.ReviewStateStore.Get.
func (s *ReviewStateStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.ReviewState, error) {
	const query = `
		SELECT ` + reviewStateColumns + `
		FROM review_states
		WHERE user_id = $1 AND card_id = $2`

	row := s.db.QueryRowContext(ctx, query, userID, cardID)
	state, err := scanReviewState(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReviewStateNotFound
		}
		return nil, mapError("get review state", err)
	}

	return state, nil
}

// Update implements store.ReviewStateStore.Update. The full row is written
// and the stored row is returned via RETURNING, making the store the source
// of truth for due_at/state/interval/ease.
func (s *ReviewStateStore) Update(
	ctx context.Context,
	state *domain.ReviewState,
) (*domain.ReviewState, error) {
	if err := state.Validate(); err != nil {
		return nil, mapError("update review state", err)
	}

	const query = `
		UPDATE review_states
		SET state = $3, due_at = $4, interval_days = $5, ease = $6,
			reps = $7, lapses = $8, last_reviewed_at = $9, updated_at = $10
		WHERE user_id = $1 AND card_id = $2
		RETURNING ` + reviewStateColumns

	var lastReviewedAt any
	if !state.LastReviewedAt.IsZero() {
		lastReviewedAt = state.LastReviewedAt
	}

	row := s.db.QueryRowContext(ctx, query,
		state.UserID, state.CardID, state.State, state.DueAt,
		state.IntervalDays, state.Ease, state.Reps, state.Lapses,
		lastReviewedAt, state.UpdatedAt)

	stored, err := scanReviewState(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReviewStateNotFound
		}
		return nil, mapError("update review state", err)
	}

	return stored, nil
}

// WithTx implements store.ReviewStateStore.WithTx.
func (s *ReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return &ReviewStateStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReviewState(row rowScanner) (*domain.ReviewState, error) {
	var state domain.ReviewState
	var lastReviewedAt sql.NullTime

	err := row.Scan(
		&state.UserID, &state.CardID, &state.State, &state.DueAt,
		&state.IntervalDays, &state.Ease, &state.Reps, &state.Lapses,
		&lastReviewedAt, &state.CreatedAt, &state.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if lastReviewedAt.Valid {
		state.LastReviewedAt = lastReviewedAt.Time.UTC()
	} else {
		state.LastReviewedAt = time.Time{}
	}

	return &state, nil
}
