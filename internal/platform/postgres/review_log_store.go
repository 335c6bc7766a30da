package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/recitehq/recite-api/internal/domain"
	"github.com/recitehq/recite-api/internal/store"
)

// ReviewLogStore implements the store.ReviewLogStore interface using a
// PostgreSQL database as the storage backend. The log is append-only; no
// update or delete paths exist.
type ReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewLogStore creates a new PostgreSQL implementation of the
// ReviewLogStore interface. If logger is nil, a default logger will be used.
func NewReviewLogStore(db store.DBTX, logger *slog.Logger) *ReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

// Ensure ReviewLogStore implements store.ReviewLogStore
var _ store.ReviewLogStore = (*ReviewLogStore)(nil)

// Append implements store.ReviewLogStore.Append.
func (s *ReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLogEntry) error {
	if err := entry.Validate(); err != nil {
		return mapError("append review log", err)
	}

	const query = `
		INSERT INTO review_log (
			id, user_id, card_id, rating,
			prev_state, prev_due_at, prev_interval_days, prev_ease,
			next_state, next_due_at, next_interval_days, next_ease,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.CardID, entry.Rating,
		entry.PrevState, entry.PrevDueAt, entry.PrevIntervalDays, entry.PrevEase,
		entry.NextState, entry.NextDueAt, entry.NextIntervalDays, entry.NextEase,
		entry.CreatedAt)
	if err != nil {
		return mapError("append review log", err)
	}

	return nil
}

// WithTx implements store.ReviewLogStore.WithTx.
func (s *ReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &ReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}
