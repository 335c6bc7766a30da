package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/recitehq/recite-api/internal/domain"
)

// ReviewStateStore defines the interface for review-state persistence.
// One row exists per (user, card); rows are created lazily and never
// deleted by this core.
type ReviewStateStore interface {
	// EnsureExists idempotently creates default review-state rows for any
	// of the given cards that lack one. It must be safe to call repeatedly:
	// no duplicate rows, no overwrite of existing state.
	EnsureExists(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) error

	// GetBatch retrieves the review states for the given cards. Cards with
	// no row are simply absent from the result; callers that need every row
	// call EnsureExists first.
	GetBatch(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) ([]*domain.ReviewState, error)

	// Get retrieves a single review state.
	// Returns ErrReviewStateNotFound if no row exists for the pair.
	Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error)

	// Update persists the full next-state tuple and returns the
	// authoritative stored row. Callers must treat the returned values as
	// the source of truth for due_at/state/interval/ease, even when they
	// differ from what was submitted.
	// Returns ErrReviewStateNotFound if no row exists for the pair.
	Update(ctx context.Context, state *domain.ReviewState) (*domain.ReviewState, error)

	// WithTx returns a new ReviewStateStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ReviewStateStore
}
