package store

import (
	"context"
	"database/sql"

	"github.com/recitehq/recite-api/internal/domain"
)

// ReviewLogStore is the write-only boundary to the review audit log.
// Entries are append-only and immutable once written; history and
// reporting features outside this core consume them.
type ReviewLogStore interface {
	// Append writes one log entry. Callers treat failures as best-effort:
	// a failed append never rolls back the state write it accompanies.
	Append(ctx context.Context, entry *domain.ReviewLogEntry) error

	// WithTx returns a new ReviewLogStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}
