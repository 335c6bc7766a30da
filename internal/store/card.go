package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/recitehq/recite-api/internal/domain"
)

// CardStore is the read-only boundary to the card content source.
// Card creation and editing belong to the content CRUD layer; the session
// core only lists what is in a group.
type CardStore interface {
	// ListByGroup retrieves every card in the given group, ordered by the
	// card's static display position. An empty group yields an empty slice,
	// not an error.
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*domain.Card, error)

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// WithTx returns a new CardStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) CardStore
}
