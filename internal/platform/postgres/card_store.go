package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/recitehq/recite-api/internal/domain"
	"github.com/recitehq/recite-api/internal/store"
)

// CardStore implements the store.CardStore interface using a PostgreSQL
// database as the storage backend. It is read-only: card content management
// belongs to the CRUD layer.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a new PostgreSQL implementation of the CardStore
// interface. If logger is nil, a default logger will be used.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure CardStore implements store.CardStore
var _ store.CardStore = (*CardStore)(nil)

const cardColumns = `id, group_id, project_id, front, back, position, created_at, updated_at`

// ListByGroup implements store.CardStore.ListByGroup.
func (s *CardStore) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*domain.Card, error) {
	const query = `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE group_id = $1
		ORDER BY position, created_at`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, mapError("list cards", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var cards []*domain.Card
	for rows.Next() {
		var card domain.Card
		err := rows.Scan(
			&card.ID, &card.GroupID, &card.ProjectID, &card.Front,
			&card.Back, &card.Position, &card.CreatedAt, &card.UpdatedAt)
		if err != nil {
			return nil, mapError("scan card", err)
		}
		cards = append(cards, &card)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list cards", err)
	}

	return cards, nil
}

// GetByID implements store.CardStore.GetByID.
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	const query = `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE id = $1`

	var card domain.Card
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID, &card.GroupID, &card.ProjectID, &card.Front,
		&card.Back, &card.Position, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		return nil, mapError("get card", err)
	}

	return &card, nil
}

// WithTx implements store.CardStore.WithTx.
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{
		db:     tx,
		logger: s.logger,
	}
}
