package practice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/recitehq/recite-api/internal/domain"
	"github.com/recitehq/recite-api/internal/domain/srs"
	"github.com/recitehq/recite-api/internal/platform/logger"
	"github.com/recitehq/recite-api/internal/session"
	"github.com/recitehq/recite-api/internal/store"
)

// Verify interface compliance at compile time
var _ PracticeService = (*practiceServiceImpl)(nil)

// practiceServiceImpl implements the PracticeService interface.
type practiceServiceImpl struct {
	db         *sql.DB
	cardStore  store.CardStore
	stateStore store.ReviewStateStore
	logStore   store.ReviewLogStore
	srsService srs.Service
	logger     *slog.Logger
	now        func() time.Time
}

// NewPracticeService creates a new PracticeService implementation.
func NewPracticeService(
	db *sql.DB,
	cardStore store.CardStore,
	stateStore store.ReviewStateStore,
	logStore store.ReviewLogStore,
	srsService srs.Service,
	log *slog.Logger,
) PracticeService {
	if db == nil {
		panic("db cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if stateStore == nil {
		panic("stateStore cannot be nil")
	}
	if logStore == nil {
		panic("logStore cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &practiceServiceImpl{
		db:         db,
		cardStore:  cardStore,
		stateStore: stateStore,
		logStore:   logStore,
		srsService: srsService,
		logger:     log.With(slog.String("component", "practice_service")),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// StartSession implements PracticeService.StartSession.
func (s *practiceServiceImpl) StartSession(
	ctx context.Context,
	userID uuid.UUID,
	groupID uuid.UUID,
	limit int,
	mode session.Mode,
) (*session.Start, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cardStore.ListByGroup(ctx, groupID)
	if err != nil {
		log.Error("failed to list group cards",
			slog.String("error", err.Error()),
			slog.String("group_id", groupID.String()))
		return nil, fmt.Errorf("failed to list group cards: %w", err)
	}

	now := s.now()

	if len(cards) == 0 {
		log.Debug("group has no cards",
			slog.String("group_id", groupID.String()))
		return session.BuildStart(nil, limit, now), nil
	}

	cardIDs := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		cardIDs[i] = c.ID
	}

	if err := s.stateStore.EnsureExists(ctx, userID, cardIDs); err != nil {
		log.Error("failed to initialize review states",
			slog.String("error", err.Error()),
			slog.String("group_id", groupID.String()))
		return nil, fmt.Errorf("failed to initialize review states: %w", err)
	}

	states, err := s.stateStore.GetBatch(ctx, userID, cardIDs)
	if err != nil {
		log.Error("failed to load review states",
			slog.String("error", err.Error()),
			slog.String("group_id", groupID.String()))
		return nil, fmt.Errorf("failed to load review states: %w", err)
	}

	byCard := make(map[uuid.UUID]*domain.ReviewState, len(states))
	for _, st := range states {
		byCard[st.CardID] = st
	}

	practiceCards := make([]session.PracticeCard, 0, len(cards))
	for _, card := range cards {
		state, ok := byCard[card.ID]
		if !ok {
			// EnsureExists ran in this request; a missing row here is a
			// store inconsistency.
			return nil, fmt.Errorf(
				"review state missing for card %s after initialization", card.ID)
		}
		practiceCards = append(practiceCards, session.NewPracticeCard(card, state))
	}

	start := session.BuildStart(practiceCards, limit, now)

	log.Debug("assembled practice session",
		slog.String("user_id", userID.String()),
		slog.String("group_id", groupID.String()),
		slog.String("mode", string(mode)),
		slog.Int("group_size", len(cards)),
		slog.Int("queue_len", len(start.Cards)),
		slog.Int("due_count", start.DueCount),
		slog.Int("new_count", start.NewCount))

	return start, nil
}

// SubmitRating implements PracticeService.SubmitRating.
func (s *practiceServiceImpl) SubmitRating(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
	rating domain.Rating,
) (*domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !rating.Valid() {
		log.Warn("invalid rating",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("rating", string(rating)))
		return nil, ErrInvalidRating
	}

	now := s.now()

	var (
		prev    *domain.ReviewState
		updated *domain.ReviewState
	)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cardStore := s.cardStore.WithTx(tx)
		stateStore := s.stateStore.WithTx(tx)

		if _, err := cardStore.GetByID(ctx, cardID); err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to get card: %w", err)
		}

		current, err := stateStore.Get(ctx, userID, cardID)
		if err != nil {
			if errors.Is(err, store.ErrReviewStateNotFound) {
				return ErrStateNotFound
			}
			return fmt.Errorf("failed to get review state: %w", err)
		}
		prev = current

		next, err := s.srsService.Next(current, rating, now)
		if err != nil {
			return fmt.Errorf("failed to compute next state: %w", err)
		}

		updated, err = stateStore.Update(ctx, next)
		if err != nil {
			return fmt.Errorf("failed to update review state: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) ||
			errors.Is(err, ErrStateNotFound) {
			log.Warn("rating rejected",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return nil, err
		}

		log.Error("failed to submit rating",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, fmt.Errorf("failed to submit rating: %w", err)
	}

	// The log append is deliberately outside the transaction: a failed
	// audit write never takes the committed state change down with it.
	s.appendLog(ctx, prev, updated, rating, now)

	log.Debug("applied rating",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("rating", string(rating)),
		slog.String("state", string(updated.State)),
		slog.Int("interval_days", updated.IntervalDays),
		slog.Float64("ease", updated.Ease),
		slog.Time("due_at", updated.DueAt))

	return updated, nil
}

// appendLog writes the audit entry for a committed rating, best-effort.
func (s *practiceServiceImpl) appendLog(
	ctx context.Context,
	prev, next *domain.ReviewState,
	rating domain.Rating,
	now time.Time,
) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entry, err := domain.NewReviewLogEntry(prev, next, rating, now)
	if err != nil {
		log.Warn("failed to build review log entry",
			slog.String("error", err.Error()),
			slog.String("card_id", next.CardID.String()))
		return
	}

	if err := s.logStore.Append(ctx, entry); err != nil {
		log.Warn("failed to append review log entry",
			slog.String("error", err.Error()),
			slog.String("card_id", next.CardID.String()))
	}
}
