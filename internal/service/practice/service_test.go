package practice

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recitehq/recite-api/internal/domain"
	"github.com/recitehq/recite-api/internal/domain/srs"
	"github.com/recitehq/recite-api/internal/session"
	"github.com/recitehq/recite-api/internal/store"

	_ "modernc.org/sqlite"
)

// fakeCardStore serves cards from memory.
type fakeCardStore struct {
	cards   map[uuid.UUID]*domain.Card
	byGroup map[uuid.UUID][]*domain.Card
	listErr error
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{
		cards:   make(map[uuid.UUID]*domain.Card),
		byGroup: make(map[uuid.UUID][]*domain.Card),
	}
}

func (f *fakeCardStore) add(card *domain.Card) {
	f.cards[card.ID] = card
	f.byGroup[card.GroupID] = append(f.byGroup[card.GroupID], card)
}

func (f *fakeCardStore) ListByGroup(_ context.Context, groupID uuid.UUID) ([]*domain.Card, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byGroup[groupID], nil
}

func (f *fakeCardStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Card, error) {
	card, ok := f.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

func (f *fakeCardStore) WithTx(_ *sql.Tx) store.CardStore { return f }

// fakeStateStore keeps review states in memory keyed by (user, card).
type fakeStateStore struct {
	states      map[uuid.UUID]map[uuid.UUID]*domain.ReviewState
	ensureCalls int
	updateErr   error
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{states: make(map[uuid.UUID]map[uuid.UUID]*domain.ReviewState)}
}

func (f *fakeStateStore) put(state *domain.ReviewState) {
	if f.states[state.UserID] == nil {
		f.states[state.UserID] = make(map[uuid.UUID]*domain.ReviewState)
	}
	f.states[state.UserID][state.CardID] = state
}

func (f *fakeStateStore) EnsureExists(_ context.Context, userID uuid.UUID, cardIDs []uuid.UUID) error {
	f.ensureCalls++
	for _, cardID := range cardIDs {
		if f.states[userID] != nil && f.states[userID][cardID] != nil {
			continue
		}
		state, err := domain.NewReviewState(userID, cardID)
		if err != nil {
			return err
		}
		f.put(state)
	}
	return nil
}

func (f *fakeStateStore) GetBatch(_ context.Context, userID uuid.UUID, cardIDs []uuid.UUID) ([]*domain.ReviewState, error) {
	var out []*domain.ReviewState
	for _, cardID := range cardIDs {
		if f.states[userID] != nil && f.states[userID][cardID] != nil {
			out = append(out, f.states[userID][cardID])
		}
	}
	return out, nil
}

func (f *fakeStateStore) Get(_ context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error) {
	if f.states[userID] == nil || f.states[userID][cardID] == nil {
		return nil, store.ErrReviewStateNotFound
	}
	return f.states[userID][cardID], nil
}

func (f *fakeStateStore) Update(_ context.Context, state *domain.ReviewState) (*domain.ReviewState, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.states[state.UserID] == nil || f.states[state.UserID][state.CardID] == nil {
		return nil, store.ErrReviewStateNotFound
	}
	f.put(state)
	return state, nil
}

func (f *fakeStateStore) WithTx(_ *sql.Tx) store.ReviewStateStore { return f }

// fakeLogStore records appended entries.
type fakeLogStore struct {
	entries   []*domain.ReviewLogEntry
	appendErr error
}

func (f *fakeLogStore) Append(_ context.Context, entry *domain.ReviewLogEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeLogStore) WithTx(_ *sql.Tx) store.ReviewLogStore { return f }

// openTestDB opens an in-memory database used only for transaction scaffolding.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	return db
}

type serviceFixture struct {
	service PracticeService
	cards   *fakeCardStore
	states  *fakeStateStore
	logs    *fakeLogStore
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	cards := newFakeCardStore()
	states := newFakeStateStore()
	logs := &fakeLogStore{}

	svc := NewPracticeService(
		openTestDB(t), cards, states, logs, srs.NewDefaultService(), nil)

	return &serviceFixture{service: svc, cards: cards, states: states, logs: logs}
}

func newGroupCard(groupID uuid.UUID, position int) *domain.Card {
	now := time.Now().UTC()
	return &domain.Card{
		ID:        uuid.New(),
		GroupID:   groupID,
		ProjectID: uuid.New(),
		Front:     "front",
		Back:      "back",
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStartSessionInitializesStates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newServiceFixture(t)

	userID, groupID := uuid.New(), uuid.New()
	for i := 0; i < 3; i++ {
		f.cards.add(newGroupCard(groupID, i))
	}

	start, err := f.service.StartSession(ctx, userID, groupID, 100, session.ModeDue)
	require.NoError(t, err)

	assert.Equal(t, 1, f.states.ensureCalls)
	require.Len(t, start.Cards, 3)
	assert.Equal(t, 3, start.DueCount, "fresh states default to due now")
	assert.Equal(t, 3, start.NewCount)
	for _, c := range start.Cards {
		assert.Equal(t, domain.CardStateNew, c.State)
		assert.Equal(t, domain.DefaultEase, c.Ease)
	}
}

func TestStartSessionPreservesExistingStates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newServiceFixture(t)

	userID, groupID := uuid.New(), uuid.New()
	card := newGroupCard(groupID, 0)
	f.cards.add(card)

	// A card already in review keeps its state through session start.
	existing, err := domain.NewReviewState(userID, card.ID)
	require.NoError(t, err)
	existing.State = domain.CardStateReview
	existing.IntervalDays = 10
	existing.DueAt = time.Now().UTC().AddDate(0, 0, 5)
	f.states.put(existing)

	start, err := f.service.StartSession(ctx, userID, groupID, 100, session.ModeAll)
	require.NoError(t, err)

	require.Len(t, start.Cards, 1)
	assert.Equal(t, domain.CardStateReview, start.Cards[0].State)
	assert.Equal(t, 10, start.Cards[0].IntervalDays)
	assert.Equal(t, 0, start.DueCount)
	assert.Equal(t, 0, start.NewCount)
}

func TestStartSessionEmptyGroup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newServiceFixture(t)

	start, err := f.service.StartSession(ctx, uuid.New(), uuid.New(), 100, session.ModeDue)
	require.NoError(t, err)

	assert.Empty(t, start.Cards)
	assert.Equal(t, 0, start.DueCount)
	assert.Equal(t, 0, start.NewCount)
	assert.Equal(t, 0, f.states.ensureCalls, "no cards, nothing to initialize")
}

func TestStartSessionTruncatesToLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newServiceFixture(t)

	userID, groupID := uuid.New(), uuid.New()
	for i := 0; i < 7; i++ {
		f.cards.add(newGroupCard(groupID, i))
	}

	start, err := f.service.StartSession(ctx, userID, groupID, 2, session.ModeDue)
	require.NoError(t, err)

	assert.Len(t, start.Cards, 2)
	assert.Equal(t, 7, start.DueCount, "counts cover the full group")
	assert.Equal(t, 7, start.NewCount)
}

func TestStartSessionListError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newServiceFixture(t)
	f.cards.listErr = errors.New("connection refused")

	_, err := f.service.StartSession(ctx, uuid.New(), uuid.New(), 100, session.ModeDue)
	require.Error(t, err)
}

func TestSubmitRatingPersistsAndLogs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newServiceFixture(t)

	userID, groupID := uuid.New(), uuid.New()
	card := newGroupCard(groupID, 0)
	f.cards.add(card)
	require.NoError(t, f.states.EnsureExists(ctx, userID, []uuid.UUID{card.ID}))

	updated, err := f.service.SubmitRating(ctx, userID, card.ID, domain.RatingGood)
	require.NoError(t, err)

	// A new card rated good graduates to review with a one-day interval.
	assert.Equal(t, domain.CardStateReview, updated.State)
	assert.Equal(t, 1, updated.IntervalDays)
	assert.Equal(t, 1, updated.Reps)

	stored, err := f.states.Get(ctx, userID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.State, stored.State)

	require.Len(t, f.logs.entries, 1)
	entry := f.logs.entries[0]
	assert.Equal(t, card.ID, entry.CardID)
	assert.Equal(t, domain.RatingGood, entry.Rating)
	assert.Equal(t, domain.CardStateNew, entry.PrevState)
	assert.Equal(t, domain.CardStateReview, entry.NextState)
}

func TestSubmitRatingCardNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newServiceFixture(t)

	_, err := f.service.SubmitRating(ctx, uuid.New(), uuid.New(), domain.RatingGood)
	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.Empty(t, f.logs.entries)
}

func TestSubmitRatingStateNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newServiceFixture(t)

	userID, groupID := uuid.New(), uuid.New()
	card := newGroupCard(groupID, 0)
	f.cards.add(card)

	// The card exists but no session ever initialized its state.
	_, err := f.service.SubmitRating(ctx, userID, card.ID, domain.RatingGood)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestSubmitRatingInvalidRating(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newServiceFixture(t)

	_, err := f.service.SubmitRating(ctx, uuid.New(), uuid.New(), domain.Rating("perfect"))
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestSubmitRatingUpdateFailureRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newServiceFixture(t)

	userID, groupID := uuid.New(), uuid.New()
	card := newGroupCard(groupID, 0)
	f.cards.add(card)
	require.NoError(t, f.states.EnsureExists(ctx, userID, []uuid.UUID{card.ID}))
	f.states.updateErr = errors.New("disk full")

	_, err := f.service.SubmitRating(ctx, userID, card.ID, domain.RatingGood)
	require.Error(t, err)

	// No audit entry for a failed state write.
	assert.Empty(t, f.logs.entries)

	stored, err := f.states.Get(ctx, userID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CardStateNew, stored.State, "state unchanged after failure")
}

func TestSubmitRatingLogFailureIsSwallowed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newServiceFixture(t)

	userID, groupID := uuid.New(), uuid.New()
	card := newGroupCard(groupID, 0)
	f.cards.add(card)
	require.NoError(t, f.states.EnsureExists(ctx, userID, []uuid.UUID{card.ID}))
	f.logs.appendErr = errors.New("log table locked")

	updated, err := f.service.SubmitRating(ctx, userID, card.ID, domain.RatingGood)
	require.NoError(t, err, "a failed audit append never fails the rating")
	assert.Equal(t, domain.CardStateReview, updated.State)
}

func TestSessionAdapterBindsUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	userID := uuid.New()
	var gotUser uuid.UUID

	mock := &MockPracticeService{
		StartSessionFunc: func(_ context.Context, u, _ uuid.UUID, _ int, _ session.Mode) (*session.Start, error) {
			gotUser = u
			return &session.Start{}, nil
		},
		SubmitRatingFunc: func(_ context.Context, u, cardID uuid.UUID, _ domain.Rating) (*domain.ReviewState, error) {
			gotUser = u
			return &domain.ReviewState{UserID: u, CardID: cardID}, nil
		},
	}

	adapter := NewSessionAdapter(mock, userID)

	_, err := adapter.StartSession(ctx, uuid.New(), 10, session.ModeDue)
	require.NoError(t, err)
	assert.Equal(t, userID, gotUser)

	gotUser = uuid.Nil
	_, err = adapter.SubmitRating(ctx, uuid.New(), domain.RatingGood)
	require.NoError(t, err)
	assert.Equal(t, userID, gotUser)
}
