package practice

import (
	"context"

	"github.com/google/uuid"
	"github.com/recitehq/recite-api/internal/domain"
	"github.com/recitehq/recite-api/internal/session"
)

// MockPracticeService is a mock implementation of the PracticeService
// interface for testing.
type MockPracticeService struct {
	StartSessionFunc func(ctx context.Context, userID, groupID uuid.UUID, limit int, mode session.Mode) (*session.Start, error)
	SubmitRatingFunc func(ctx context.Context, userID, cardID uuid.UUID, rating domain.Rating) (*domain.ReviewState, error)
}

// StartSession delegates to StartSessionFunc, or returns an empty start.
func (m *MockPracticeService) StartSession(
	ctx context.Context,
	userID uuid.UUID,
	groupID uuid.UUID,
	limit int,
	mode session.Mode,
) (*session.Start, error) {
	if m.StartSessionFunc != nil {
		return m.StartSessionFunc(ctx, userID, groupID, limit, mode)
	}
	return &session.Start{}, nil
}

// SubmitRating delegates to SubmitRatingFunc, or returns a zero state.
func (m *MockPracticeService) SubmitRating(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
	rating domain.Rating,
) (*domain.ReviewState, error) {
	if m.SubmitRatingFunc != nil {
		return m.SubmitRatingFunc(ctx, userID, cardID, rating)
	}
	return &domain.ReviewState{UserID: userID, CardID: cardID}, nil
}
