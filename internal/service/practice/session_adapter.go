package practice

import (
	"context"

	"github.com/google/uuid"
	"github.com/recitehq/recite-api/internal/domain"
	"github.com/recitehq/recite-api/internal/session"
)

// Verify interface compliance at compile time
var (
	_ session.Source = (*sessionAdapter)(nil)
	_ session.Sink   = (*sessionAdapter)(nil)
)

// NewSessionAdapter binds a PracticeService to one user, exposing it as the
// session engine's Source and Sink boundaries. The session package stays
// free of user identity; the adapter carries it.
func NewSessionAdapter(service PracticeService, userID uuid.UUID) *sessionAdapter {
	if service == nil {
		panic("service cannot be nil")
	}
	return &sessionAdapter{service: service, userID: userID}
}

type sessionAdapter struct {
	service PracticeService
	userID  uuid.UUID
}

// StartSession implements session.Source.
func (a *sessionAdapter) StartSession(
	ctx context.Context,
	groupID uuid.UUID,
	limit int,
	mode session.Mode,
) (*session.Start, error) {
	return a.service.StartSession(ctx, a.userID, groupID, limit, mode)
}

// SubmitRating implements session.Sink.
func (a *sessionAdapter) SubmitRating(
	ctx context.Context,
	cardID uuid.UUID,
	rating domain.Rating,
) (*domain.ReviewState, error) {
	return a.service.SubmitRating(ctx, a.userID, cardID, rating)
}
