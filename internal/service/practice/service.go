package practice

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/recitehq/recite-api/internal/domain"
	"github.com/recitehq/recite-api/internal/session"
)

// PracticeService provides the server-side operations behind a practice
// session: assembling the session queue for a group and applying ratings
// through the spaced repetition scheduler.
type PracticeService interface {
	// StartSession assembles the practice queue for every card in the
	// group. Review-state rows are created lazily for any card that lacks
	// one, so the result always carries a scheduling state per card.
	//
	// Parameters:
	//   - ctx: Context for the operation, which can include correlation ID and cancellation
	//   - userID: UUID of the user opening the session
	//   - groupID: UUID of the card group being practiced
	//   - limit: maximum queue length; zero or negative means no truncation
	//   - mode: due-first scheduled practice or free practice over the group
	//
	// Returns:
	//   - (*session.Start, nil): The merged, sorted, truncated queue plus
	//     due/new counts over the full group. An empty group yields an
	//     empty queue, not an error.
	//   - (nil, error): Any other error, typically from the database
	StartSession(
		ctx context.Context,
		userID uuid.UUID,
		groupID uuid.UUID,
		limit int,
		mode session.Mode,
	) (*session.Start, error)

	// SubmitRating applies a rating to a card's review state: the current
	// state is loaded, the scheduler computes the next state, and the
	// result is persisted, all within a single transaction. A review-log
	// entry is appended afterwards, best-effort.
	//
	// Returns:
	//   - (*domain.ReviewState, nil): The authoritative stored state.
	//     Callers must treat it as the source of truth even when it
	//     differs from what they would compute locally.
	//   - (nil, ErrCardNotFound): If the card does not exist
	//   - (nil, ErrStateNotFound): If no review state exists for the pair;
	//     rating a card whose state row is missing fails rather than
	//     silently creating one
	//   - (nil, ErrInvalidRating): If the rating is not one of the four
	//   - (nil, error): Any other error, typically from the database
	SubmitRating(
		ctx context.Context,
		userID uuid.UUID,
		cardID uuid.UUID,
		rating domain.Rating,
	) (*domain.ReviewState, error)
}

// Common error types for PracticeService
var (
	// ErrCardNotFound indicates that the rated card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrStateNotFound indicates that no review state exists for the
	// (user, card) pair. States are created at session start; a rating
	// against a missing row is a client ordering bug, not a cue to
	// create one.
	ErrStateNotFound = errors.New("review state not found")

	// ErrInvalidRating indicates that the rating is not one of
	// again/hard/good/easy.
	ErrInvalidRating = domain.ErrInvalidRating
)
