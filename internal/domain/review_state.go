package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CardState represents where a card sits in the scheduling lifecycle.
type CardState string

// Possible card state values
const (
	CardStateNew        CardState = "new"
	CardStateLearning   CardState = "learning"
	CardStateRelearning CardState = "relearning"
	CardStateReview     CardState = "review"
)

// Rating represents the user's self-assessment of a card review.
type Rating string

// Possible rating values
const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// DefaultEase is the ease factor assigned to a card that has never been rated.
const DefaultEase = 2.5

// Common validation errors for ReviewState
var (
	ErrEmptyStateUserID = errors.New("review state user ID cannot be empty")
	ErrEmptyStateCardID = errors.New("review state card ID cannot be empty")
	ErrInvalidCardState = errors.New("invalid card state")
	ErrInvalidInterval  = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEase      = errors.New("ease must be greater than 1.0")
	ErrNegativeReps     = errors.New("reps cannot be negative")
	ErrNegativeLapses   = errors.New("lapses cannot be negative")
	ErrInvalidRating    = errors.New("invalid rating")
)

// ReviewState tracks a user's spaced repetition scheduling state for a
// specific card. One row exists per (user, card) pair, created lazily the
// first time the card is presented in any session, and mutated only by
// applying the scheduler's output.
type ReviewState struct {
	UserID         uuid.UUID `json:"user_id"`
	CardID         uuid.UUID `json:"card_id"`
	State          CardState `json:"state"`
	DueAt          time.Time `json:"due_at"`          // when the card should next be presented
	IntervalDays   int       `json:"interval_days"`   // scheduled gap once in review
	Ease           float64   `json:"ease"`            // multiplier governing interval growth
	Reps           int       `json:"reps"`            // successful (non-again) presentations
	Lapses         int       `json:"lapses"`          // count of again ratings
	LastReviewedAt time.Time `json:"last_reviewed_at"` // zero until the first rating
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewReviewState creates the default scheduling state for a user and card.
// New cards are due immediately so they surface in the next session.
func NewReviewState(userID, cardID uuid.UUID) (*ReviewState, error) {
	now := time.Now().UTC()
	state := &ReviewState{
		UserID:       userID,
		CardID:       cardID,
		State:        CardStateNew,
		DueAt:        now,
		IntervalDays: 0,
		Ease:         DefaultEase,
		Reps:         0,
		Lapses:       0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the ReviewState has valid data.
// Returns an error if any field fails validation.
func (s *ReviewState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyStateUserID
	}

	if s.CardID == uuid.Nil {
		return ErrEmptyStateCardID
	}

	if !s.State.Valid() {
		return ErrInvalidCardState
	}

	if s.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	if s.Ease <= 1.0 {
		return ErrInvalidEase
	}

	if s.Reps < 0 {
		return ErrNegativeReps
	}

	if s.Lapses < 0 {
		return ErrNegativeLapses
	}

	return nil
}

// IsDue reports whether the card should be presented at the given instant.
func (s *ReviewState) IsDue(now time.Time) bool {
	return !s.DueAt.After(now)
}

// Valid reports whether the card state is one of the known lifecycle states.
func (cs CardState) Valid() bool {
	switch cs {
	case CardStateNew, CardStateLearning, CardStateRelearning, CardStateReview:
		return true
	default:
		return false
	}
}

// Valid reports whether the rating is one of the four accepted values.
func (r Rating) Valid() bool {
	switch r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return true
	default:
		return false
	}
}
