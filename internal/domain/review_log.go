package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewLogEntry validation errors
var (
	ErrEmptyLogUserID = errors.New("review log user ID cannot be empty")
	ErrEmptyLogCardID = errors.New("review log card ID cannot be empty")
)

// ReviewLogEntry is an append-only audit record of a single rating event.
// It captures the scheduling state on both sides of the transition and is
// immutable once written. History and reporting features consume these
// entries; this core only writes them.
type ReviewLogEntry struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	CardID uuid.UUID `json:"card_id"`
	Rating Rating    `json:"rating"`

	PrevState        CardState `json:"prev_state"`
	PrevDueAt        time.Time `json:"prev_due_at"`
	PrevIntervalDays int       `json:"prev_interval_days"`
	PrevEase         float64   `json:"prev_ease"`

	NextState        CardState `json:"next_state"`
	NextDueAt        time.Time `json:"next_due_at"`
	NextIntervalDays int       `json:"next_interval_days"`
	NextEase         float64   `json:"next_ease"`

	CreatedAt time.Time `json:"created_at"`
}

// NewReviewLogEntry builds an audit entry from the states before and after
// a rating was applied.
func NewReviewLogEntry(prev, next *ReviewState, rating Rating, now time.Time) (*ReviewLogEntry, error) {
	entry := &ReviewLogEntry{
		ID:     uuid.New(),
		UserID: prev.UserID,
		CardID: prev.CardID,
		Rating: rating,

		PrevState:        prev.State,
		PrevDueAt:        prev.DueAt,
		PrevIntervalDays: prev.IntervalDays,
		PrevEase:         prev.Ease,

		NextState:        next.State,
		NextDueAt:        next.DueAt,
		NextIntervalDays: next.IntervalDays,
		NextEase:         next.Ease,

		CreatedAt: now,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the ReviewLogEntry has valid data.
func (e *ReviewLogEntry) Validate() error {
	if e.UserID == uuid.Nil {
		return ErrEmptyLogUserID
	}

	if e.CardID == uuid.Nil {
		return ErrEmptyLogCardID
	}

	if !e.Rating.Valid() {
		return ErrInvalidRating
	}

	return nil
}
