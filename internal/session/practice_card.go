package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/recitehq/recite-api/internal/domain"
)

// Mode selects which cards a session is about.
type Mode string

// Possible session modes
const (
	// ModeDue practices what the schedule says is due; ratings always
	// write through to the review-state store.
	ModeDue Mode = "due"

	// ModeAll is free practice over the whole group, on demand; ratings
	// may write through or stay a local simulation.
	ModeAll Mode = "all"
)

// Valid reports whether the mode is one of the known session modes.
func (m Mode) Valid() bool {
	return m == ModeDue || m == ModeAll
}

// PracticeCard is the session-local view of a card: identity, content for
// display, and a snapshot of its scheduling fields used for ordering.
// It is derived at session start and discarded at session end.
type PracticeCard struct {
	CardID       uuid.UUID        `json:"card_id"`
	Front        string           `json:"front"`
	Back         string           `json:"back"`
	Position     int              `json:"position"`
	State        domain.CardState `json:"state"`
	DueAt        time.Time        `json:"due_at"`
	IntervalDays int              `json:"interval_days"`
	Ease         float64          `json:"ease"`
}

// NewPracticeCard combines a card with its review state into the
// session-local view.
func NewPracticeCard(card *domain.Card, state *domain.ReviewState) PracticeCard {
	return PracticeCard{
		CardID:       card.ID,
		Front:        card.Front,
		Back:         card.Back,
		Position:     card.Position,
		State:        state.State,
		DueAt:        state.DueAt,
		IntervalDays: state.IntervalDays,
		Ease:         state.Ease,
	}
}

// applyState refreshes the scheduling snapshot after a rating, keeping the
// card's identity and content.
func (c PracticeCard) applyState(state *domain.ReviewState) PracticeCard {
	c.State = state.State
	c.DueAt = state.DueAt
	c.IntervalDays = state.IntervalDays
	c.Ease = state.Ease
	return c
}

// Start is the result of assembling a session: the merged, sorted,
// truncated queue plus summary counts over the full group.
type Start struct {
	Cards    []PracticeCard `json:"cards"`
	DueCount int            `json:"due_count"`
	NewCount int            `json:"new_count"`
}
