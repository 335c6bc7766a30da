package api

import (
	"time"

	"github.com/recitehq/recite-api/internal/domain"
	"github.com/recitehq/recite-api/internal/session"
)

// StartSessionRequest represents the optional request body for opening a
// practice session. An empty body selects due mode with the server default
// limit.
type StartSessionRequest struct {
	Limit int    `json:"limit"           validate:"omitempty,min=1"`
	Mode  string `json:"mode,omitempty"  validate:"omitempty,oneof=due all"`
}

// PracticeCardResponse represents one card in the assembled session queue.
type PracticeCardResponse struct {
	CardID       string    `json:"card_id"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	Position     int       `json:"position"`
	State        string    `json:"state"`
	DueAt        time.Time `json:"due_at"`
	IntervalDays int       `json:"interval_days"`
	Ease         float64   `json:"ease"`
}

// SessionResponse represents the response data for a started session.
type SessionResponse struct {
	Cards    []PracticeCardResponse `json:"cards"`
	DueCount int                    `json:"due_count"`
	NewCount int                    `json:"new_count"`
}

// RatingRequest represents the request body for rating a card.
type RatingRequest struct {
	Rating string `json:"rating" validate:"required,oneof=again hard good easy"`
}

// ReviewStateResponse represents the authoritative review state returned
// after a rating.
type ReviewStateResponse struct {
	UserID         string     `json:"user_id"`
	CardID         string     `json:"card_id"`
	State          string     `json:"state"`
	DueAt          time.Time  `json:"due_at"`
	IntervalDays   int        `json:"interval_days"`
	Ease           float64    `json:"ease"`
	Reps           int        `json:"reps"`
	Lapses         int        `json:"lapses"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// sessionToResponse converts a session start to its API representation.
func sessionToResponse(start *session.Start) SessionResponse {
	cards := make([]PracticeCardResponse, len(start.Cards))
	for i, c := range start.Cards {
		cards[i] = PracticeCardResponse{
			CardID:       c.CardID.String(),
			Front:        c.Front,
			Back:         c.Back,
			Position:     c.Position,
			State:        string(c.State),
			DueAt:        c.DueAt,
			IntervalDays: c.IntervalDays,
			Ease:         c.Ease,
		}
	}
	return SessionResponse{
		Cards:    cards,
		DueCount: start.DueCount,
		NewCount: start.NewCount,
	}
}

// stateToResponse converts a review state to its API representation.
func stateToResponse(state *domain.ReviewState) ReviewStateResponse {
	resp := ReviewStateResponse{
		UserID:       state.UserID.String(),
		CardID:       state.CardID.String(),
		State:        string(state.State),
		DueAt:        state.DueAt,
		IntervalDays: state.IntervalDays,
		Ease:         state.Ease,
		Reps:         state.Reps,
		Lapses:       state.Lapses,
	}
	if !state.LastReviewedAt.IsZero() {
		t := state.LastReviewedAt
		resp.LastReviewedAt = &t
	}
	return resp
}
