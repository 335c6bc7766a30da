package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewReviewState(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()

	state, err := NewReviewState(userID, cardID)
	if err != nil {
		t.Fatalf("NewReviewState returned error: %v", err)
	}

	if state.State != CardStateNew {
		t.Errorf("expected state %q, got %q", CardStateNew, state.State)
	}
	if state.IntervalDays != 0 {
		t.Errorf("expected interval 0, got %d", state.IntervalDays)
	}
	if state.Ease != DefaultEase {
		t.Errorf("expected ease %v, got %v", DefaultEase, state.Ease)
	}
	if state.Reps != 0 || state.Lapses != 0 {
		t.Errorf("expected zero reps and lapses, got %d/%d", state.Reps, state.Lapses)
	}
	if !state.LastReviewedAt.IsZero() {
		t.Errorf("expected zero LastReviewedAt, got %v", state.LastReviewedAt)
	}

	// A brand new card must be due immediately.
	if !state.IsDue(time.Now().UTC().Add(time.Second)) {
		t.Error("expected new state to be due")
	}
}

func TestNewReviewStateValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewReviewState(uuid.Nil, uuid.New()); err != ErrEmptyStateUserID {
		t.Errorf("expected ErrEmptyStateUserID, got %v", err)
	}
	if _, err := NewReviewState(uuid.New(), uuid.Nil); err != ErrEmptyStateCardID {
		t.Errorf("expected ErrEmptyStateCardID, got %v", err)
	}
}

func TestReviewStateValidate(t *testing.T) {
	t.Parallel()

	base := func() *ReviewState {
		s, err := NewReviewState(uuid.New(), uuid.New())
		if err != nil {
			t.Fatalf("NewReviewState returned error: %v", err)
		}
		return s
	}

	testCases := []struct {
		name    string
		mutate  func(*ReviewState)
		wantErr error
	}{
		{
			name:    "valid state passes",
			mutate:  func(s *ReviewState) {},
			wantErr: nil,
		},
		{
			name:    "unknown card state",
			mutate:  func(s *ReviewState) { s.State = CardState("suspended") },
			wantErr: ErrInvalidCardState,
		},
		{
			name:    "negative interval",
			mutate:  func(s *ReviewState) { s.IntervalDays = -1 },
			wantErr: ErrInvalidInterval,
		},
		{
			name:    "ease at or below 1.0",
			mutate:  func(s *ReviewState) { s.Ease = 1.0 },
			wantErr: ErrInvalidEase,
		},
		{
			name:    "negative reps",
			mutate:  func(s *ReviewState) { s.Reps = -1 },
			wantErr: ErrNegativeReps,
		},
		{
			name:    "negative lapses",
			mutate:  func(s *ReviewState) { s.Lapses = -2 },
			wantErr: ErrNegativeLapses,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := base()
			tc.mutate(s)
			if err := s.Validate(); err != tc.wantErr {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestRatingValid(t *testing.T) {
	t.Parallel()

	for _, r := range []Rating{RatingAgain, RatingHard, RatingGood, RatingEasy} {
		if !r.Valid() {
			t.Errorf("expected %q to be valid", r)
		}
	}
	if Rating("ok").Valid() {
		t.Error("expected unknown rating to be invalid")
	}
}

func TestIsDue(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	s := &ReviewState{DueAt: now}

	if !s.IsDue(now) {
		t.Error("card due exactly now should be due")
	}
	if s.IsDue(now.Add(-time.Minute)) {
		t.Error("card due in the future should not be due")
	}
	if !s.IsDue(now.Add(time.Minute)) {
		t.Error("overdue card should be due")
	}
}
