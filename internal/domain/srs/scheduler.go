package srs

import (
	"math"
	"time"

	"github.com/recitehq/recite-api/internal/domain"
)

// nextEase applies the rating's ease adjustment and clamps the result to
// the configured bounds.
func nextEase(currentEase float64, rating domain.Rating, params *Params) float64 {
	ease := currentEase + params.EaseAdjustment[rating]

	if ease < params.MinEase {
		ease = params.MinEase
	}
	if ease > params.MaxEase {
		ease = params.MaxEase
	}

	return ease
}

// reviewInterval computes the next interval, in days, for a card already in
// the review state. The stored ease (before adjustment) drives the growth;
// a non-positive stored interval is treated as 1 to guard against zero or
// negative legacy values.
func reviewInterval(currentInterval int, ease float64, rating domain.Rating, params *Params) int {
	base := currentInterval
	if base <= 0 {
		base = 1
	}

	var next int
	switch rating {
	case domain.RatingHard:
		next = int(math.Floor(float64(base) * params.HardMultiplier))
	case domain.RatingGood:
		next = int(math.Floor(float64(base) * ease))
	case domain.RatingEasy:
		next = int(math.Floor(float64(base) * ease * params.EasyBonus))
	}

	if next < 1 {
		next = 1
	}
	return next
}

// computeNext derives the full next scheduling state for a rating applied at
// the given instant. It returns a new ReviewState and never mutates the
// prior one.
//
// The transition rules:
//   - again always drops the card back to a learning state (relearning when
//     it was in review, so lapse history is distinguishable), resets the
//     interval, and schedules it minutes away.
//   - hard on a not-yet-graduated card keeps it in learning with a longer
//     step; good and easy graduate it into review at the configured initial
//     intervals.
//   - ratings on a review card grow the interval multiplicatively.
func computeNext(prior *domain.ReviewState, rating domain.Rating, now time.Time, params *Params) *domain.ReviewState {
	next := &domain.ReviewState{
		UserID:         prior.UserID,
		CardID:         prior.CardID,
		State:          prior.State,
		DueAt:          prior.DueAt,
		IntervalDays:   prior.IntervalDays,
		Ease:           prior.Ease,
		Reps:           prior.Reps,
		Lapses:         prior.Lapses,
		LastReviewedAt: now,
		CreatedAt:      prior.CreatedAt,
		UpdatedAt:      now,
	}

	if rating == domain.RatingAgain {
		if prior.State == domain.CardStateReview {
			next.State = domain.CardStateRelearning
		} else {
			next.State = domain.CardStateLearning
		}
		next.IntervalDays = 0
		next.Ease = nextEase(prior.Ease, rating, params)
		next.DueAt = now.Add(params.AgainDelay)
		next.Lapses++
		return next
	}

	next.Reps++

	if prior.State == domain.CardStateReview {
		// Interval growth uses the stored ease; the adjustment applies to
		// the card's future ease only.
		next.IntervalDays = reviewInterval(prior.IntervalDays, prior.Ease, rating, params)
		next.Ease = nextEase(prior.Ease, rating, params)
		next.State = domain.CardStateReview
		next.DueAt = now.AddDate(0, 0, next.IntervalDays)
		return next
	}

	// Coming from new, learning, or relearning.
	switch rating {
	case domain.RatingHard:
		next.State = domain.CardStateLearning
		next.IntervalDays = 0
		next.Ease = nextEase(prior.Ease, rating, params)
		next.DueAt = now.Add(params.HardDelay)
	case domain.RatingGood:
		next.State = domain.CardStateReview
		next.IntervalDays = params.GraduatingInterval[domain.RatingGood]
		next.DueAt = now.AddDate(0, 0, next.IntervalDays)
	case domain.RatingEasy:
		next.State = domain.CardStateReview
		next.IntervalDays = params.GraduatingInterval[domain.RatingEasy]
		next.Ease = nextEase(prior.Ease, rating, params)
		next.DueAt = now.AddDate(0, 0, next.IntervalDays)
	}

	return next
}
