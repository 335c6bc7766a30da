package session

import (
	"time"

	"github.com/recitehq/recite-api/internal/domain"
)

// DueSoonWindow is how close a card's next due time must be to "now" for it
// to be kept in the current session rather than dismissed.
const DueSoonWindow = 30 * time.Minute

// Reinsertion offsets from the rated card's original queue position.
const (
	againOffset         = 4
	hardOffset          = 8
	simulateAgainOffset = 3
	simulateHardOffset  = 8
)

// ReinsertOffset decides whether a just-rated card comes back into the
// current session and at what offset from its original position. It is the
// write-through policy: the caller supplies the authoritative next state
// and whether the next due time falls within DueSoonWindow.
//
// A card is reinserted only if the rating was again, or the card is still
// in a pre-review state, or it is due again soon. Otherwise it leaves the
// session.
func ReinsertOffset(rating domain.Rating, nextState domain.CardState, dueSoon bool) (int, bool) {
	if rating == domain.RatingAgain {
		return againOffset, true
	}

	stillLearning := nextState == domain.CardStateLearning ||
		nextState == domain.CardStateRelearning ||
		nextState == domain.CardStateNew

	if !stillLearning && !dueSoon {
		return 0, false
	}

	// hard surfaces later than again; good/easy that somehow remain in
	// the session use the same far offset.
	return hardOffset, true
}

// SimulatedReinsertOffset is the local-simulation policy used when a
// free-practice session opts out of persistence. With no authoritative
// state to inspect, only the rating drives the decision, and the offsets
// are deliberately tuned apart from the write-through ones.
func SimulatedReinsertOffset(rating domain.Rating) (int, bool) {
	switch rating {
	case domain.RatingAgain:
		return simulateAgainOffset, true
	case domain.RatingHard:
		return simulateHardOffset, true
	default:
		return 0, false
	}
}
