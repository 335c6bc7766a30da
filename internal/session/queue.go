package session

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/recitehq/recite-api/internal/domain"
)

// BuildStart assembles the session queue from the full set of practice
// cards in a group. The returned queue is the complete merged list — due
// cards first (due_at ascending), then not-yet-due cards (due_at
// ascending), ties broken by the card's static display position — truncated
// to limit. The counts cover the full group, not the truncated slice.
//
// Both modes use the same merged, sorted list: in due mode the due cards
// lead the queue; in all mode the caller simply practices through it
// without regard to due status.
func BuildStart(cards []PracticeCard, limit int, now time.Time) *Start {
	sorted := make([]PracticeCard, len(cards))
	copy(sorted, cards)

	isDue := func(c PracticeCard) bool { return !c.DueAt.After(now) }

	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := isDue(sorted[i]), isDue(sorted[j])
		if di != dj {
			return di
		}
		if !sorted[i].DueAt.Equal(sorted[j].DueAt) {
			return sorted[i].DueAt.Before(sorted[j].DueAt)
		}
		return sorted[i].Position < sorted[j].Position
	})

	dueCount, newCount := 0, 0
	for _, c := range cards {
		if isDue(c) {
			dueCount++
		}
		if c.State == domain.CardStateNew {
			newCount++
		}
	}

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	return &Start{
		Cards:    sorted,
		DueCount: dueCount,
		NewCount: newCount,
	}
}

// Queue is the live state of one practice session. All operations run to
// completion between user interactions; nothing here is safe for
// concurrent use.
type Queue struct {
	ProjectID    uuid.UUID
	GroupID      uuid.UUID
	Mode         Mode
	WriteThrough bool

	Cards        []PracticeCard
	Position     int
	Revealed     bool
	InitialCount int
	Reviewed     int

	undo snapshotStack
}

// NewQueue creates a live queue over an assembled card list.
func NewQueue(projectID, groupID uuid.UUID, mode Mode, writeThrough bool, cards []PracticeCard) *Queue {
	return &Queue{
		ProjectID:    projectID,
		GroupID:      groupID,
		Mode:         mode,
		WriteThrough: writeThrough,
		Cards:        cards,
		InitialCount: len(cards),
		undo:         newSnapshotStack(1),
	}
}

// Current returns the card at the session's position.
func (q *Queue) Current() (PracticeCard, bool) {
	if q.Finished() {
		return PracticeCard{}, false
	}
	return q.Cards[q.Position], true
}

// Finished reports whether the queue has been exhausted.
func (q *Queue) Finished() bool {
	return len(q.Cards) == 0
}

// Len returns the number of cards still queued.
func (q *Queue) Len() int {
	return len(q.Cards)
}

// Flip toggles the reveal flag for the current card.
func (q *Queue) Flip() {
	q.Revealed = !q.Revealed
}

// ApplyRating applies a rating's local consequences using the store's
// authoritative next state: the rated card is removed from its position and
// either reinserted at the policy offset or dismissed from the session.
// The pre-rating state is captured for undo before anything mutates.
func (q *Queue) ApplyRating(rating domain.Rating, next *domain.ReviewState, now time.Time) {
	if q.Finished() {
		return
	}

	q.captureUndo()

	card := q.Cards[q.Position].applyState(next)
	dueSoon := !next.DueAt.After(now.Add(DueSoonWindow))
	offset, requeue := ReinsertOffset(rating, next.State, dueSoon)

	q.removeAndReinsert(card, offset, requeue)
	q.Reviewed++
	q.Revealed = false
}

// SimulateRating applies a rating's local consequences without any
// authoritative state, using the simplified simulation offsets. No server
// state is touched; this is only possible in free-practice mode.
func (q *Queue) SimulateRating(rating domain.Rating) {
	if q.Finished() {
		return
	}

	q.captureUndo()

	card := q.Cards[q.Position]
	offset, requeue := SimulatedReinsertOffset(rating)

	q.removeAndReinsert(card, offset, requeue)
	q.Reviewed++
	q.Revealed = false
}

// Undo restores the state captured before the last rating and discards it.
// Returns false when there is nothing to undo.
func (q *Queue) Undo() bool {
	u, ok := q.undo.pop()
	if !ok {
		return false
	}

	q.Cards = u.Cards
	q.Position = u.Position
	q.Revealed = u.Revealed
	q.Reviewed = u.Reviewed
	return true
}

// CanUndo reports whether an undo state is available.
func (q *Queue) CanUndo() bool {
	return q.undo.len() > 0
}

func (q *Queue) captureUndo() {
	cards := make([]PracticeCard, len(q.Cards))
	copy(cards, q.Cards)
	q.undo.push(UndoState{
		Cards:    cards,
		Position: q.Position,
		Revealed: q.Revealed,
		Reviewed: q.Reviewed,
	})
}

// removeAndReinsert takes the current card out of the queue and, when the
// policy says so, puts it back at an offset from its original position,
// clamped to the queue bounds. The position is clamped afterwards so it
// stays valid.
func (q *Queue) removeAndReinsert(card PracticeCard, offset int, requeue bool) {
	pos := q.Position
	q.Cards = append(q.Cards[:pos], q.Cards[pos+1:]...)

	if requeue {
		idx := pos + offset
		if idx > len(q.Cards) {
			idx = len(q.Cards)
		}
		q.Cards = append(q.Cards, PracticeCard{})
		copy(q.Cards[idx+1:], q.Cards[idx:])
		q.Cards[idx] = card
	}

	if q.Position >= len(q.Cards) {
		q.Position = len(q.Cards) - 1
	}
	if q.Position < 0 {
		q.Position = 0
	}
}
