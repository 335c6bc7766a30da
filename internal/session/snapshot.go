package session

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotSchemaVersion tags persisted snapshots. Loading a snapshot with a
// different version discards it and rebuilds the session from scratch.
const SnapshotSchemaVersion = 1

// Snapshot is the serializable form of an in-progress session, persisted on
// every meaningful mutation so a reload or navigation does not lose
// progress. It carries at most one undo state.
type Snapshot struct {
	Version      int            `json:"version"`
	SavedAt      time.Time      `json:"saved_at"`
	ProjectID    uuid.UUID      `json:"project_id"`
	GroupID      uuid.UUID      `json:"group_id"`
	Mode         Mode           `json:"mode"`
	WriteThrough bool           `json:"write_through"`
	Cards        []PracticeCard `json:"cards"`
	Position     int            `json:"position"`
	Revealed     bool           `json:"revealed"`
	InitialCount int            `json:"initial_count"`
	Reviewed     int            `json:"reviewed"`
	Undo         *UndoState     `json:"undo,omitempty"`
}

// Snapshot captures the queue's current state for persistence.
func (q *Queue) Snapshot(now time.Time) *Snapshot {
	cards := make([]PracticeCard, len(q.Cards))
	copy(cards, q.Cards)

	snap := &Snapshot{
		Version:      SnapshotSchemaVersion,
		SavedAt:      now,
		ProjectID:    q.ProjectID,
		GroupID:      q.GroupID,
		Mode:         q.Mode,
		WriteThrough: q.WriteThrough,
		Cards:        cards,
		Position:     q.Position,
		Revealed:     q.Revealed,
		InitialCount: q.InitialCount,
		Reviewed:     q.Reviewed,
	}

	if u, ok := q.undo.peek(); ok {
		undoCopy := u
		undoCopy.Cards = make([]PracticeCard, len(u.Cards))
		copy(undoCopy.Cards, u.Cards)
		snap.Undo = &undoCopy
	}

	return snap
}

// RestoreQueue rebuilds a live queue from a persisted snapshot, verbatim:
// the restored card order and position are trusted as-is rather than
// re-deriving due/new sets that may have drifted while the session was
// closed.
func RestoreQueue(snap *Snapshot) *Queue {
	q := &Queue{
		ProjectID:    snap.ProjectID,
		GroupID:      snap.GroupID,
		Mode:         snap.Mode,
		WriteThrough: snap.WriteThrough,
		Cards:        snap.Cards,
		Position:     snap.Position,
		Revealed:     snap.Revealed,
		InitialCount: snap.InitialCount,
		Reviewed:     snap.Reviewed,
		undo:         newSnapshotStack(1),
	}

	if snap.Undo != nil {
		q.undo.push(*snap.Undo)
	}

	return q
}
