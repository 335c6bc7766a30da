package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/recitehq/recite-api/internal/domain"
	"github.com/recitehq/recite-api/internal/platform/logger"
)

// Manager errors
var (
	ErrNoActiveSession      = errors.New("no active session")
	ErrSessionFinished      = errors.New("session already finished")
	ErrInvalidMode          = errors.New("invalid session mode")
	ErrWriteThroughRequired = errors.New("due mode always writes ratings through")
)

// Source is the remote boundary that assembles a session's cards: the card
// content source plus review-state initialization, already bound to a user.
type Source interface {
	StartSession(ctx context.Context, groupID uuid.UUID, limit int, mode Mode) (*Start, error)
}

// Sink is the remote boundary for write-through ratings. The returned state
// is the store's authoritative row and drives all requeue decisions.
type Sink interface {
	SubmitRating(ctx context.Context, cardID uuid.UUID, rating domain.Rating) (*domain.ReviewState, error)
}

// Manager drives one practice session end to end: open (restore or build),
// rate, flip, undo, close. It mirrors every meaningful mutation into the
// snapshot store so the session survives a reload.
//
// Operations are strictly sequential; the Manager is not safe for
// concurrent use. Two sessions against the same group in different
// processes are last-writer-wins on the persisted snapshot — an accepted
// limitation of a single-user study tool.
type Manager struct {
	source    Source
	sink      Sink
	snapshots *SnapshotStore
	logger    *slog.Logger
	now       func() time.Time

	queue    *Queue
	dueCount int
	newCount int
}

// NewManager creates a session manager. The snapshot store may be nil, in
// which case sessions are not persisted across reloads.
func NewManager(source Source, sink Sink, snapshots *SnapshotStore, log *slog.Logger) *Manager {
	if source == nil {
		panic("source cannot be nil")
	}
	if sink == nil {
		panic("sink cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Manager{
		source:    source,
		sink:      sink,
		snapshots: snapshots,
		logger:    log.With(slog.String("component", "session_manager")),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Open starts a session for the group: a fresh, compatible persisted
// snapshot is restored verbatim; otherwise the queue is built from the
// source. Opting out of write-through is only possible in free practice.
func (m *Manager) Open(
	ctx context.Context,
	projectID, groupID uuid.UUID,
	limit int,
	mode Mode,
	writeThrough bool,
) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	if !mode.Valid() {
		return ErrInvalidMode
	}
	if mode == ModeDue && !writeThrough {
		return ErrWriteThroughRequired
	}

	if m.snapshots != nil {
		snap, err := m.snapshots.Load(ctx, projectID, groupID, m.now())
		switch {
		case err == nil:
			m.queue = RestoreQueue(snap)
			log.Debug("restored session from snapshot",
				slog.String("group_id", groupID.String()),
				slog.Int("queue_len", m.queue.Len()),
				slog.Int("reviewed", m.queue.Reviewed))
			return nil
		case errors.Is(err, ErrSnapshotNotFound), errors.Is(err, ErrSnapshotStale):
			// Build fresh below.
		default:
			// A broken snapshot store never blocks a session.
			log.Warn("snapshot load failed, building fresh",
				slog.String("error", err.Error()))
		}
	}

	start, err := m.source.StartSession(ctx, groupID, limit, mode)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	m.queue = NewQueue(projectID, groupID, mode, writeThrough, start.Cards)
	m.dueCount = start.DueCount
	m.newCount = start.NewCount

	m.persist(ctx)

	log.Debug("built session",
		slog.String("group_id", groupID.String()),
		slog.String("mode", string(mode)),
		slog.Int("queue_len", m.queue.Len()),
		slog.Int("due_count", start.DueCount),
		slog.Int("new_count", start.NewCount))

	return nil
}

// Queue exposes the live queue, or nil before Open.
func (m *Manager) Queue() *Queue {
	return m.queue
}

// DueCount returns the number of due cards over the full group at open time.
func (m *Manager) DueCount() int { return m.dueCount }

// NewCount returns the number of new cards over the full group at open time.
func (m *Manager) NewCount() int { return m.newCount }

// Flip toggles the reveal flag and persists the session.
func (m *Manager) Flip(ctx context.Context) error {
	if m.queue == nil {
		return ErrNoActiveSession
	}
	m.queue.Flip()
	m.persist(ctx)
	return nil
}

// Rate applies a rating to the current card. In write-through mode the
// rating is persisted first and the store's authoritative state drives the
// requeue; on a failed write nothing local changes, so the same card stays
// current and can simply be re-rated. In local-simulation mode the queue is
// reordered with the simplified offsets and no server state is touched.
func (m *Manager) Rate(ctx context.Context, rating domain.Rating) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	if m.queue == nil {
		return ErrNoActiveSession
	}
	if m.queue.Finished() {
		return ErrSessionFinished
	}
	if !rating.Valid() {
		return domain.ErrInvalidRating
	}

	card, _ := m.queue.Current()

	if m.queue.WriteThrough {
		next, err := m.sink.SubmitRating(ctx, card.CardID, rating)
		if err != nil {
			log.Warn("rating write failed, card stays current",
				slog.String("card_id", card.CardID.String()),
				slog.String("rating", string(rating)),
				slog.String("error", err.Error()))
			return err
		}
		m.queue.ApplyRating(rating, next, m.now())
	} else {
		m.queue.SimulateRating(rating)
	}

	m.persist(ctx)

	log.Debug("applied rating",
		slog.String("card_id", card.CardID.String()),
		slog.String("rating", string(rating)),
		slog.Int("queue_len", m.queue.Len()),
		slog.Int("reviewed", m.queue.Reviewed))

	return nil
}

// Undo restores the state captured before the last rating. It does not
// reverse the corresponding server write.
func (m *Manager) Undo(ctx context.Context) bool {
	if m.queue == nil {
		return false
	}
	ok := m.queue.Undo()
	if ok {
		m.persist(ctx)
	}
	return ok
}

// Close persists the final snapshot and detaches the queue. No further
// server writes happen; reopening resumes from the snapshot.
func (m *Manager) Close(ctx context.Context) {
	if m.queue == nil {
		return
	}
	m.persist(ctx)
	m.queue = nil
}

// persist mirrors the session into the snapshot store, best-effort: a
// failed save is logged and the session carries on.
func (m *Manager) persist(ctx context.Context) {
	if m.snapshots == nil || m.queue == nil {
		return
	}
	if err := m.snapshots.Save(ctx, m.queue.Snapshot(m.now())); err != nil {
		m.logger.Warn("failed to persist session snapshot",
			slog.String("group_id", m.queue.GroupID.String()),
			slog.String("error", err.Error()))
	}
}
