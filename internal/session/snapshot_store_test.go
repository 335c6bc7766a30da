package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recitehq/recite-api/internal/domain"
)

func openTestSnapshotStore(t *testing.T, ttl time.Duration) *SnapshotStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "snapshots.db")
	store, err := OpenSnapshotStore(path, ttl, nil)
	require.NoError(t, err, "opening the snapshot store should succeed")
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func testSnapshot(now time.Time) *Snapshot {
	return &Snapshot{
		Version:      SnapshotSchemaVersion,
		SavedAt:      now,
		ProjectID:    uuid.New(),
		GroupID:      uuid.New(),
		Mode:         ModeDue,
		WriteThrough: true,
		Cards: []PracticeCard{
			{
				CardID:   uuid.New(),
				Front:    "front",
				Back:     "back",
				Position: 0,
				State:    domain.CardStateLearning,
				DueAt:    now.Add(10 * time.Minute),
				Ease:     domain.DefaultEase,
			},
		},
		Position:     0,
		Revealed:     true,
		InitialCount: 3,
		Reviewed:     2,
	}
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()
	store := openTestSnapshotStore(t, 0)

	snap := testSnapshot(now)
	snap.Undo = &UndoState{
		Cards:    snap.Cards,
		Position: 0,
		Reviewed: 1,
	}

	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx, snap.ProjectID, snap.GroupID, now.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, snap.Version, loaded.Version)
	assert.Equal(t, snap.ProjectID, loaded.ProjectID)
	assert.Equal(t, snap.GroupID, loaded.GroupID)
	assert.Equal(t, snap.Mode, loaded.Mode)
	assert.Equal(t, snap.WriteThrough, loaded.WriteThrough)
	assert.Equal(t, snap.Position, loaded.Position)
	assert.Equal(t, snap.Revealed, loaded.Revealed)
	assert.Equal(t, snap.InitialCount, loaded.InitialCount)
	assert.Equal(t, snap.Reviewed, loaded.Reviewed)
	require.Len(t, loaded.Cards, 1)
	assert.Equal(t, snap.Cards[0].CardID, loaded.Cards[0].CardID)
	assert.True(t, snap.Cards[0].DueAt.Equal(loaded.Cards[0].DueAt))
	require.NotNil(t, loaded.Undo)
	assert.Equal(t, 1, loaded.Undo.Reviewed)
}

func TestSnapshotStoreLoadNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openTestSnapshotStore(t, 0)

	_, err := store.Load(ctx, uuid.New(), uuid.New(), time.Now().UTC())
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestSnapshotStoreSaveReplaces(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()
	store := openTestSnapshotStore(t, 0)

	snap := testSnapshot(now)
	require.NoError(t, store.Save(ctx, snap))

	snap.Reviewed = 5
	snap.SavedAt = now.Add(time.Minute)
	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx, snap.ProjectID, snap.GroupID, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Reviewed, "last writer should win")
}

func TestSnapshotStoreExpiredSnapshotIsDiscarded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()
	store := openTestSnapshotStore(t, time.Hour)

	snap := testSnapshot(now)
	require.NoError(t, store.Save(ctx, snap))

	_, err := store.Load(ctx, snap.ProjectID, snap.GroupID, now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrSnapshotStale)

	// The stale row is deleted, so a second load finds nothing.
	_, err = store.Load(ctx, snap.ProjectID, snap.GroupID, now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestSnapshotStoreVersionMismatchIsDiscarded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()
	store := openTestSnapshotStore(t, 0)

	snap := testSnapshot(now)
	snap.Version = SnapshotSchemaVersion + 1
	require.NoError(t, store.Save(ctx, snap))

	_, err := store.Load(ctx, snap.ProjectID, snap.GroupID, now.Add(time.Minute))
	assert.ErrorIs(t, err, ErrSnapshotStale)

	_, err = store.Load(ctx, snap.ProjectID, snap.GroupID, now.Add(time.Minute))
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestSnapshotStoreKeyMismatchIsDiscarded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()
	store := openTestSnapshotStore(t, 0)

	snap := testSnapshot(now)
	require.NoError(t, store.Save(ctx, snap))

	// Corrupt the stored key directly so the payload no longer matches it.
	otherProject := uuid.New()
	_, err := store.db.ExecContext(ctx,
		`UPDATE session_snapshots SET project_id = ? WHERE project_id = ?`,
		otherProject.String(), snap.ProjectID.String())
	require.NoError(t, err)

	_, err = store.Load(ctx, otherProject, snap.GroupID, now.Add(time.Minute))
	assert.ErrorIs(t, err, ErrSnapshotStale)
}

func TestSnapshotStoreUndecodablePayloadIsDiscarded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()
	store := openTestSnapshotStore(t, 0)

	projectID, groupID := uuid.New(), uuid.New()
	_, err := store.db.ExecContext(ctx,
		`INSERT INTO session_snapshots (project_id, group_id, saved_at, payload) VALUES (?, ?, ?, ?)`,
		projectID.String(), groupID.String(), now.Format(time.RFC3339Nano), []byte("not json"))
	require.NoError(t, err)

	_, err = store.Load(ctx, projectID, groupID, now)
	assert.ErrorIs(t, err, ErrSnapshotStale)
}

func TestSnapshotStoreDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()
	store := openTestSnapshotStore(t, 0)

	snap := testSnapshot(now)
	require.NoError(t, store.Save(ctx, snap))
	require.NoError(t, store.Delete(ctx, snap.ProjectID, snap.GroupID))

	_, err := store.Load(ctx, snap.ProjectID, snap.GroupID, now)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestQueueSnapshotRoundTrip(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	q := newTestQueue(4, now)

	next := reviewStateFor(q.Cards[0], domain.CardStateLearning, now.Add(10*time.Minute))
	q.ApplyRating(domain.RatingAgain, next, now)
	q.Flip()

	snap := q.Snapshot(now)
	restored := RestoreQueue(snap)

	assert.Equal(t, q.ProjectID, restored.ProjectID)
	assert.Equal(t, q.GroupID, restored.GroupID)
	assert.Equal(t, q.Mode, restored.Mode)
	assert.Equal(t, q.WriteThrough, restored.WriteThrough)
	assert.Equal(t, q.Position, restored.Position)
	assert.Equal(t, q.Revealed, restored.Revealed)
	assert.Equal(t, q.InitialCount, restored.InitialCount)
	assert.Equal(t, q.Reviewed, restored.Reviewed)
	require.Equal(t, q.Len(), restored.Len())
	for i := range q.Cards {
		assert.Equal(t, q.Cards[i].CardID, restored.Cards[i].CardID)
	}

	// The captured undo state survives the round trip.
	require.True(t, restored.CanUndo())
	require.True(t, restored.Undo())
	assert.Equal(t, 0, restored.Reviewed)
	assert.Equal(t, 4, restored.Len())
}
