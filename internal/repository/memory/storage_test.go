package memory

import (
	"context"
	"testing"
	"time"

	"github.com/rocketscienceinc/blackwhite-backend/internal/apperror"
	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
	"github.com/rocketscienceinc/blackwhite-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("GetByID returns a copy", func(t *testing.T) {
		// Given: a stored session
		repo := NewSessionRepository(New())
		session := &entity.Session{ID: "s1", Code: "ABCDEF", PlayerA: "alice", Status: entity.StatusWaiting, UpdatedAt: now}
		require.NoError(t, repo.Create(ctx, session))

		// When: the loaded copy is changed
		loaded, err := repo.GetByID(ctx, "s1")
		require.NoError(t, err)
		loaded.Status = entity.StatusActive

		// Then: the stored record is untouched
		again, err := repo.GetByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, entity.StatusWaiting, again.Status)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		repo := NewSessionRepository(New())

		_, err := repo.GetByID(ctx, "missing")

		require.ErrorIs(t, err, repository.ErrSessionNotFound)
	})

	t.Run("ClaimCode is first come first served and case-insensitive", func(t *testing.T) {
		repo := NewSessionRepository(New())

		claimed, err := repo.ClaimCode(ctx, "ABCDEF", "s1")
		require.NoError(t, err)
		assert.True(t, claimed)

		claimed, err = repo.ClaimCode(ctx, "abcdef", "s2")
		require.NoError(t, err)
		assert.False(t, claimed)

		id, err := repo.GetIDByCode(ctx, "abcdef")
		require.NoError(t, err)
		assert.Equal(t, "s1", id)
	})

	t.Run("ListByPlayer is newest first and Delete clears everything", func(t *testing.T) {
		st := New()
		repo := NewSessionRepository(st)
		moves := NewMoveRepository(st)

		older := &entity.Session{ID: "old", Code: "AAAAAA", PlayerA: "alice", UpdatedAt: now}
		newer := &entity.Session{ID: "new", Code: "BBBBBB", PlayerA: "alice", PlayerB: "bob", UpdatedAt: now.Add(time.Minute)}
		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, newer))
		_, err := repo.ClaimCode(ctx, "BBBBBB", "new")
		require.NoError(t, err)
		require.NoError(t, moves.Append(ctx, &entity.Move{SessionID: "new", Round: 1, PlayerID: "alice", Tile: 3}))

		sessions, err := repo.ListByPlayer(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, "new", sessions[0].ID)
		assert.Equal(t, "old", sessions[1].ID)

		// When: the newer session is deleted
		require.NoError(t, repo.Delete(ctx, newer))

		// Then: its record, code, moves and index entries are gone
		_, err = repo.GetByID(ctx, "new")
		require.ErrorIs(t, err, repository.ErrSessionNotFound)
		_, err = repo.GetIDByCode(ctx, "BBBBBB")
		require.ErrorIs(t, err, repository.ErrCodeNotFound)
		left, err := moves.ListBySession(ctx, "new")
		require.NoError(t, err)
		assert.Empty(t, left)
		bobSessions, err := repo.ListByPlayer(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, bobSessions)
	})
}

func TestPlayerRepository_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewPlayerRepository(New())

	// When: two candidates race for the same alias
	first, err := repo.GetOrCreate(ctx, "sentinel", &entity.Player{ID: "p1", Simulated: true})
	require.NoError(t, err)
	second, err := repo.GetOrCreate(ctx, "sentinel", &entity.Player{ID: "p2", Simulated: true})
	require.NoError(t, err)

	// Then: both get the first identity
	assert.Equal(t, "p1", first.ID)
	assert.Equal(t, "p1", second.ID)

	stored, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, stored.IsSimulated())

	_, err = repo.GetByID(ctx, "p2")
	require.ErrorIs(t, err, repository.ErrPlayerNotFound)
}

func TestSessionLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("Second holder waits and times out", func(t *testing.T) {
		locker := NewSessionLocker(20 * time.Millisecond)

		unlock, err := locker.Lock(ctx, "s1")
		require.NoError(t, err)
		defer unlock()

		_, err = locker.Lock(ctx, "s1")
		require.ErrorIs(t, err, apperror.ErrLockNotAcquired)
	})

	t.Run("Different sessions are independent", func(t *testing.T) {
		locker := NewSessionLocker(20 * time.Millisecond)

		unlockA, err := locker.Lock(ctx, "a")
		require.NoError(t, err)
		defer unlockA()

		unlockB, err := locker.Lock(ctx, "b")
		require.NoError(t, err)
		unlockB()
	})

	t.Run("Released lock can be taken again", func(t *testing.T) {
		locker := NewSessionLocker(20 * time.Millisecond)

		unlock, err := locker.Lock(ctx, "s1")
		require.NoError(t, err)
		unlock()

		unlock, err = locker.Lock(ctx, "s1")
		require.NoError(t, err)
		unlock()
	})

	t.Run("Idle sessions leave no slot behind", func(t *testing.T) {
		sl := NewSessionLocker(20 * time.Millisecond).(*locker)

		// Given: one session locked and released, another held while a waiter times out
		unlock, err := sl.Lock(ctx, "s1")
		require.NoError(t, err)
		unlock()

		unlockHeld, err := sl.Lock(ctx, "s2")
		require.NoError(t, err)

		_, err = sl.Lock(ctx, "s2")
		require.ErrorIs(t, err, apperror.ErrLockNotAcquired)

		// Then: only the held session keeps a slot
		sl.mu.Lock()
		assert.Len(t, sl.slots, 1)
		sl.mu.Unlock()

		// When: the holder releases
		unlockHeld()

		// Then: nothing is retained
		sl.mu.Lock()
		assert.Empty(t, sl.slots)
		sl.mu.Unlock()
	})
}
