package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/blackwhite-backend/internal/blackwhite"
	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
	"github.com/rocketscienceinc/blackwhite-backend/internal/repository"
	"github.com/rocketscienceinc/blackwhite-backend/internal/repository/memory"
	"github.com/rocketscienceinc/blackwhite-backend/internal/service"
	"github.com/stretchr/testify/require"
)

const (
	alice = "alice"
	bob   = "bob"
	carol = "carol"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (that *testClock) Now() time.Time {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.now
}

func (that *testClock) Advance(d time.Duration) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.now = that.now.Add(d)
}

type fixture struct {
	manager  *SessionManager
	clock    *testClock
	sessions repository.SessionRepository
	moves    repository.MoveRepository
	opponent *service.OpponentService
}

// lowest makes the simulated side always play its smallest remaining tile.
func lowest(int) int { return 0 }

func newFixture(t *testing.T, pick blackwhite.Picker, opts ...Option) *fixture {
	t.Helper()

	storage := memory.New()

	return buildFixture(t, storage, memory.NewSessionRepository(storage), memory.NewMoveRepository(storage), pick, opts...)
}

// newFlakyFixture is newFixture over repositories that fail the listed
// calls, counted from 1 per method.
func newFlakyFixture(t *testing.T, pick blackwhite.Picker, failUpdates, failAppends []int) *fixture {
	t.Helper()

	storage := memory.New()
	sessions := &flakySessions{SessionRepository: memory.NewSessionRepository(storage), failOn: callSet(failUpdates)}
	moves := &flakyMoves{MoveRepository: memory.NewMoveRepository(storage), failOn: callSet(failAppends)}

	return buildFixture(t, storage, sessions, moves, pick)
}

func buildFixture(
	t *testing.T,
	storage *memory.Storage,
	sessions repository.SessionRepository,
	moves repository.MoveRepository,
	pick blackwhite.Picker,
	opts ...Option,
) *fixture {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	clock := newTestClock()

	opponent := service.NewOpponentService(memory.NewPlayerRepository(storage), pick)
	allocator := service.NewAllocator(logger, sessions, 10)

	opts = append([]Option{WithClock(clock.Now)}, opts...)

	manager := NewSessionManager(
		logger,
		sessions,
		moves,
		memory.NewSessionLocker(time.Second),
		opponent,
		allocator,
		time.Minute,
		opts...,
	)

	return &fixture{
		manager:  manager,
		clock:    clock,
		sessions: sessions,
		moves:    moves,
		opponent: opponent,
	}
}

// startDirect returns an ACTIVE direct session between alice (side A) and bob.
func (that *fixture) startDirect(t *testing.T) *entity.Session {
	t.Helper()

	ctx := context.Background()

	session, err := that.manager.CreateSession(ctx, alice, entity.ModeDirect)
	require.NoError(t, err)

	session, err = that.manager.JoinSession(ctx, session.Code, bob)
	require.NoError(t, err)

	return session
}

func (that *fixture) play(t *testing.T, sessionID, playerID string, tile int) *entity.MoveResult {
	t.Helper()

	result, err := that.manager.SubmitMove(context.Background(), sessionID, playerID, tile)
	require.NoError(t, err)

	return result
}

var errStorageDown = errors.New("storage is down")

func callSet(calls []int) map[int]bool {
	set := make(map[int]bool, len(calls))
	for _, call := range calls {
		set[call] = true
	}

	return set
}

type flakySessions struct {
	repository.SessionRepository

	updates int
	failOn  map[int]bool
}

func (that *flakySessions) Update(ctx context.Context, session *entity.Session) error {
	that.updates++
	if that.failOn[that.updates] {
		return errStorageDown
	}

	return that.SessionRepository.Update(ctx, session)
}

type flakyMoves struct {
	repository.MoveRepository

	appends int
	failOn  map[int]bool
}

func (that *flakyMoves) Append(ctx context.Context, move *entity.Move) error {
	that.appends++
	if that.failOn[that.appends] {
		return errStorageDown
	}

	return that.MoveRepository.Append(ctx, move)
}

// movesOf returns the recorded moves of playerID in round.
func (that *fixture) movesOf(t *testing.T, sessionID, playerID string, round int) []entity.Move {
	t.Helper()

	moves, err := that.moves.ListBySession(context.Background(), sessionID)
	require.NoError(t, err)

	var found []entity.Move
	for _, move := range blackwhite.RoundMoves(moves, round) {
		if move.PlayerID == playerID {
			found = append(found, move)
		}
	}

	return found
}
