// Package memory is a single-process storage driver implementing the
// repository interfaces without Redis.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rocketscienceinc/blackwhite-backend/internal/apperror"
	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
	"github.com/rocketscienceinc/blackwhite-backend/internal/repository"
)

// Storage holds all records; repositories built on the same Storage share them.
type Storage struct {
	mu sync.RWMutex

	sessions map[string]entity.Session
	codes    map[string]string
	moves    map[string][]entity.Move
	players  map[string]entity.Player
	aliases  map[string]string
	index    map[string]map[string]time.Time
}

func New() *Storage {
	return &Storage{
		sessions: make(map[string]entity.Session),
		codes:    make(map[string]string),
		moves:    make(map[string][]entity.Move),
		players:  make(map[string]entity.Player),
		aliases:  make(map[string]string),
		index:    make(map[string]map[string]time.Time),
	}
}

type sessionRepo struct {
	st *Storage
}

func NewSessionRepository(st *Storage) repository.SessionRepository {
	return &sessionRepo{st: st}
}

func (that *sessionRepo) Create(_ context.Context, session *entity.Session) error {
	that.save(session)
	return nil
}

func (that *sessionRepo) Update(_ context.Context, session *entity.Session) error {
	that.save(session)
	return nil
}

func (that *sessionRepo) save(session *entity.Session) {
	that.st.mu.Lock()
	defer that.st.mu.Unlock()

	that.st.sessions[session.ID] = *session

	for _, playerID := range session.RealPlayers() {
		if that.st.index[playerID] == nil {
			that.st.index[playerID] = make(map[string]time.Time)
		}
		that.st.index[playerID][session.ID] = session.UpdatedAt
	}
}

func (that *sessionRepo) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.st.mu.RLock()
	defer that.st.mu.RUnlock()

	session, ok := that.st.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}

	return &session, nil
}

func (that *sessionRepo) Delete(_ context.Context, session *entity.Session) error {
	that.st.mu.Lock()
	defer that.st.mu.Unlock()

	delete(that.st.sessions, session.ID)
	delete(that.st.moves, session.ID)
	delete(that.st.codes, strings.ToUpper(session.Code))

	for _, playerID := range session.RealPlayers() {
		delete(that.st.index[playerID], session.ID)
	}

	return nil
}

func (that *sessionRepo) ClaimCode(_ context.Context, code, sessionID string) (bool, error) {
	that.st.mu.Lock()
	defer that.st.mu.Unlock()

	code = strings.ToUpper(code)
	if _, taken := that.st.codes[code]; taken {
		return false, nil
	}

	that.st.codes[code] = sessionID

	return true, nil
}

func (that *sessionRepo) GetIDByCode(_ context.Context, code string) (string, error) {
	that.st.mu.RLock()
	defer that.st.mu.RUnlock()

	id, ok := that.st.codes[strings.ToUpper(code)]
	if !ok {
		return "", repository.ErrCodeNotFound
	}

	return id, nil
}

func (that *sessionRepo) ListByPlayer(_ context.Context, playerID string) ([]*entity.Session, error) {
	that.st.mu.RLock()
	defer that.st.mu.RUnlock()

	sessions := make([]*entity.Session, 0, len(that.st.index[playerID]))
	for id := range that.st.index[playerID] {
		if session, ok := that.st.sessions[id]; ok {
			sessions = append(sessions, &session)
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	return sessions, nil
}

type moveRepo struct {
	st *Storage
}

func NewMoveRepository(st *Storage) repository.MoveRepository {
	return &moveRepo{st: st}
}

func (that *moveRepo) Append(_ context.Context, move *entity.Move) error {
	that.st.mu.Lock()
	defer that.st.mu.Unlock()

	that.st.moves[move.SessionID] = append(that.st.moves[move.SessionID], *move)

	return nil
}

func (that *moveRepo) ListBySession(_ context.Context, sessionID string) ([]entity.Move, error) {
	that.st.mu.RLock()
	defer that.st.mu.RUnlock()

	moves := make([]entity.Move, len(that.st.moves[sessionID]))
	copy(moves, that.st.moves[sessionID])

	return moves, nil
}

type playerRepo struct {
	st *Storage
}

func NewPlayerRepository(st *Storage) repository.PlayerRepository {
	return &playerRepo{st: st}
}

func (that *playerRepo) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.st.mu.Lock()
	defer that.st.mu.Unlock()

	that.st.players[player.ID] = *player

	return nil
}

func (that *playerRepo) GetByID(_ context.Context, id string) (*entity.Player, error) {
	that.st.mu.RLock()
	defer that.st.mu.RUnlock()

	player, ok := that.st.players[id]
	if !ok {
		return nil, repository.ErrPlayerNotFound
	}

	return &player, nil
}

func (that *playerRepo) GetOrCreate(_ context.Context, alias string, candidate *entity.Player) (*entity.Player, error) {
	that.st.mu.Lock()
	defer that.st.mu.Unlock()

	if id, ok := that.st.aliases[alias]; ok {
		player := that.st.players[id]
		return &player, nil
	}

	that.st.aliases[alias] = candidate.ID
	that.st.players[candidate.ID] = *candidate

	player := *candidate

	return &player, nil
}

type locker struct {
	mu    sync.Mutex
	wait  time.Duration
	slots map[string]*slot
}

// slot is dropped once no holder or waiter references it.
type slot struct {
	ch   chan struct{}
	refs int
}

// NewSessionLocker returns an in-process per-session lock.
func NewSessionLocker(wait time.Duration) repository.SessionLocker {
	return &locker{
		wait:  wait,
		slots: make(map[string]*slot),
	}
}

func (that *locker) acquire(sessionID string) *slot {
	that.mu.Lock()
	defer that.mu.Unlock()

	s, ok := that.slots[sessionID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		that.slots[sessionID] = s
	}

	s.refs++

	return s
}

func (that *locker) release(sessionID string, s *slot) {
	that.mu.Lock()
	defer that.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(that.slots, sessionID)
	}
}

func (that *locker) Lock(ctx context.Context, sessionID string) (func(), error) {
	s := that.acquire(sessionID)

	timer := time.NewTimer(that.wait)
	defer timer.Stop()

	select {
	case s.ch <- struct{}{}:
		return func() {
			<-s.ch
			that.release(sessionID, s)
		}, nil
	case <-ctx.Done():
		that.release(sessionID, s)
		return nil, fmt.Errorf("waiting for session lock: %w", ctx.Err())
	case <-timer.C:
		that.release(sessionID, s)
		return nil, fmt.Errorf("%w: session %s", apperror.ErrLockNotAcquired, sessionID)
	}
}
