package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/blackwhite-backend/internal/apperror"
	"github.com/rocketscienceinc/blackwhite-backend/internal/blackwhite"
	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
	"github.com/rocketscienceinc/blackwhite-backend/internal/pkg"
	"github.com/rocketscienceinc/blackwhite-backend/internal/repository"
)

const DefaultMoveTimeout = 60 * time.Second

type sessionRepo interface {
	Create(ctx context.Context, session *entity.Session) error
	Update(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	GetIDByCode(ctx context.Context, code string) (string, error)
	ListByPlayer(ctx context.Context, playerID string) ([]*entity.Session, error)
}

type moveRepo interface {
	Append(ctx context.Context, move *entity.Move) error
	ListBySession(ctx context.Context, sessionID string) ([]entity.Move, error)
}

type sessionLocker interface {
	Lock(ctx context.Context, sessionID string) (func(), error)
}

type opponent interface {
	Sentinel(ctx context.Context) (*entity.Player, error)
	NextMove(remaining []int) (int, error)
}

type codeAllocator interface {
	Allocate(ctx context.Context, sessionID string) (string, error)
}

// RetentionTrigger is told about sessions worth reclaiming. It must not block
// and never reports failures back.
type RetentionTrigger interface {
	SessionEnded(ctx context.Context, playerID string)
}

// Notifier receives a redacted update after every committed transition.
type Notifier interface {
	Notify(ctx context.Context, update entity.SessionUpdate)
}

type Option func(*SessionManager)

// WithClock replaces time.Now, used by tests to drive the move deadline.
func WithClock(now func() time.Time) Option {
	return func(that *SessionManager) {
		that.now = now
	}
}

func WithRetention(retention RetentionTrigger) Option {
	return func(that *SessionManager) {
		that.retention = retention
	}
}

func WithNotifier(notifier Notifier) Option {
	return func(that *SessionManager) {
		that.notifier = notifier
	}
}

// SessionManager owns every session transition. All of them run under the
// per-session lock so round resolution never interleaves with another writer.
type SessionManager struct {
	logger *slog.Logger

	sessionRepo sessionRepo
	moveRepo    moveRepo
	locker      sessionLocker
	opponent    opponent
	allocator   codeAllocator

	moveTimeout time.Duration
	now         func() time.Time
	retention   RetentionTrigger
	notifier    Notifier
}

func NewSessionManager(
	logger *slog.Logger,
	sessionRepo sessionRepo,
	moveRepo moveRepo,
	locker sessionLocker,
	opponent opponent,
	allocator codeAllocator,
	moveTimeout time.Duration,
	opts ...Option,
) *SessionManager {
	if moveTimeout <= 0 {
		moveTimeout = DefaultMoveTimeout
	}

	manager := &SessionManager{
		logger: logger.With("component", "sessionManager"),

		sessionRepo: sessionRepo,
		moveRepo:    moveRepo,
		locker:      locker,
		opponent:    opponent,
		allocator:   allocator,

		moveTimeout: moveTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

func (that *SessionManager) CreateSession(ctx context.Context, playerID, mode string) (_ *entity.Session, err error) {
	log := that.logger.With("method", "CreateSession", "player", playerID, "mode", mode)
	defer func() { err = that.report(log, err) }()

	if playerID == "" {
		return nil, apperror.ErrUnauthorized
	}

	if !entity.IsValidMode(mode) {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidMode, mode)
	}

	sessionID := pkg.GenerateSessionID()

	code, err := that.allocator.Allocate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate code: %w", err)
	}

	session, err := entity.NewSession(sessionID, code, mode, playerID, that.now())
	if err != nil {
		return nil, err
	}

	if err = that.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info("session created", "session", session.ID, "code", session.Code)

	that.triggerRetention(ctx, session)
	that.notify(ctx, session)

	return session, nil
}

func (that *SessionManager) JoinSession(ctx context.Context, code, playerID string) (_ *entity.Session, err error) {
	log := that.logger.With("method", "JoinSession", "player", playerID, "code", code)
	defer func() { err = that.report(log, err) }()

	if playerID == "" {
		return nil, apperror.ErrUnauthorized
	}

	sessionID, err := that.sessionRepo.GetIDByCode(ctx, code)
	if errors.Is(err, repository.ErrCodeNotFound) {
		return nil, fmt.Errorf("%w: code %s", apperror.ErrNotFound, code)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to resolve code: %w", err)
	}

	unlock, err := that.locker.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch {
	case session.IsParticipant(playerID):
		return nil, apperror.ErrAlreadyInSession
	case session.IsSimulated():
		return nil, fmt.Errorf("%w: session plays against the computer", apperror.ErrNotJoinable)
	case !session.IsWaiting() || session.PlayerB != "":
		return nil, fmt.Errorf("%w: session already started", apperror.ErrNotJoinable)
	}

	session.Join(playerID, that.now())

	if err = that.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	log.Info("player joined", "session", session.ID)

	that.notify(ctx, session)

	return session, nil
}

// SubmitMove records tile for playerID and resolves everything it triggers:
// round completion, session completion and the simulated side's replies.
func (that *SessionManager) SubmitMove(ctx context.Context, sessionID, playerID string, tile int) (_ *entity.MoveResult, err error) {
	log := that.logger.With("method", "SubmitMove", "session", sessionID, "player", playerID, "tile", tile)
	defer func() { err = that.report(log, err) }()

	unlock, err := that.locker.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, moves, err := that.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.IsParticipant(playerID) {
		return nil, apperror.ErrNotAParticipant
	}

	if err = session.ConfirmActive(); err != nil {
		return nil, err
	}

	if moves, err = that.settle(ctx, session, moves); err != nil {
		return nil, err
	}

	if err = session.ConfirmActive(); err != nil {
		return nil, err
	}

	if session.Turn != playerID {
		return nil, apperror.ErrNotYourTurn
	}

	forfeited, err := that.enforceTimeout(ctx, session)
	if err != nil {
		return nil, err
	}

	if forfeited {
		return nil, fmt.Errorf("%w: winner %s", apperror.ErrTimeout, session.Winner)
	}

	if !blackwhite.IsValidTile(tile) {
		return nil, fmt.Errorf("%w: %d is out of range", apperror.ErrInvalidTile, tile)
	}

	if blackwhite.IsTileUsed(moves, playerID, tile) {
		return nil, fmt.Errorf("%w: %d was already played", apperror.ErrInvalidTile, tile)
	}

	result, moves, err := that.play(ctx, session, moves, playerID, tile)
	if err != nil {
		return nil, err
	}

	if session.IsTerminal() {
		log.Info("session finished", "winner", session.Winner)
		that.triggerRetention(ctx, session)
	}

	that.notify(ctx, session)

	result.State = buildView(session, moves, playerID, that.now(), that.moveTimeout)

	return result, nil
}

// play records the caller's move, then the simulated side's replies.
func (that *SessionManager) play(
	ctx context.Context,
	session *entity.Session,
	moves []entity.Move,
	playerID string,
	tile int,
) (*entity.MoveResult, []entity.Move, error) {
	result := &entity.MoveResult{}
	callerRound := session.Round

	moves, round, complete, err := that.record(ctx, session, moves, playerID, tile)
	if err != nil {
		return nil, nil, err
	}

	completed := make([]blackwhite.Round, 0, 2)
	if complete {
		completed = append(completed, round)
	}

	moves, replies, err := that.simulate(ctx, session, moves)
	if err != nil {
		return nil, nil, err
	}

	for _, closed := range append(completed, replies...) {
		if closed.Number != callerRound {
			continue
		}

		result.RoundComplete = true
		result.RoundWinner = closed.Winner
		if closed.IsTie() {
			result.RoundWinner = entity.OutcomeTie
		}
	}

	if session.IsTerminal() {
		result.GameComplete = true
		result.Winner = session.Winner
	}

	return result, moves, nil
}

// simulate plays for the simulated side while it holds the turn and returns
// the rounds its moves completed.
func (that *SessionManager) simulate(
	ctx context.Context,
	session *entity.Session,
	moves []entity.Move,
) ([]entity.Move, []blackwhite.Round, error) {
	var completed []blackwhite.Round

	for session.IsActive() && session.IsSimulatedPlayer(session.Turn) {
		playerID := session.Turn

		tile, err := that.opponent.NextMove(blackwhite.RemainingTiles(blackwhite.UsedTiles(moves, playerID)))
		if err != nil {
			return moves, completed, err
		}

		var (
			round    blackwhite.Round
			complete bool
		)

		moves, round, complete, err = that.record(ctx, session, moves, playerID, tile)
		if err != nil {
			return moves, completed, err
		}

		if complete {
			completed = append(completed, round)
		}
	}

	return moves, completed, nil
}

// record appends one move and commits the transition it causes. The move log
// is written first; a failed session update is repaired by settle.
func (that *SessionManager) record(
	ctx context.Context,
	session *entity.Session,
	moves []entity.Move,
	playerID string,
	tile int,
) ([]entity.Move, blackwhite.Round, bool, error) {
	if _, played := blackwhite.FindMove(moves, session.Round, playerID); played {
		return moves, blackwhite.Round{}, false, fmt.Errorf("%w: already moved in round %d", apperror.ErrNotYourTurn, session.Round)
	}

	now := that.now()
	move := entity.Move{
		SessionID: session.ID,
		Round:     session.Round,
		PlayerID:  playerID,
		Tile:      tile,
		Seq:       len(moves) + 1,
		CreatedAt: now,
	}

	if err := that.moveRepo.Append(ctx, &move); err != nil {
		return moves, blackwhite.Round{}, false, fmt.Errorf("failed to append move: %w", err)
	}

	moves = append(moves, move)

	round, complete, err := that.transition(ctx, session, moves, playerID, now)
	if err != nil {
		return moves, round, complete, err
	}

	if err = that.sessionRepo.Update(ctx, session); err != nil {
		return moves, round, complete, fmt.Errorf("failed to update session: %w", err)
	}

	return moves, round, complete, nil
}

// transition applies what a move by mover in the current round implies:
// pass the turn, advance the round or finish the session.
func (that *SessionManager) transition(
	ctx context.Context,
	session *entity.Session,
	moves []entity.Move,
	mover string,
	now time.Time,
) (blackwhite.Round, bool, error) {
	round, complete := blackwhite.ResolveRound(session.Round, blackwhite.RoundMoves(moves, session.Round))

	switch {
	case !complete:
		next, err := that.opponentOf(ctx, session, mover)
		if err != nil {
			return round, false, err
		}

		session.PassTurn(next, now)
	case round.Number >= blackwhite.MaxRounds:
		session.Finish(blackwhite.FinalOutcome(session.PlayerA, session.PlayerB, moves), now)
	default:
		session.AdvanceRound(round.Leader(), now)
	}

	return round, complete, nil
}

// settle brings the session document in line with the move log. A move whose
// session update failed still holds the turn on its author; the transition is
// replayed at the time the move was recorded. The simulated side then plays
// any reply it still owes.
func (that *SessionManager) settle(ctx context.Context, session *entity.Session, moves []entity.Move) ([]entity.Move, error) {
	repaired := false

	for session.IsActive() && session.Turn != "" {
		move, played := blackwhite.FindMove(moves, session.Round, session.Turn)
		if !played {
			break
		}

		if _, _, err := that.transition(ctx, session, moves, move.PlayerID, move.CreatedAt); err != nil {
			return moves, err
		}

		repaired = true
	}

	if repaired {
		if err := that.sessionRepo.Update(ctx, session); err != nil {
			return moves, fmt.Errorf("failed to update session: %w", err)
		}

		that.logger.Warn("session replayed from move log", "session", session.ID, "round", session.Round, "turn", session.Turn)
	}

	recorded := len(moves)

	moves, _, err := that.simulate(ctx, session, moves)
	if err != nil {
		return moves, err
	}

	if repaired || len(moves) > recorded {
		if session.IsTerminal() {
			that.triggerRetention(ctx, session)
		}

		that.notify(ctx, session)
	}

	return moves, nil
}

// Abandon forfeits the session in favour of the other side, whoever holds the turn.
func (that *SessionManager) Abandon(ctx context.Context, sessionID, playerID string) (err error) {
	log := that.logger.With("method", "Abandon", "session", sessionID, "player", playerID)
	defer func() { err = that.report(log, err) }()

	unlock, err := that.locker.Lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if !session.IsParticipant(playerID) {
		return apperror.ErrNotAParticipant
	}

	if err = session.ConfirmActive(); err != nil {
		return err
	}

	// A missed deadline is settled before the abandonment is considered.
	forfeited, err := that.enforceTimeout(ctx, session)
	if err != nil {
		return err
	}

	if forfeited {
		return fmt.Errorf("%w: session was forfeited on timeout", apperror.ErrInvalidState)
	}

	winner, err := that.opponentOf(ctx, session, playerID)
	if err != nil {
		return err
	}

	session.Forfeit(winner, that.now())

	if err = that.sessionRepo.Update(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	log.Info("session abandoned", "winner", winner)

	that.triggerRetention(ctx, session)
	that.notify(ctx, session)

	return nil
}

// GetState returns the session as playerID may see it. Reading is also a
// timeout enforcement point.
func (that *SessionManager) GetState(ctx context.Context, sessionID, playerID string) (_ *entity.SessionView, err error) {
	log := that.logger.With("method", "GetState", "session", sessionID, "player", playerID)
	defer func() { err = that.report(log, err) }()

	unlock, err := that.locker.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, moves, err := that.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.IsParticipant(playerID) {
		return nil, apperror.ErrNotAParticipant
	}

	if moves, err = that.settle(ctx, session, moves); err != nil {
		return nil, err
	}

	if _, err = that.enforceTimeout(ctx, session); err != nil {
		return nil, err
	}

	return buildView(session, moves, playerID, that.now(), that.moveTimeout), nil
}

// ListSessions returns the sessions of playerID, most recently updated first.
func (that *SessionManager) ListSessions(ctx context.Context, playerID string) (_ []entity.SessionSummary, err error) {
	log := that.logger.With("method", "ListSessions", "player", playerID)
	defer func() { err = that.report(log, err) }()

	if playerID == "" {
		return nil, apperror.ErrUnauthorized
	}

	sessions, err := that.sessionRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]entity.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, buildSummary(session, playerID))
	}

	return summaries, nil
}

// enforceTimeout forfeits the session against the turn-holder once the move
// deadline has passed. It reports whether it did.
func (that *SessionManager) enforceTimeout(ctx context.Context, session *entity.Session) (bool, error) {
	now := that.now()
	if !session.Expired(now, that.moveTimeout) {
		return false, nil
	}

	loser := session.Turn

	winner, err := that.opponentOf(ctx, session, loser)
	if err != nil {
		return false, err
	}

	session.Forfeit(winner, now)

	if err = that.sessionRepo.Update(ctx, session); err != nil {
		return false, fmt.Errorf("failed to commit timeout forfeit: %w", err)
	}

	that.logger.Info("session forfeited on timeout", "session", session.ID, "loser", loser, "winner", winner)

	that.triggerRetention(ctx, session)
	that.notify(ctx, session)

	return true, nil
}

// opponentOf returns the other side of playerID, binding the simulated
// participant to side B the first time it is needed.
func (that *SessionManager) opponentOf(ctx context.Context, session *entity.Session, playerID string) (string, error) {
	if other := session.Opponent(playerID); other != "" {
		return other, nil
	}

	if !session.IsSimulated() {
		return "", fmt.Errorf("%w: session has no second side", apperror.ErrInvalidState)
	}

	sentinel, err := that.opponent.Sentinel(ctx)
	if err != nil {
		return "", err
	}

	session.PlayerB = sentinel.ID

	return sentinel.ID, nil
}

func (that *SessionManager) getSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrNotFound, sessionID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// load returns the session with its move log in acceptance order.
func (that *SessionManager) load(ctx context.Context, sessionID string) (*entity.Session, []entity.Move, error) {
	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	moves, err := that.moveRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list moves: %w", err)
	}

	blackwhite.SortMoves(moves)

	return session, moves, nil
}

func (that *SessionManager) triggerRetention(ctx context.Context, session *entity.Session) {
	if that.retention == nil {
		return
	}

	for _, playerID := range session.RealPlayers() {
		that.retention.SessionEnded(ctx, playerID)
	}
}

func (that *SessionManager) notify(ctx context.Context, session *entity.Session) {
	if that.notifier == nil {
		return
	}

	that.notifier.Notify(ctx, entity.NewSessionUpdate(session))
}

// report logs err at a level matching its class and passes it through.
func (that *SessionManager) report(log *slog.Logger, err error) error {
	switch {
	case err == nil:
	case apperror.IsInternal(err):
		log.Error("operation failed", "error", err)
	default:
		log.Debug("operation rejected", "error", err)
	}

	return err
}
