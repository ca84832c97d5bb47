package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/blackwhite-backend/internal/apperror"
)

const (
	StatusWaiting   = "waiting"
	StatusActive    = "active"
	StatusFinished  = "finished"
	StatusForfeited = "forfeited"

	OutcomeTie = "tie"
)

const (
	ModeSimulated = "simulated"
	ModeDirect    = "direct"
)

// Session is one game instance between side A and side B.
// Scores and tiles are never stored here, they are derived from the move log.
type Session struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Mode    string `json:"mode"`
	Status  string `json:"status"`
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b,omitempty"`
	Turn    string `json:"turn,omitempty"`
	Round   int    `json:"round"`
	Winner  string `json:"winner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt anchors the move deadline: stamped on every move and every transition.
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(id, code, mode, playerID string, now time.Time) (*Session, error) {
	if !IsValidMode(mode) {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidMode, mode)
	}

	status := StatusWaiting
	if mode == ModeSimulated {
		status = StatusActive
	}

	return &Session{
		ID:        id,
		Code:      code,
		Mode:      mode,
		Status:    status,
		PlayerA:   playerID,
		Turn:      playerID,
		Round:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func IsValidMode(mode string) bool {
	return mode == ModeSimulated || mode == ModeDirect
}

func (that *Session) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Session) IsActive() bool {
	return that.Status == StatusActive
}

func (that *Session) IsTerminal() bool {
	return that.Status == StatusFinished || that.Status == StatusForfeited
}

func (that *Session) IsSimulated() bool {
	return that.Mode == ModeSimulated
}

func (that *Session) IsParticipant(playerID string) bool {
	if playerID == "" {
		return false
	}

	return playerID == that.PlayerA || playerID == that.PlayerB
}

// IsSimulatedPlayer reports whether playerID is the simulated side of this session.
func (that *Session) IsSimulatedPlayer(playerID string) bool {
	return that.IsSimulated() && playerID != "" && playerID == that.PlayerB
}

// Opponent returns the other side, or "" when it is not known yet.
func (that *Session) Opponent(playerID string) string {
	if playerID == that.PlayerA {
		return that.PlayerB
	}

	return that.PlayerA
}

// RealPlayers returns the non-simulated participants.
func (that *Session) RealPlayers() []string {
	players := []string{that.PlayerA}
	if that.PlayerB != "" && !that.IsSimulated() {
		players = append(players, that.PlayerB)
	}

	return players
}

// ConfirmActive returns ErrInvalidState unless the session accepts moves.
func (that *Session) ConfirmActive() error {
	switch that.Status {
	case StatusActive:
		return nil
	case StatusWaiting:
		return fmt.Errorf("%w: session has not started", apperror.ErrInvalidState)
	case StatusFinished, StatusForfeited:
		return fmt.Errorf("%w: session is already over", apperror.ErrInvalidState)
	default:
		return fmt.Errorf("%w: unknown status %q", apperror.ErrInvalidState, that.Status)
	}
}

func (that *Session) Join(playerID string, now time.Time) {
	that.PlayerB = playerID
	that.Status = StatusActive
	that.Turn = that.PlayerA
	that.UpdatedAt = now
}

func (that *Session) PassTurn(playerID string, now time.Time) {
	that.Turn = playerID
	that.UpdatedAt = now
}

func (that *Session) AdvanceRound(leader string, now time.Time) {
	that.Round++
	that.Turn = leader
	that.UpdatedAt = now
}

// Finish ends the session after the last round; winner is a player id or OutcomeTie.
func (that *Session) Finish(winner string, now time.Time) {
	that.Status = StatusFinished
	that.Winner = winner
	that.Turn = ""
	that.UpdatedAt = now
}

// Forfeit ends the session awarding the win to winner.
func (that *Session) Forfeit(winner string, now time.Time) {
	that.Status = StatusForfeited
	that.Winner = winner
	that.Turn = ""
	that.UpdatedAt = now
}

// Expired reports whether the turn-holder let the move deadline pass.
func (that *Session) Expired(now time.Time, timeout time.Duration) bool {
	return that.IsActive() && that.Turn != "" && now.Sub(that.UpdatedAt) > timeout
}

// TimeRemaining returns what is left of the move deadline, never negative.
func (that *Session) TimeRemaining(now time.Time, timeout time.Duration) time.Duration {
	left := timeout - now.Sub(that.UpdatedAt)
	if left < 0 {
		return 0
	}

	return left
}
