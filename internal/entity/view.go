package entity

import "time"

const (
	RoundOutcomeMe       = "me"
	RoundOutcomeOpponent = "opponent"
	RoundOutcomeTie      = "tie"
)

// TileView is a tile as seen by one participant. Tile is nil when only the color may be revealed.
type TileView struct {
	Tile  *int   `json:"tile,omitempty"`
	Color string `json:"color"`
}

type CurrentRoundView struct {
	MyMove       *TileView `json:"my_move"`
	OpponentMove *TileView `json:"opponent_move"`
}

type RoundView struct {
	Round        int    `json:"round"`
	MyTile       int    `json:"my_tile"`
	OpponentTile int    `json:"opponent_tile"`
	Outcome      string `json:"outcome"`
}

// SessionView is the redacted state of a session for one participant.
type SessionView struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Mode      string `json:"mode"`
	Status    string `json:"status"`
	Round     int    `json:"round"`
	MaxRounds int    `json:"max_rounds"`
	Turn      string `json:"turn,omitempty"`
	Winner    string `json:"winner,omitempty"`

	Me         string `json:"me"`
	OpponentID string `json:"opponent_id,omitempty"`

	MyTiles           []int `json:"my_tiles"`
	OpponentTilesLeft int   `json:"opponent_tiles_left"`
	MyScore           int   `json:"my_score"`
	OpponentScore     int   `json:"opponent_score"`
	IsMyTurn          bool  `json:"is_my_turn"`
	// TimeRemaining is in seconds and set only while the session is active.
	TimeRemaining *int `json:"time_remaining,omitempty"`

	CurrentRound    CurrentRoundView `json:"current_round"`
	CompletedRounds []RoundView      `json:"completed_rounds"`
}

// MoveResult describes the transition caused by a move submission.
type MoveResult struct {
	RoundComplete bool `json:"round_complete"`
	// RoundWinner is a player id, OutcomeTie, or empty when the round is still open.
	RoundWinner  string       `json:"round_winner,omitempty"`
	GameComplete bool         `json:"game_complete"`
	Winner       string       `json:"winner,omitempty"`
	State        *SessionView `json:"state"`
}

// SessionSummary is a listing entry for a participant's sessions.
type SessionSummary struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	Mode       string    `json:"mode"`
	Status     string    `json:"status"`
	Round      int       `json:"round"`
	OpponentID string    `json:"opponent_id,omitempty"`
	IsMyTurn   bool      `json:"is_my_turn"`
	Winner     string    `json:"winner,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SessionUpdate is the redacted notification published after a committed transition.
type SessionUpdate struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Round     int    `json:"round"`
	Turn      string `json:"turn,omitempty"`
	Winner    string `json:"winner,omitempty"`
}

func NewSessionUpdate(session *Session) SessionUpdate {
	return SessionUpdate{
		SessionID: session.ID,
		Status:    session.Status,
		Round:     session.Round,
		Turn:      session.Turn,
		Winner:    session.Winner,
	}
}
