package entity

import "time"

// Move is one tile play. Moves are append-only.
type Move struct {
	SessionID string    `json:"session_id"`
	Round     int       `json:"round"`
	PlayerID  string    `json:"player_id"`
	Tile      int       `json:"tile"`
	Seq       int       `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

// Before orders moves by acceptance: creation time, then sequence number.
func (that Move) Before(other Move) bool {
	if that.CreatedAt.Equal(other.CreatedAt) {
		return that.Seq < other.Seq
	}

	return that.CreatedAt.Before(other.CreatedAt)
}
