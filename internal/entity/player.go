package entity

import "time"

type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Simulated bool      `json:"simulated,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (that *Player) IsSimulated() bool {
	return that.Simulated
}
