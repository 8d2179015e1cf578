package entity

import "time"

// Session binds a game to one browser or terminal. Version grows by one on
// every accepted transition and identifies the state a pending computer
// move was scheduled against.
type Session struct {
	ID        string    `json:"id"`
	Version   uint64    `json:"version"`
	Game      Game      `json:"game"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Version:   1,
		Game:      NewGame(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
