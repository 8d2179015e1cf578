package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const (
	actionGameNew    = "game:new"
	actionGameGet    = "game:get"
	actionGameTurn   = "game:turn"
	actionGameReset  = "game:reset"
	actionGameUpdate = "game:update"
	actionError      = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type GameRef struct {
	ID string `json:"id"`
}

type RequestPayload struct {
	Game *GameRef `json:"game,omitempty"`
	Cell *int     `json:"cell,omitempty"`
}

type ResponsePayload struct {
	Game  *entity.SessionView `json:"game,omitempty"`
	Error string              `json:"error,omitempty"`
}

func newMessage(action string, payload ResponsePayload) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	return Message{Action: action, Payload: raw}, nil
}
