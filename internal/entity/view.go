package entity

// SessionView is the wire form of a session shared by the JSON API and the
// websocket protocol.
type SessionView struct {
	ID       string `json:"id"`
	Version  uint64 `json:"version"`
	Board    Board  `json:"board"`
	XIsNext  bool   `json:"x_is_next"`
	Winner   Cell   `json:"winner"`
	Status   string `json:"status"`
	Outcome  string `json:"outcome"`
	Message  string `json:"message"`
	Finished bool   `json:"finished"`
}

func (that Session) View() SessionView {
	outcome := that.Game.Outcome()

	return SessionView{
		ID:       that.ID,
		Version:  that.Version,
		Board:    that.Game.Board,
		XIsNext:  that.Game.XIsNext,
		Winner:   that.Game.Winner,
		Status:   that.Game.Status,
		Outcome:  outcome,
		Message:  OutcomeMessage(outcome),
		Finished: that.Game.IsFinished(),
	}
}
