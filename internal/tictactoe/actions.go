package tictactoe

const (
	ActionMakeMove     = "make_move"
	ActionComputerMove = "computer_move"
	ActionResetGame    = "reset_game"
)

// Action is one of MakeMove, ComputerMove or ResetGame.
type Action interface {
	Name() string
	isAction()
}

// MakeMove places the mark of the side that is due at Index.
type MakeMove struct {
	Index int
}

// ComputerMove places an O on a randomly chosen empty cell.
type ComputerMove struct{}

// ResetGame discards the current game.
type ResetGame struct{}

func (MakeMove) Name() string     { return ActionMakeMove }
func (ComputerMove) Name() string { return ActionComputerMove }
func (ResetGame) Name() string    { return ActionResetGame }

func (MakeMove) isAction()     {}
func (ComputerMove) isAction() {}
func (ResetGame) isAction()    {}
