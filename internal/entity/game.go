package entity

const (
	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusDraw    = "draw"
)

const (
	OutcomeHumanWin  = "human_win"
	OutcomeHumanLoss = "human_loss"
	OutcomeDraw      = "draw"
	OutcomeHumanTurn = "human_turn"
	OutcomeWaiting   = "waiting"
)

var (
	HumanMark    = X
	ComputerMark = O

	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}

	outcomeMessages = map[string]string{
		OutcomeHumanWin:  "You won!",
		OutcomeHumanLoss: "You lost! Try again",
		OutcomeDraw:      "Draw! Try again",
		OutcomeHumanTurn: "Your move!",
		OutcomeWaiting:   "...",
	}
)

// Game is the full state of one match. It is a plain value: copying it
// copies the board.
type Game struct {
	Board   Board  `json:"board"`
	XIsNext bool   `json:"x_is_next"`
	Winner  Cell   `json:"winner"`
	Status  string `json:"status"`
}

func NewGame() Game {
	return Game{
		XIsNext: true,
		Winner:  Empty,
		Status:  StatusPlaying,
	}
}

// DetermineWinner returns the mark of the first line, in WinCombos order,
// holding three equal non-empty cells, or Empty.
func DetermineWinner(board Board) Cell {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != Empty && a == b && b == c {
			return a
		}
	}

	return Empty
}

// UpdateGameState recomputes Winner and Status from the board.
func (that *Game) UpdateGameState() {
	that.Winner = DetermineWinner(that.Board)

	switch {
	case that.Winner != Empty:
		that.Status = StatusWon
	case that.Board.IsFull():
		that.Status = StatusDraw
	default:
		that.Status = StatusPlaying
	}
}

// NextMark is the mark a MakeMove would place.
func (that Game) NextMark() Cell {
	if that.XIsNext {
		return X
	}
	return O
}

func (that Game) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

// IsComputerTurn reports whether the delayed computer move is due.
func (that Game) IsComputerTurn() bool {
	return !that.XIsNext && that.Winner == Empty && !that.Board.IsFull()
}

// Outcome picks the status message category shown to the human player.
func (that Game) Outcome() string {
	switch {
	case that.Winner == HumanMark:
		return OutcomeHumanWin
	case that.Winner == ComputerMark:
		return OutcomeHumanLoss
	case that.Board.IsFull():
		return OutcomeDraw
	case that.XIsNext:
		return OutcomeHumanTurn
	default:
		return OutcomeWaiting
	}
}

func OutcomeMessage(outcome string) string {
	return outcomeMessages[outcome]
}
