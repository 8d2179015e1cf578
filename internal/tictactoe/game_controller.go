package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// Reduce returns the game that results from applying action to game.
// The input is never modified. Occupied cells and moves after a win are
// no-ops and return the input unchanged with a nil error.
func Reduce(game entity.Game, action Action, picker IndexPicker) (entity.Game, error) {
	switch act := action.(type) {
	case MakeMove:
		return makeMove(game, act.Index)
	case ComputerMove:
		return computerMove(game, picker)
	case ResetGame:
		return entity.NewGame(), nil
	default:
		return game, fmt.Errorf("%w: %T", apperror.ErrUnknownAction, action)
	}
}

func makeMove(game entity.Game, cell int) (entity.Game, error) {
	if cell < 0 || cell >= len(game.Board) {
		return game, fmt.Errorf("%w: cell %d", apperror.ErrInvalidIndex, cell)
	}

	if game.Winner != entity.Empty || game.Board[cell] != entity.Empty {
		return game, nil
	}

	return placeMark(game, cell, game.NextMark()), nil
}

// computerMove does not look at XIsNext: it always plays O and flips the
// flag. Callers only dispatch it when the computer is due.
func computerMove(game entity.Game, picker IndexPicker) (entity.Game, error) {
	if game.Winner != entity.Empty {
		return game, nil
	}

	availableCells := game.Board.EmptyCells()
	if len(availableCells) == 0 {
		return game, apperror.ErrNoLegalMoves
	}

	choice := picker.Pick(len(availableCells))
	if choice < 0 || choice >= len(availableCells) {
		return game, fmt.Errorf("%w: picker returned %d of %d", apperror.ErrInvalidIndex, choice, len(availableCells))
	}

	return placeMark(game, availableCells[choice], entity.ComputerMark), nil
}

// placeMark works on its own copy of game since Game is passed by value.
func placeMark(game entity.Game, cell int, mark entity.Cell) entity.Game {
	game.Board[cell] = mark
	game.XIsNext = !game.XIsNext
	game.UpdateGameState()

	return game
}
