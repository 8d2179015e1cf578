package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	// When: a new game is created
	game := NewGame()

	// Then: the board is empty, X moves first and nobody has won
	expectedGame := Game{
		Board:   Board{},
		XIsNext: true,
		Winner:  Empty,
		Status:  StatusPlaying,
	}

	require.Equal(t, expectedGame, game)
}

func TestDetermineWinner(t *testing.T) {
	t.Run("Returns the mark for every winning line", func(t *testing.T) {
		for _, mark := range []Cell{X, O} {
			for _, combo := range WinCombos {
				// Given: a board where only the combo cells hold the mark
				var board Board
				for _, idx := range combo {
					board[idx] = mark
				}

				// When: determining the winner
				winner := DetermineWinner(board)

				// Then: the mark is returned
				assert.Equal(t, mark, winner, "combo %v", combo)
			}
		}
	})

	t.Run("Returns Empty when no line matches", func(t *testing.T) {
		// Given: a full board without any line of three
		board := Board{
			X, O, X,
			X, O, O,
			O, X, X,
		}

		// When: determining the winner
		winner := DetermineWinner(board)

		// Then: there is no winner
		assert.Equal(t, Empty, winner)
	})

	t.Run("Returns Empty on an empty board", func(t *testing.T) {
		assert.Equal(t, Empty, DetermineWinner(Board{}))
	})

	t.Run("Mixed line is not a win", func(t *testing.T) {
		// Given: a top row with two X and one O
		board := Board{X, X, O}

		// Then: there is no winner
		assert.Equal(t, Empty, DetermineWinner(board))
	})

	t.Run("First line in order wins on a malformed board", func(t *testing.T) {
		// Given: a board with an O row above an X row
		board := Board{
			O, O, O,
			X, X, X,
			Empty, Empty, Empty,
		}

		// When: determining the winner
		winner := DetermineWinner(board)

		// Then: the top row is checked first
		assert.Equal(t, O, winner)
	})

	t.Run("Column before diagonal on a malformed board", func(t *testing.T) {
		// Given: O holds the middle column and X the right column
		board := Board{
			Empty, O, X,
			Empty, O, X,
			Empty, O, X,
		}

		// Then: the middle column {1,4,7} comes before {2,5,8}
		assert.Equal(t, O, DetermineWinner(board))
	})
}

func TestGame_UpdateGameState(t *testing.T) {
	t.Run("Win sets winner and status", func(t *testing.T) {
		// Given: a game where X holds the top row
		game := Game{Board: Board{X, X, X, O, O}, XIsNext: false}

		// When: updating the game state
		game.UpdateGameState()

		// Then: X wins
		assert.Equal(t, X, game.Winner)
		assert.Equal(t, StatusWon, game.Status)
		assert.True(t, game.IsFinished())
	})

	t.Run("Full board without line is a draw", func(t *testing.T) {
		// Given: a full board without any line
		game := Game{Board: Board{X, O, X, X, O, O, O, X, X}}

		// When: updating the game state
		game.UpdateGameState()

		// Then: the game is a draw with no winner
		assert.Equal(t, Empty, game.Winner)
		assert.Equal(t, StatusDraw, game.Status)
		assert.True(t, game.IsFinished())
	})

	t.Run("Game goes on otherwise", func(t *testing.T) {
		// Given: a partly filled board
		game := Game{Board: Board{X, O}}

		// When: updating the game state
		game.UpdateGameState()

		// Then: the game is still being played
		assert.Equal(t, StatusPlaying, game.Status)
		assert.False(t, game.IsFinished())
	})
}

func TestGame_Outcome(t *testing.T) {
	tests := []struct {
		name     string
		game     Game
		expected string
	}{
		{
			name:     "X won",
			game:     Game{Board: Board{X, X, X, O, O}, Winner: X},
			expected: OutcomeHumanWin,
		},
		{
			name:     "O won",
			game:     Game{Board: Board{O, O, O, X, X, Empty, X}, Winner: O, XIsNext: true},
			expected: OutcomeHumanLoss,
		},
		{
			name:     "Full board without winner",
			game:     Game{Board: Board{X, O, X, X, O, O, O, X, X}, XIsNext: false},
			expected: OutcomeDraw,
		},
		{
			name:     "Human to move",
			game:     Game{Board: Board{X, O}, XIsNext: true},
			expected: OutcomeHumanTurn,
		},
		{
			name:     "Computer to move",
			game:     Game{Board: Board{X}, XIsNext: false},
			expected: OutcomeWaiting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.game.Outcome())
			assert.NotEmpty(t, OutcomeMessage(tt.expected))
		})
	}
}

func TestGame_IsComputerTurn(t *testing.T) {
	assert.False(t, NewGame().IsComputerTurn())
	assert.True(t, Game{Board: Board{X}, XIsNext: false}.IsComputerTurn())
	assert.False(t, Game{Board: Board{X, X, X, O, O}, Winner: X, XIsNext: false}.IsComputerTurn())
	assert.False(t, Game{Board: Board{X, O, X, X, O, O, O, X, X}, XIsNext: false}.IsComputerTurn())
}

func TestBoard_EmptyCells(t *testing.T) {
	// Given: a board with three free cells
	board := Board{X, O, X, Empty, O, X, Empty, X, Empty}

	// Then: the free indices come back in ascending order
	assert.Equal(t, []int{3, 6, 8}, board.EmptyCells())
	assert.False(t, board.IsFull())
	assert.Empty(t, Board{X, O, X, X, O, O, O, X, X}.EmptyCells())
}

func TestCell_JSON(t *testing.T) {
	t.Run("Board encodes marks as strings", func(t *testing.T) {
		data, err := json.Marshal(Board{X, O})
		require.NoError(t, err)
		assert.JSONEq(t, `["X","O","","","","","","",""]`, string(data))
	})

	t.Run("Unknown mark is rejected", func(t *testing.T) {
		var cell Cell
		err := json.Unmarshal([]byte(`"Z"`), &cell)
		require.Error(t, err)
	})
}
