package entity

import (
	"encoding/json"
	"fmt"
)

// Cell is the content of a single board position.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

const BoardSize = 9

// Board is a 3x3 grid stored row-major, indices 0..8.
type Board [BoardSize]Cell

func (that Cell) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

func (that Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.String())
}

func (that *Cell) UnmarshalJSON(data []byte) error {
	var mark string
	if err := json.Unmarshal(data, &mark); err != nil {
		return fmt.Errorf("could not unmarshal cell: %w", err)
	}

	switch mark {
	case "X":
		*that = X
	case "O":
		*that = O
	case "":
		*that = Empty
	default:
		return fmt.Errorf("unknown cell mark %q", mark)
	}

	return nil
}

// IsFull reports whether no empty cell is left.
func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}
	return true
}

// EmptyCells returns the indices of unplayed cells in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == Empty {
			cells = append(cells, i)
		}
	}
	return cells
}
