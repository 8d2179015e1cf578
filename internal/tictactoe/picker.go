package tictactoe

import "math/rand/v2"

// IndexPicker chooses one of n candidates. Pick must return a value in [0, n).
type IndexPicker interface {
	Pick(n int) int
}

type randomPicker struct{}

// NewRandomPicker returns a picker with a uniform distribution.
func NewRandomPicker() IndexPicker {
	return randomPicker{}
}

func (randomPicker) Pick(n int) int {
	return rand.IntN(n) //nolint: gosec // it's ok
}

// PickerFunc adapts a plain function to IndexPicker.
type PickerFunc func(n int) int

func (that PickerFunc) Pick(n int) int {
	return that(n)
}
