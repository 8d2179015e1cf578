package apperror

import "errors"

var (
	ErrInvalidIndex  = errors.New("cell index is out of range")
	ErrNoLegalMoves  = errors.New("no legal moves left")
	ErrUnknownAction = errors.New("unknown action")
	ErrGameNotFound  = errors.New("game not found")
)
