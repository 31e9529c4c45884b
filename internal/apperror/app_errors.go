package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrGameAlreadyExists = errors.New("game already exists")
	ErrInvalidBoard      = errors.New("invalid board")

	// ErrInvalidMove is recoverable: the move is rejected and the session stays in the same state.
	ErrInvalidMove  = errors.New("invalid move")
	ErrCellOccupied = fmt.Errorf("%w: cell is already occupied", ErrInvalidMove)
	ErrInvalidCell  = fmt.Errorf("%w: invalid cell index", ErrInvalidMove)

	// ErrSearchPrecondition is returned when a move is requested for a board that is already decided.
	ErrSearchPrecondition = errors.New("search requested on a finished board")
)
