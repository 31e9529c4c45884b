package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Mark is the content of a single board cell.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"

	// PlayerTie is stored as the winner of a drawn game.
	PlayerTie = "-"
)

// BoardSize is the number of cells on the board.
const BoardSize = 9

// WinCombos - rows, columns and diagonals, in the order they are checked.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Opponent returns the other player's mark. Empty stays empty.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Board is a 3x3 grid stored in row-major order.
type Board [BoardSize]Mark

// Place puts mark on an empty cell.
func (that *Board) Place(cell int, mark Mark) error {
	if cell < 0 || cell >= BoardSize {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that[cell] != EmptyCell {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	that[cell] = mark

	return nil
}

// EmptyCells returns the indices of empty cells in ascending order.
func (that *Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that *Board) Count(mark Mark) int {
	count := 0
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}

	return count
}

// NextMark - X moves first, so X is to move whenever both players have the same number of marks.
func (that *Board) NextMark() Mark {
	if that.Count(PlayerX) == that.Count(PlayerO) {
		return PlayerX
	}

	return PlayerO
}

// Validate checks that the board only holds known marks and could be reached by alternating turns.
func (that *Board) Validate() error {
	for i, cell := range that {
		if cell != EmptyCell && !cell.IsPlayer() {
			return fmt.Errorf("%w: unknown mark %q at cell %d", apperror.ErrInvalidBoard, cell, i)
		}
	}

	diff := that.Count(PlayerX) - that.Count(PlayerO)
	if diff < 0 || diff > 1 {
		return fmt.Errorf("%w: X-O mark difference is %d", apperror.ErrInvalidBoard, diff)
	}

	// play stops at the first completed line, so the winner made the last move
	xLine, oLine := that.hasLine(PlayerX), that.hasLine(PlayerO)
	switch {
	case xLine && oLine:
		return fmt.Errorf("%w: both players completed a line", apperror.ErrInvalidBoard)
	case xLine && diff != 1:
		return fmt.Errorf("%w: O moved after X completed a line", apperror.ErrInvalidBoard)
	case oLine && diff != 0:
		return fmt.Errorf("%w: X moved after O completed a line", apperror.ErrInvalidBoard)
	}

	return nil
}

func (that *Board) hasLine(mark Mark) bool {
	for _, combo := range WinCombos {
		if that[combo[0]] == mark && that[combo[1]] == mark && that[combo[2]] == mark {
			return true
		}
	}

	return false
}
