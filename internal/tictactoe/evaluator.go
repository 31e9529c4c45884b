package tictactoe

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

// Evaluate classifies the board. The first completed line in entity.WinCombos order decides the winner.
func Evaluate(board entity.Board) entity.Outcome {
	for _, combo := range entity.WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return entity.WinOutcome(a)
		}
	}

	// the game will continue until all the squares are full
	if !board.IsFull() {
		return entity.OngoingOutcome()
	}

	return entity.DrawOutcome()
}
