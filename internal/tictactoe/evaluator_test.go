package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/stretchr/testify/assert"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

func TestEvaluate(t *testing.T) {
	t.Run("Winner X on a column", func(t *testing.T) {
		// Given: a board where player X has a winning combination
		board := entity.Board{x, o, e, x, o, e, x, e, e}

		// When: the board is evaluated
		outcome := Evaluate(board)

		// Then: player X should be declared the winner
		assert.Equal(t, entity.WinOutcome(x), outcome)
	})

	t.Run("Winner O on a diagonal", func(t *testing.T) {
		board := entity.Board{
			x, x, o,
			x, o, e,
			o, e, e,
		}

		assert.Equal(t, entity.WinOutcome(o), Evaluate(board))
	})

	t.Run("Every line wins", func(t *testing.T) {
		for _, combo := range entity.WinCombos {
			// Given: a board with only one completed line
			var board entity.Board
			for _, cell := range combo {
				board[cell] = o
			}

			// Then: the owner of the line wins
			assert.Equal(t, entity.WinOutcome(o), Evaluate(board), "line %v", combo)
		}
	})

	t.Run("Win on a full board is not a draw", func(t *testing.T) {
		board := entity.Board{
			x, x, x,
			o, o, x,
			x, o, o,
		}

		assert.Equal(t, entity.WinOutcome(x), Evaluate(board))
	})

	t.Run("Ongoing Game", func(t *testing.T) {
		// Given: a game where there is no winner yet
		board := entity.Board{x, o, x, e, o, e, x, e, e}

		// Then: the game should continue
		assert.Equal(t, entity.OngoingOutcome(), Evaluate(board))
	})

	t.Run("Empty board", func(t *testing.T) {
		assert.Equal(t, entity.OngoingOutcome(), Evaluate(entity.Board{}))
	})

	t.Run("Tie", func(t *testing.T) {
		// Given: a full board without a completed line
		board := entity.Board{o, x, o, o, x, x, x, o, x}

		// Then: the game should be declared a tie
		assert.Equal(t, entity.DrawOutcome(), Evaluate(board))
	})
}
