package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOngoingGame(mode string) *entity.Game {
	game := entity.NewGame("123", mode)
	game.Status = entity.StatusOngoing

	return game
}

func TestController_MakeTurn(t *testing.T) {
	controller := NewController(newTestEngine())

	t.Run("MakeTurn", func(t *testing.T) {
		// Given: create a new game
		game := newOngoingGame(entity.ModePvP)

		// When: player X makes a turn
		outcome, err := controller.MakeTurn(game, x, 0)
		require.NoError(t, err)

		// Then: the game state should reflect the turn and queue change
		expectedGame := &entity.Game{
			ID:     "123",
			Board:  entity.Board{x},
			Turn:   o,
			Winner: "",
			Status: entity.StatusOngoing,
			Mode:   entity.ModePvP,
		}

		require.Equal(t, expectedGame, game)
		assert.Equal(t, entity.OngoingOutcome(), outcome)
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: player X took cell 0
		game := newOngoingGame(entity.ModePvP)
		_, err := controller.MakeTurn(game, x, 0)
		require.NoError(t, err)
		snapshot := *game

		// When: player O tries to make a move to the same square
		_, err = controller.MakeTurn(game, o, 0)

		// Then: an error ErrCellOccupied must be returned and the game state remains unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		require.Equal(t, snapshot, *game)
	})

	t.Run("Error on playing out of turn", func(t *testing.T) {
		// Given: a new game
		game := newOngoingGame(entity.ModePvP)

		// When: player O tries to make a move when it is player X's turn
		_, err := controller.MakeTurn(game, o, 1)

		// Then: an error ErrNotYourTurn must be returned
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, entity.Board{}, game.Board)
		assert.Equal(t, x, game.Turn)
	})

	t.Run("Invalid Cell", func(t *testing.T) {
		game := newOngoingGame(entity.ModePvP)

		_, err := controller.MakeTurn(game, x, 20)

		assert.ErrorIs(t, err, apperror.ErrInvalidCell)
		assert.ErrorIs(t, err, apperror.ErrInvalidMove)
	})

	t.Run("Invalid Negative Cell", func(t *testing.T) {
		game := newOngoingGame(entity.ModePvP)

		_, err := controller.MakeTurn(game, x, -1)

		assert.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Winning move finishes the game", func(t *testing.T) {
		// Given: X is one move from completing the top row
		game := newOngoingGame(entity.ModePvP)
		game.Board = entity.Board{x, x, e, o, o, e, e, e, e}

		// When: X completes it
		outcome, err := controller.MakeTurn(game, x, 2)

		// Then: the game is finished with X as the winner
		require.NoError(t, err)
		assert.Equal(t, entity.WinOutcome(x), outcome)
		assert.Equal(t, entity.StatusFinished, game.Status)
		assert.Equal(t, "X", game.Winner)
		assert.Equal(t, e, game.Turn)
	})

	t.Run("Last move without a line is a tie", func(t *testing.T) {
		game := newOngoingGame(entity.ModePvP)
		game.Board = entity.Board{o, x, o, o, x, x, x, o, e}

		outcome, err := controller.MakeTurn(game, x, 8)

		require.NoError(t, err)
		assert.Equal(t, entity.DrawOutcome(), outcome)
		assert.Equal(t, entity.PlayerTie, game.Winner)
	})

	t.Run("Move After Game Finished", func(t *testing.T) {
		// Given: a game where player X has already won
		game := &entity.Game{
			Board:  entity.Board{x, x, x, e, o, e, e, o, e},
			Status: entity.StatusFinished,
			Turn:   o,
		}

		// When: player O tries to make a move after the game is over
		outcome, err := controller.MakeTurn(game, o, 3)

		// Then: an error ErrGameFinished should be returned
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, entity.WinOutcome(x), outcome)
	})
}

func TestController_MakeEngineTurn(t *testing.T) {
	controller := NewController(newTestEngine())

	t.Run("Engine blocks the open line", func(t *testing.T) {
		// Given: X threatens the top row and the engine holds O
		game := newOngoingGame(entity.ModeBot)
		game.BotMark = o
		game.Board = entity.Board{x, x, e, e, o, e, e, e, e}
		game.Turn = o

		// When: the engine plays
		cell, outcome, err := controller.MakeEngineTurn(game)

		// Then: it takes cell 2 and hands the turn back
		require.NoError(t, err)
		assert.Equal(t, 2, cell)
		assert.Equal(t, o, game.Board[2])
		assert.Equal(t, x, game.Turn)
		assert.Equal(t, entity.OngoingOutcome(), outcome)
	})

	t.Run("Engine opens as X", func(t *testing.T) {
		game := newOngoingGame(entity.ModeBot)
		game.BotMark = x

		cell, _, err := controller.MakeEngineTurn(game)

		require.NoError(t, err)
		assert.Equal(t, 0, cell)
		assert.Equal(t, o, game.Turn)
	})

	t.Run("Engine waits for its turn", func(t *testing.T) {
		game := newOngoingGame(entity.ModeBot)
		game.BotMark = o

		_, _, err := controller.MakeEngineTurn(game)

		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, entity.Board{}, game.Board)
	})

	t.Run("Engine refuses a finished game", func(t *testing.T) {
		game := newOngoingGame(entity.ModeBot)
		game.BotMark = o
		game.Finish(entity.DrawOutcome())

		_, _, err := controller.MakeEngineTurn(game)

		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestStateOf(t *testing.T) {
	controller := NewController(newTestEngine())

	// Given: a fresh session
	game := newOngoingGame(entity.ModePvP)

	state, _ := StateOf(game)
	assert.Equal(t, AwaitingMoveFromX, state)

	// When: X plays, O is awaited
	_, err := controller.MakeTurn(game, x, 4)
	require.NoError(t, err)

	state, _ = StateOf(game)
	assert.Equal(t, AwaitingMoveFromO, state)

	// When: an illegal move is rejected, the state does not change
	_, err = controller.MakeTurn(game, o, 4)
	require.ErrorIs(t, err, apperror.ErrInvalidMove)

	state, _ = StateOf(game)
	assert.Equal(t, AwaitingMoveFromO, state)

	// When: the rest of the game is played out to an X win
	for _, move := range []struct {
		mark entity.Mark
		cell int
	}{{o, 0}, {x, 2}, {o, 6}, {x, 3}, {o, 1}, {x, 5}} {
		_, err = controller.MakeTurn(game, move.mark, move.cell)
		require.NoError(t, err)
	}

	// Then: the session is finished and no further transitions happen
	state, outcome := StateOf(game)
	assert.Equal(t, Finished, state)
	assert.Equal(t, entity.WinOutcome(x), outcome)

	_, err = controller.MakeTurn(game, o, 7)
	assert.ErrorIs(t, err, apperror.ErrGameFinished)
}

func TestController_HumanVersusEngine(t *testing.T) {
	controller := NewController(newTestEngine())

	// Given: the human plays X and always takes the lowest free cell
	game := newOngoingGame(entity.ModeBot)
	game.BotMark = o

	for !game.IsFinished() {
		if game.IsBotTurn() {
			_, _, err := controller.MakeEngineTurn(game)
			require.NoError(t, err)
			continue
		}

		_, err := controller.MakeTurn(game, x, game.Board.EmptyCells()[0])
		require.NoError(t, err)
	}

	// Then: the engine never loses
	assert.NotEqual(t, "X", game.Winner)
}
