package entity

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	// When: a new game is created
	game := NewGame("123", ModeBot)

	// Then: X moves first on an empty board and the game waits for players
	expectedGame := &Game{
		ID:     "123",
		Board:  Board{},
		Turn:   PlayerX,
		Status: StatusWaiting,
		Mode:   ModeBot,
	}

	require.Equal(t, expectedGame, game)
}

func TestGameStatusMethods(t *testing.T) {
	t.Run("IsFinished returns true when game status is finished", func(t *testing.T) {
		// Given: a game with StatusFinished
		game := &Game{Status: StatusFinished}

		// Then: it should be finished
		assert.True(t, game.IsFinished())
	})

	t.Run("IsOngoing returns true when game status is ongoing", func(t *testing.T) {
		// Given: a game with StatusOngoing
		game := &Game{Status: StatusOngoing}

		// Then: it should be ongoing
		assert.True(t, game.IsOngoing())
	})

	t.Run("IsWaiting returns true when game status is waiting", func(t *testing.T) {
		// Given: a game with StatusWaiting
		game := &Game{Status: StatusWaiting}

		// Then: it should be waiting
		assert.True(t, game.IsWaiting())
	})
}

func TestGame_ConfirmOngoingState(t *testing.T) {
	t.Run("Returns nil when game is ongoing", func(t *testing.T) {
		game := &Game{Status: StatusOngoing}

		assert.NoError(t, game.ConfirmOngoingState())
	})

	t.Run("Returns ErrGameIsNotStarted when game is waiting", func(t *testing.T) {
		game := &Game{Status: StatusWaiting}

		assert.ErrorIs(t, game.ConfirmOngoingState(), apperror.ErrGameIsNotStarted)
	})

	t.Run("Returns ErrGameFinished when game is finished", func(t *testing.T) {
		game := &Game{Status: StatusFinished}

		assert.ErrorIs(t, game.ConfirmOngoingState(), apperror.ErrGameFinished)
	})

	t.Run("Returns error for unknown game status", func(t *testing.T) {
		// Given: a game with unknown status
		game := &Game{Status: "unknown"}

		// When: checking if the game is active
		err := game.ConfirmOngoingState()

		// Then: it should return an error
		require.ErrorIs(t, err, ErrUnknownGameStatus)
		assert.Contains(t, err.Error(), "unknown")
	})
}

func TestGame_Finish(t *testing.T) {
	t.Run("Records the winner", func(t *testing.T) {
		// Given: an ongoing game
		game := &Game{Status: StatusOngoing, Turn: PlayerO}

		// When: the game finishes with a win for X
		game.Finish(WinOutcome(PlayerX))

		// Then: X is the winner and nobody is to move
		assert.Equal(t, StatusFinished, game.Status)
		assert.Equal(t, string(PlayerX), game.Winner)
		assert.Equal(t, EmptyCell, game.Turn)
	})

	t.Run("Records a tie", func(t *testing.T) {
		game := &Game{Status: StatusOngoing, Turn: PlayerX}

		game.Finish(DrawOutcome())

		assert.Equal(t, StatusFinished, game.Status)
		assert.Equal(t, PlayerTie, game.Winner)
		assert.Equal(t, EmptyCell, game.Turn)
	})
}

func TestGame_IsBotTurn(t *testing.T) {
	t.Run("Bot to move in a bot game", func(t *testing.T) {
		game := &Game{Mode: ModeBot, Status: StatusOngoing, BotMark: PlayerO, Turn: PlayerO}

		assert.True(t, game.IsBotTurn())
	})

	t.Run("Human to move in a bot game", func(t *testing.T) {
		game := &Game{Mode: ModeBot, Status: StatusOngoing, BotMark: PlayerO, Turn: PlayerX}

		assert.False(t, game.IsBotTurn())
	})

	t.Run("PvP game never waits for the bot", func(t *testing.T) {
		game := &Game{Mode: ModePvP, Status: StatusOngoing, Turn: PlayerO}

		assert.False(t, game.IsBotTurn())
	})

	t.Run("Finished game", func(t *testing.T) {
		game := &Game{Mode: ModeBot, Status: StatusFinished, BotMark: PlayerO, Turn: PlayerO}

		assert.False(t, game.IsBotTurn())
	})
}

func TestGame_PlayerByID(t *testing.T) {
	human := &Player{ID: "p1", Mark: PlayerX}
	game := &Game{Players: []*Player{human, NewBotPlayer("g1", PlayerO)}}

	player, ok := game.PlayerByID("p1")
	require.True(t, ok)
	assert.Same(t, human, player)

	bot, ok := game.PlayerByID(BotPlayerID)
	require.True(t, ok)
	assert.True(t, bot.IsBot())

	_, ok = game.PlayerByID("missing")
	assert.False(t, ok)
}

func TestGame_GetRandomMarks(t *testing.T) {
	game := &Game{}

	for range 20 {
		human, bot := game.GetRandomMarks()

		assert.True(t, human.IsPlayer())
		assert.Equal(t, human.Opponent(), bot)
	}
}
