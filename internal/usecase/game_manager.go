package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

var (
	ErrUnknownGameMode = errors.New("unknown game mode")
	ErrNoActiveGame    = errors.New("player has no active game")
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type GameManager struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo
	controller *tictactoe.Controller

	// pickMarks returns the human mark and the bot mark for a new bot game.
	pickMarks func() (entity.Mark, entity.Mark)
}

func NewGameManager(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo, controller *tictactoe.Controller) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		controller: controller,

		pickMarks: (&entity.Game{}).GetRandomMarks,
	}
}

// MakeTurn applies the player's move. In bot games the engine answers right away.
// A finished game is removed from storage and returned together with ErrGameFinished.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn")

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, ErrNoActiveGame
	}

	game, err := that.getGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("%w by id", err)
	}

	if game.IsWaiting() {
		return game, apperror.ErrGameIsNotStarted
	}

	outcome, err := that.controller.MakeTurn(game, player.Mark, cell)
	if errors.Is(err, apperror.ErrGameFinished) {
		that.deleteGame(ctx, game)

		return game, apperror.ErrGameFinished
	}

	if err != nil {
		return nil, fmt.Errorf("failed make turn: %w", err)
	}

	if !outcome.IsTerminal() && game.IsBotTurn() {
		botCell, _, err := that.controller.MakeEngineTurn(game)
		if err != nil {
			return nil, fmt.Errorf("failed make bot turn: %w", err)
		}

		log.Debug("bot made turn", "game_id", game.ID, "cell", botCell)
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	if game.IsFinished() {
		that.deleteGame(ctx, game)

		return game, apperror.ErrGameFinished
	}

	return game, nil
}

func (that *GameManager) ConnectToGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	existingGame, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed get game by id: %w", err)
	}

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.GameID == existingGame.ID {
		return existingGame, nil
	}

	if existingGame.IsWithBot() || len(existingGame.Players) == 2 || !existingGame.IsWaiting() {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameAlreadyExists, gameID)
	}

	player.GameID = existingGame.ID
	player.Mark = entity.PlayerO
	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed update player by id: %w", err)
	}

	existingGame.Status = entity.StatusOngoing
	existingGame.Players = append(existingGame.Players, player)
	if err = that.updateGame(ctx, existingGame); err != nil {
		return nil, fmt.Errorf("failed update game by id: %w", err)
	}

	return existingGame, nil
}

// CreateGame returns the player's current game when there is one.
func (that *GameManager) CreateGame(ctx context.Context, playerID, mode string) (*entity.Game, error) {
	if mode != entity.ModePvP && mode != entity.ModeBot {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGameMode, mode)
	}

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.GameID != "" {
		existingGame, err := that.getGameByID(ctx, player.GameID)
		if err == nil {
			return existingGame, nil
		}

		that.logger.Warn("player refers to a missing game", "player_id", player.ID, "game_id", player.GameID, "error", err)
	}

	newGame, err := that.createGame(ctx, player, mode)
	if err != nil {
		return nil, fmt.Errorf("failed create game: %w", err)
	}

	return newGame, nil
}

func (that *GameManager) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, ErrNoActiveGame
	}

	game, err := that.getGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed get game: %w", err)
	}

	return game, nil
}

// LeaveGame ends the player's game. When an ongoing game is left, the opponent wins.
func (that *GameManager) LeaveGame(ctx context.Context, playerID string) (*entity.Game, error) {
	game, err := that.GetGameByPlayerID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	player, ok := game.PlayerByID(playerID)
	if ok && game.IsOngoing() {
		game.Finish(entity.WinOutcome(player.Mark.Opponent()))
	} else {
		game.Status = entity.StatusFinished
		game.Turn = entity.EmptyCell
	}

	that.deleteGame(ctx, game)

	return game, nil
}

func (that *GameManager) createGame(ctx context.Context, player *entity.Player, mode string) (*entity.Game, error) {
	gameID := pkg.GenerateGameID()
	newGame := entity.NewGame(gameID, mode)

	player.GameID = gameID
	player.Mark = entity.PlayerX
	newGame.Players = []*entity.Player{
		player,
	}

	if mode == entity.ModeBot {
		humanMark, botMark := that.pickMarks()

		player.Mark = humanMark
		newGame.BotMark = botMark
		newGame.Status = entity.StatusOngoing
		newGame.Players = append(newGame.Players, entity.NewBotPlayer(gameID, botMark))

		if newGame.IsBotTurn() {
			if _, _, err := that.controller.MakeEngineTurn(newGame); err != nil {
				return nil, fmt.Errorf("failed make bot turn: %w", err)
			}
		}
	}

	if err := that.updatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed update player: %w", err)
	}

	if err := that.gameRepo.CreateOrUpdate(ctx, newGame); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return newGame, nil
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	existingGame, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return existingGame, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *GameManager) deleteGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "deleteGame")

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		released := &entity.Player{ID: player.ID}
		if err := that.playerRepo.CreateOrUpdate(ctx, released); err != nil {
			log.Error("failed to update player", "error", err)
		}
	}

	log.Info("game deleted", "game_id", game.ID, "winner", game.Winner)
}

func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		player, err := that.createPlayer(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create new player %w", err)
		}

		return player, nil
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id %w", err)
	}

	return player, nil
}

func (that *GameManager) createPlayer(ctx context.Context) (*entity.Player, error) {
	playerID := pkg.GenerateNewSessionID()

	player := &entity.Player{
		ID: playerID,
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

func (that *GameManager) getPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *GameManager) updatePlayer(ctx context.Context, player *entity.Player) error {
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}
