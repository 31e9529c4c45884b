package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// State is the phase of a session.
type State int

const (
	AwaitingMoveFromX State = iota
	AwaitingMoveFromO
	Finished
)

func (that State) String() string {
	switch that {
	case AwaitingMoveFromX:
		return "awaiting_x"
	case AwaitingMoveFromO:
		return "awaiting_o"
	default:
		return "finished"
	}
}

// StateOf derives the session state from the board; the outcome is only meaningful for Finished.
func StateOf(game *entity.Game) (State, entity.Outcome) {
	outcome := Evaluate(game.Board)
	if outcome.IsTerminal() || game.IsFinished() {
		return Finished, outcome
	}

	if game.Turn == entity.PlayerO {
		return AwaitingMoveFromO, outcome
	}

	return AwaitingMoveFromX, outcome
}

// Controller drives turns for human seats and for the engine seat.
type Controller struct {
	engine *Engine
}

func NewController(engine *Engine) *Controller {
	return &Controller{
		engine: engine,
	}
}

// MakeTurn places mark on cell for the player whose turn it is and re-evaluates the board.
// A rejected move leaves the game untouched.
func (that *Controller) MakeTurn(game *entity.Game, mark entity.Mark, cell int) (entity.Outcome, error) {
	if game.IsFinished() {
		return Evaluate(game.Board), apperror.ErrGameFinished
	}

	if err := validateMove(game, mark, cell); err != nil {
		return entity.OngoingOutcome(), fmt.Errorf("invalid turn: %w", err)
	}

	game.Board[cell] = mark

	return updateGameStatus(game, mark), nil
}

// MakeEngineTurn asks the engine for the move of game.BotMark and plays it.
func (that *Controller) MakeEngineTurn(game *entity.Game) (int, entity.Outcome, error) {
	if game.IsFinished() {
		return 0, Evaluate(game.Board), apperror.ErrGameFinished
	}

	if game.Turn != game.BotMark {
		return 0, entity.OngoingOutcome(), apperror.ErrNotYourTurn
	}

	cell, _, err := that.engine.BestMove(game.Board, game.BotMark)
	if err != nil {
		return 0, entity.OngoingOutcome(), fmt.Errorf("engine failed to pick a move: %w", err)
	}

	outcome, err := that.MakeTurn(game, game.BotMark, cell)
	if err != nil {
		return 0, outcome, fmt.Errorf("engine failed to make turn: %w", err)
	}

	return cell, outcome, nil
}

// validateMove - checks if the move is valid.
func validateMove(game *entity.Game, mark entity.Mark, cell int) error {
	if cell < 0 || cell >= len(game.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if game.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if game.Board[cell] != entity.EmptyCell {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	return nil
}

// updateGameStatus - checks the game status after a move.
func updateGameStatus(game *entity.Game, mark entity.Mark) entity.Outcome {
	outcome := Evaluate(game.Board)
	if outcome.IsTerminal() {
		game.Finish(outcome)
		return outcome
	}

	game.Status = entity.StatusOngoing
	game.Turn = mark.Opponent()

	return outcome
}
