package tictactoe

import (
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	scoreWin  = 1
	scoreDraw = 0
	scoreLoss = -1
)

// SearchResult is the game-theoretic value of a position from the maximizer's point of view.
type SearchResult struct {
	Score int
	// Nodes is the number of positions visited, the root included.
	Nodes int

	move    int
	hasMove bool
}

// Move returns the best move. Terminal positions have none.
func (that SearchResult) Move() (int, bool) {
	return that.move, that.hasMove
}

// Search runs an exhaustive minimax from board. maximizer is the side the score is computed for,
// maximizing tells whether maximizer is to move.
//
// Empty cells are tried in ascending order and only a strictly better score replaces the current
// best, so ties resolve to the lowest index.
func Search(board entity.Board, maximizer entity.Mark, maximizing bool) SearchResult {
	s := searcher{maximizer: maximizer, minimizer: maximizer.Opponent()}

	// board is a copy; the recursion mutates it in place and restores every cell it touches
	return s.minimax(&board, maximizing)
}

type searcher struct {
	maximizer entity.Mark
	minimizer entity.Mark
}

func (that *searcher) minimax(board *entity.Board, maximizing bool) SearchResult {
	switch outcome := Evaluate(*board); {
	case outcome.Result == entity.Win && outcome.Winner == that.maximizer:
		return SearchResult{Score: scoreWin, Nodes: 1}
	case outcome.Result == entity.Win:
		return SearchResult{Score: scoreLoss, Nodes: 1}
	case outcome.Result == entity.Draw:
		return SearchResult{Score: scoreDraw, Nodes: 1}
	}

	best := SearchResult{Score: scoreWin + 1, Nodes: 1}
	mark := that.minimizer
	if maximizing {
		best.Score = scoreLoss - 1
		mark = that.maximizer
	}

	for _, cell := range board.EmptyCells() {
		board[cell] = mark
		result := that.minimax(board, !maximizing)
		board[cell] = entity.EmptyCell

		best.Nodes += result.Nodes

		if (maximizing && result.Score > best.Score) || (!maximizing && result.Score < best.Score) {
			best.Score = result.Score
			best.move = cell
			best.hasMove = true
		}
	}

	return best
}

// Engine picks optimal moves for an engine-controlled seat.
type Engine struct {
	logger *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{
		logger: logger.With("component", "engine"),
	}
}

// BestMove returns the optimal move for mark. The board must be valid and undecided.
func (that *Engine) BestMove(board entity.Board, mark entity.Mark) (int, SearchResult, error) {
	if !mark.IsPlayer() {
		return 0, SearchResult{}, fmt.Errorf("%w: unknown mark %q", apperror.ErrInvalidBoard, mark)
	}

	if err := board.Validate(); err != nil {
		return 0, SearchResult{}, err
	}

	if outcome := Evaluate(board); outcome.IsTerminal() {
		return 0, SearchResult{}, fmt.Errorf("%w: %s", apperror.ErrSearchPrecondition, outcome)
	}

	result := Search(board, mark, true)

	move, ok := result.Move()
	if !ok {
		return 0, result, apperror.ErrSearchPrecondition
	}

	that.logger.Debug("move selected", "mark", mark, "cell", move, "score", result.Score, "nodes", result.Nodes)

	return move, result, nil
}
