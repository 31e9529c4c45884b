package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const maxAnalysisBody = 1 << 10

type moveFinder interface {
	BestMove(board entity.Board, mark entity.Mark) (int, tictactoe.SearchResult, error)
}

type analysisRequest struct {
	Board []entity.Mark `json:"board"`
}

type analysisResponse struct {
	Outcome  entity.Outcome `json:"outcome"`
	NextMark entity.Mark    `json:"next_mark,omitempty"`
	Move     *int           `json:"move,omitempty"`
	Score    *int           `json:"score,omitempty"`
	Nodes    int            `json:"nodes,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type analysisHandler struct {
	logger *slog.Logger
	engine moveFinder
}

func newAnalysisHandler(logger *slog.Logger, engine moveFinder) *analysisHandler {
	return &analysisHandler{
		logger: logger.With("component", "rest", "handler", "analysis"),
		engine: engine,
	}
}

// Analyze reports the outcome of a board and, for ongoing boards, the best move of the side to move.
func (that *analysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Analyze")

	var req analysisRequest
	body := http.MaxBytesReader(w, r.Body, maxAnalysisBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "payload too large"})
			return
		}

		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	board, err := parseBoard(req.Board)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	resp := analysisResponse{
		Outcome: tictactoe.Evaluate(board),
	}

	if resp.Outcome.IsTerminal() {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.NextMark = board.NextMark()

	move, result, err := that.engine.BestMove(board, resp.NextMark)
	if errors.Is(err, apperror.ErrInvalidBoard) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err != nil {
		log.Error("failed to analyse board", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
		return
	}

	resp.Move = &move
	resp.Score = &result.Score
	resp.Nodes = result.Nodes

	writeJSON(w, http.StatusOK, resp)
}

func parseBoard(cells []entity.Mark) (entity.Board, error) {
	var board entity.Board

	if len(cells) != entity.BoardSize {
		return board, fmt.Errorf("%w: expected %d cells, got %d", apperror.ErrInvalidBoard, entity.BoardSize, len(cells))
	}

	copy(board[:], cells)

	if err := board.Validate(); err != nil {
		return board, err
	}

	return board, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
