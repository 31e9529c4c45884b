package entity

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

const (
	ModePvP = "pvp"
	ModeBot = "bot"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

type Game struct {
	ID      string    `json:"id"`
	Board   Board     `json:"board"`
	Winner  string    `json:"winner"`
	Status  string    `json:"status"`
	Turn    Mark      `json:"player_turn"`
	Mode    string    `json:"mode,omitempty"`
	BotMark Mark      `json:"bot_mark,omitempty"`
	Players []*Player `json:"players,omitempty"`
}

// NewGame - X always moves first on an empty board.
func NewGame(id, mode string) *Game {
	return &Game{
		ID:     id,
		Board:  Board{},
		Turn:   PlayerX,
		Status: StatusWaiting,
		Mode:   mode,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsWithBot() bool {
	return that.Mode == ModeBot
}

// IsBotTurn reports whether the engine-controlled seat is to move.
func (that *Game) IsBotTurn() bool {
	return that.IsWithBot() && that.IsOngoing() && that.BotMark != EmptyCell && that.Turn == that.BotMark
}

// Finish records a terminal outcome.
func (that *Game) Finish(outcome Outcome) {
	that.Status = StatusFinished
	that.Turn = EmptyCell

	if outcome.Result == Win {
		that.Winner = string(outcome.Winner)
		return
	}

	that.Winner = PlayerTie
}

func (that *Game) PlayerByID(id string) (*Player, bool) {
	for _, player := range that.Players {
		if player.ID == id {
			return player, true
		}
	}

	return nil, false
}

// GetRandomMarks returns the human mark first and the bot mark second.
func (that *Game) GetRandomMarks() (Mark, Mark) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return PlayerX, PlayerO
	}
	return PlayerO, PlayerX
}
