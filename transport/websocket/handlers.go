package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := parsePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	var playerID string
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.uGame.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to create or get player", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new player")
	}

	that.register(player.ID, conn)

	payloadResp := Payload{
		Player: player,
	}

	if player.GameID != "" {
		game, err := that.uGame.GetGameByPlayerID(ctx, player.ID)
		if err != nil {
			log.Warn("failed to get game", "gameID", player.GameID, "error", err)
		} else {
			payloadResp.Game = maskGameDetails(game)
		}
	}

	if err = conn.send(msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, err := parsePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	if payloadReq.Player == nil {
		return that.sendErrorResponse(conn, msg.Action, "Player is required")
	}

	mode := entity.ModePvP
	if payloadReq.Game != nil && payloadReq.Game.Mode != "" {
		mode = payloadReq.Game.Mode
	}

	that.register(payloadReq.Player.ID, conn)

	game, err := that.uGame.CreateGame(ctx, payloadReq.Player.ID, mode)
	if err != nil {
		log.Error("failed to create game", "mode", mode, "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new game")
	}

	log.Info("game created", "gameID", game.ID, "mode", mode)

	return that.broadcastGame(msg.Action, game)
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleJoinGame")

	payloadReq, err := parsePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	if payloadReq.Player == nil {
		return that.sendErrorResponse(conn, msg.Action, "Player is required")
	}

	if payloadReq.Game == nil || payloadReq.Game.ID == "" {
		return that.sendErrorResponse(conn, msg.Action, "Game is required")
	}

	that.register(payloadReq.Player.ID, conn)

	game, err := that.uGame.ConnectToGame(ctx, payloadReq.Game.ID, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to join game", "gameID", payloadReq.Game.ID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to join the game")
	}

	return that.broadcastGame(msg.Action, game)
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, err := parsePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	if payloadReq.Player == nil {
		return that.sendErrorResponse(conn, msg.Action, "Player is required")
	}

	if payloadReq.Cell == nil {
		return that.sendErrorResponse(conn, msg.Action, "Cell is required")
	}

	game, err := that.uGame.MakeTurn(ctx, payloadReq.Player.ID, *payloadReq.Cell)
	if errors.Is(err, apperror.ErrGameFinished) && game != nil {
		return that.handleGameFinished(msg.Action, game)
	}

	if err != nil {
		log.Debug("turn rejected", "playerID", payloadReq.Player.ID, "cell", *payloadReq.Cell, "error", err)
		return that.sendErrorResponse(conn, msg.Action, turnErrorMessage(err))
	}

	return that.broadcastGame(msg.Action, game)
}

func (that *Server) handleLeaveGame(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleLeaveGame")

	payloadReq, err := parsePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	if payloadReq.Player == nil {
		return that.sendErrorResponse(conn, msg.Action, "Player is required")
	}

	game, err := that.uGame.LeaveGame(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to leave game", "playerID", payloadReq.Player.ID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to leave the game")
	}

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		peer, ok := that.connectionOf(player.ID)
		if !ok {
			continue
		}

		payloadResp := Payload{
			Player: player,
			Game:   maskGameDetails(game),
		}

		payloadResp.Game.Status = gameStatusOpponentOut
		if player.ID == payloadReq.Player.ID {
			payloadResp.Game.Status = gameStatusLeave
		}

		if err = peer.send(msg.Action, payloadResp); err != nil {
			log.Error("failed to send game update", "playerID", player.ID, "error", err)
		}
	}

	log.Info("player left", "playerID", payloadReq.Player.ID, "gameID", game.ID)

	return nil
}

func (that *Server) handleGameFinished(action string, game *entity.Game) error {
	if err := that.broadcastGame(action, game); err != nil {
		return fmt.Errorf("failed to send game finished message: %w", err)
	}

	that.logger.Info("Game finished", "gameID", game.ID, "winner", game.Winner)

	return nil
}

// broadcastGame sends the game to every connected human player.
func (that *Server) broadcastGame(action string, game *entity.Game) error {
	log := that.logger.With("method", "broadcastGame", "gameID", game.ID)

	var errs []error
	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		conn, ok := that.connectionOf(player.ID)
		if !ok {
			log.Warn("connection not found for player", "playerID", player.ID)
			continue
		}

		payloadResp := Payload{
			Player: player,
			Game:   maskGameDetails(game),
		}

		if err := conn.send(action, payloadResp); err != nil {
			errs = append(errs, fmt.Errorf("player %s: %w", player.ID, err))
		}
	}

	return errors.Join(errs...)
}

func (that *Server) sendErrorResponse(conn *connection, action, errorMsg string) error {
	if err := conn.send(action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func parsePayload(msg *Message) (*Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payload, nil
}

func turnErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrInvalidMove):
		return apperror.ErrInvalidMove.Error()
	case errors.Is(err, apperror.ErrNotYourTurn):
		return apperror.ErrNotYourTurn.Error()
	case errors.Is(err, apperror.ErrGameIsNotStarted):
		return apperror.ErrGameIsNotStarted.Error()
	default:
		return "failed to make turn"
	}
}
