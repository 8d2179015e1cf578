package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

var (
	errNoGame       = errors.New("no game selected")
	errCellRequired = errors.New("cell is required")
)

func (that *Server) handleNewGame(ctx context.Context, conn *connection, _ *RequestPayload) (*entity.Session, error) {
	session, err := that.manager.NewGame(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if err = that.follow(ctx, conn, session.ID); err != nil {
		return nil, err
	}

	return session, nil
}

func (that *Server) handleGetGame(ctx context.Context, conn *connection, req *RequestPayload) (*entity.Session, error) {
	id, err := gameID(conn, req)
	if err != nil {
		return nil, err
	}

	session, err := that.manager.GetGame(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if err = that.ensureFollowing(ctx, conn, id); err != nil {
		return nil, err
	}

	return session, nil
}

func (that *Server) handleGameTurn(ctx context.Context, conn *connection, req *RequestPayload) (*entity.Session, error) {
	if req.Cell == nil {
		return nil, errCellRequired
	}

	id, err := gameID(conn, req)
	if err != nil {
		return nil, err
	}

	if err = that.ensureFollowing(ctx, conn, id); err != nil {
		return nil, err
	}

	session, err := that.manager.MakeMove(ctx, id, *req.Cell)
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	return session, nil
}

func (that *Server) handleGameReset(ctx context.Context, conn *connection, req *RequestPayload) (*entity.Session, error) {
	id, err := gameID(conn, req)
	if err != nil {
		return nil, err
	}

	if err = that.ensureFollowing(ctx, conn, id); err != nil {
		return nil, err
	}

	session, err := that.manager.Reset(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}

	return session, nil
}

func (that *Server) follow(ctx context.Context, conn *connection, id string) error {
	updates, unsubscribe, err := that.manager.Subscribe(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	conn.follow(ctx, id, updates, unsubscribe)

	return nil
}

func (that *Server) ensureFollowing(ctx context.Context, conn *connection, id string) error {
	if conn.following(id) {
		return nil
	}

	return that.follow(ctx, conn, id)
}

// gameID prefers the id in the payload over the connection's current game.
func gameID(conn *connection, req *RequestPayload) (string, error) {
	if req.Game != nil && req.Game.ID != "" {
		return req.Game.ID, nil
	}

	if id := conn.currentGame(); id != "" {
		return id, nil
	}

	return "", errNoGame
}
