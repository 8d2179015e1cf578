package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	NewGame(ctx context.Context) (*entity.Session, error)
	GetGame(ctx context.Context, id string) (*entity.Session, error)
	MakeMove(ctx context.Context, id string, cell int) (*entity.Session, error)
	Reset(ctx context.Context, id string) (*entity.Session, error)
	Subscribe(ctx context.Context, id string) (<-chan entity.Session, func(), error)
}

type handlerFunc func(ctx context.Context, conn *connection, req *RequestPayload) (*entity.Session, error)

type Server struct {
	logger   *slog.Logger
	manager  gameManager
	upgrader websocket.Upgrader
	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}

	server.handlers = map[string]handlerFunc{
		actionGameNew:   server.handleNewGame,
		actionGameGet:   server.handleGetGame,
		actionGameTurn:  server.handleGameTurn,
		actionGameReset: server.handleGameReset,
	}

	return server
}

// Handler serves the websocket endpoint on /ws.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	ws, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := newConnection(that.logger, ws)
	go conn.writePump(ctx)

	log.Info("WebSocket connection established")

	if err = that.readLoop(ctx, conn); err != nil {
		log.Debug("connection closed", "error", err)
	}

	conn.unfollow()
}

func (that *Server) readLoop(ctx context.Context, conn *connection) error {
	conn.prepareRead()

	for {
		var msg Message
		if err := conn.ws.ReadJSON(&msg); err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		that.processMessage(ctx, conn, &msg)
	}
}

// processMessage - processes incoming messages from the client.
func (that *Server) processMessage(ctx context.Context, conn *connection, msg *Message) {
	log := that.logger.With("method", "processMessage", "action", msg.Action)

	handler, ok := that.handlers[msg.Action]
	if !ok {
		conn.sendError(ctx, msg.Action, fmt.Sprintf("%v: %s", apperror.ErrUnknownAction, msg.Action))
		return
	}

	var req RequestPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			conn.sendError(ctx, msg.Action, "malformed payload")
			return
		}
	}

	session, err := handler(ctx, conn, &req)
	if err != nil {
		log.Debug("action rejected", "error", err)
		conn.sendError(ctx, msg.Action, errorMessage(err))

		return
	}

	view := session.View()
	conn.send(ctx, msg.Action, ResponsePayload{Game: &view})
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return apperror.ErrGameNotFound.Error()
	case errors.Is(err, apperror.ErrInvalidIndex):
		return apperror.ErrInvalidIndex.Error()
	case errors.Is(err, errNoGame):
		return errNoGame.Error()
	case errors.Is(err, errCellRequired):
		return errCellRequired.Error()
	default:
		return "internal error"
	}
}
