package websocket

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// connection owns one websocket. Every write goes through writePump.
type connection struct {
	logger *slog.Logger
	ws     *websocket.Conn
	out    chan Message

	mu          sync.Mutex
	gameID      string
	unsubscribe func()
	generation  uint64
}

func newConnection(logger *slog.Logger, ws *websocket.Conn) *connection {
	return &connection{
		logger: logger.With("remote", ws.RemoteAddr().String()),
		ws:     ws,
		out:    make(chan Message, sendBuffer),
	}
}

func (that *connection) prepareRead() {
	that.ws.SetReadLimit(maxMessageSize)
	_ = that.ws.SetReadDeadline(time.Now().Add(pongWait))
	that.ws.SetPongHandler(func(string) error {
		return that.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
}

func (that *connection) writePump(ctx context.Context) {
	log := that.logger.With("method", "writePump")

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.ws.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = that.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case msg := <-that.out:
			_ = that.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.ws.WriteJSON(msg); err != nil {
				log.Debug("failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			_ = that.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (that *connection) send(ctx context.Context, action string, payload ResponsePayload) {
	msg, err := newMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to marshal response", "error", err)
		return
	}

	select {
	case that.out <- msg:
	case <-ctx.Done():
	}
}

func (that *connection) sendError(ctx context.Context, action, errMsg string) {
	that.send(ctx, action, ResponsePayload{Error: errMsg})
}

func (that *connection) currentGame() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.gameID
}

// following reports whether updates of game id still reach this connection.
func (that *connection) following(id string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.gameID == id && that.unsubscribe != nil
}

// follow switches the connection to game id and forwards its updates. When the
// manager closes the updates, the game stays current but must be followed
// again before more updates arrive.
func (that *connection) follow(ctx context.Context, id string, updates <-chan entity.Session, unsubscribe func()) {
	that.mu.Lock()
	previous := that.unsubscribe
	that.gameID = id
	that.unsubscribe = unsubscribe
	that.generation++
	generation := that.generation
	that.mu.Unlock()

	if previous != nil {
		previous()
	}

	go func() {
		for update := range updates {
			view := update.View()
			that.send(ctx, actionGameUpdate, ResponsePayload{Game: &view})
		}

		that.mu.Lock()
		if that.generation == generation {
			that.unsubscribe = nil
		}
		that.mu.Unlock()

		that.logger.Debug("stopped following game", "gameID", id)
	}()
}

func (that *connection) unfollow() {
	that.mu.Lock()
	unsubscribe := that.unsubscribe
	that.unsubscribe = nil
	that.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
