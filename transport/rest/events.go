package rest

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

var heartbeatInterval = 15 * time.Second

// events streams the board fragment on every accepted state, including the
// delayed computer moves.
func (that *handlers) events(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "events")

	ctx := r.Context()
	id := chi.URLParam(r, "id")

	// Subscribe before reading the state so no update falls in between.
	updates, unsubscribe, err := that.manager.Subscribe(ctx, id)
	if err != nil {
		that.writeError(w, r, err)
		return
	}
	defer unsubscribe()

	session, err := that.manager.GetGame(ctx, id)
	if err != nil {
		that.writeError(w, r, err)
		return
	}
	sent := session.Version

	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	send := func(event string, data []byte) bool {
		if writeErr := writeEvent(w, event, data); writeErr != nil {
			log.Debug("client went away", "gameID", id, "error", writeErr)
			return false
		}

		return rc.Flush() == nil
	}

	board, err := render(that.tpl.board, newBoardData(session, ""))
	if err != nil || !send("board", board) {
		return
	}

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err = io.WriteString(w, ": ping\n\n"); err != nil || rc.Flush() != nil {
				return
			}
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Version <= sent {
				continue
			}
			sent = update.Version

			board, err = render(that.tpl.board, newBoardData(&update, ""))
			if err != nil {
				log.Error("failed to render board", "error", err)
				return
			}

			if !send("board", board) {
				return
			}
		}
	}
}

func writeEvent(w io.Writer, event string, data []byte) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "event: %s\n", event)
	for _, line := range bytes.Split(data, []byte("\n")) {
		fmt.Fprintf(&buf, "data: %s\n", line)
	}
	buf.WriteString("\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}
