package rest

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const gameCookie = "game_id"

type handlers struct {
	logger  *slog.Logger
	manager gameManager
	tpl     *templates
}

func (that *handlers) index(w http.ResponseWriter, r *http.Request) {
	var data indexData
	if c, err := r.Cookie(gameCookie); err == nil && c.Value != "" {
		if _, err = that.manager.GetGame(r.Context(), c.Value); err == nil {
			data.ResumeID = c.Value
		}
	}

	that.writeHTML(w, http.StatusOK, that.tpl.index, data)
}

func (that *handlers) create(w http.ResponseWriter, r *http.Request) {
	session, err := that.manager.NewGame(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	setGameCookie(w, session.ID)

	if wantsJSON(r) {
		writeJSON(w, http.StatusCreated, session.View())
		return
	}

	http.Redirect(w, r, "/game/"+session.ID, http.StatusSeeOther)
}

func (that *handlers) view(w http.ResponseWriter, r *http.Request) {
	session, err := that.manager.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	setGameCookie(w, session.ID)

	board, err := render(that.tpl.board, newBoardData(session, ""))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	//nolint: gosec // fragment rendered by html/template
	that.writeHTML(w, http.StatusOK, that.tpl.game, pageData{ID: session.ID, BoardHTML: template.HTML(board)})
}

func (that *handlers) move(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cell, err := strconv.Atoi(r.FormValue("cell"))
	if err != nil {
		http.Error(w, "cell must be a number between 0 and 8", http.StatusBadRequest)
		return
	}

	session, err := that.manager.MakeMove(r.Context(), id, cell)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeSession(w, r, session)
}

func (that *handlers) reset(w http.ResponseWriter, r *http.Request) {
	session, err := that.manager.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeSession(w, r, session)
}

func (that *handlers) state(w http.ResponseWriter, r *http.Request) {
	session, err := that.manager.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session.View())
}

// writeSession answers with the JSON view or the board fragment.
func (that *handlers) writeSession(w http.ResponseWriter, r *http.Request, session *entity.Session) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, session.View())
		return
	}

	that.writeHTML(w, http.StatusOK, that.tpl.board, newBoardData(session, ""))
}

func (that *handlers) writeHTML(w http.ResponseWriter, status int, t *template.Template, data any) {
	body, err := render(t, data)
	if err != nil {
		that.logger.Error("failed to render page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		http.Error(w, "game not found", http.StatusNotFound)
	case errors.Is(err, apperror.ErrInvalidIndex):
		http.Error(w, apperror.ErrInvalidIndex.Error(), http.StatusBadRequest)
	default:
		that.logger.Error("request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func setGameCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     gameCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
