package rest

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type templates struct {
	index *template.Template
	game  *template.Template
	board *template.Template
}

type cellData struct {
	Index    int
	Mark     string
	Playable bool
}

type boardData struct {
	ID       string
	Version  uint64
	Cells    []cellData
	Message  string
	Finished bool
	Error    string
}

type pageData struct {
	ID        string
	BoardHTML template.HTML
}

type indexData struct {
	ResumeID string
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Parse(baseTemplate))

	index := template.Must(base.Clone())
	template.Must(index.New("content").Parse(indexTemplate))

	game := template.Must(base.Clone())
	template.Must(game.New("content").Parse(gameTemplate))

	board := template.Must(template.New("board").Parse(boardTemplate))

	return &templates{index: index, game: game, board: board}
}

func newBoardData(session *entity.Session, errMsg string) boardData {
	view := session.View()
	humanTurn := view.Outcome == entity.OutcomeHumanTurn

	cells := make([]cellData, entity.BoardSize)
	for i, cell := range session.Game.Board {
		cells[i] = cellData{
			Index:    i,
			Mark:     cell.String(),
			Playable: humanTurn && cell == entity.Empty,
		}
	}

	return boardData{
		ID:       view.ID,
		Version:  view.Version,
		Cells:    cells,
		Message:  view.Message,
		Finished: view.Finished,
		Error:    errMsg,
	}
}

func render(t *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}

	return buf.Bytes(), nil
}

const baseTemplate = `<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-tac-toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>
<style>
.grid{display:grid;grid-template-columns:repeat(3,4rem);gap:.25rem}
.grid button{width:4rem;height:4rem;font-size:2rem}
</style>
</head><body>{{template "content" .}}</body></html>`

const indexTemplate = `<h1>Tic-tac-toe</h1>
<p>You play X. The computer plays O.</p>
<form action="/game" method="post"><button type="submit">New game</button></form>
{{if .ResumeID}}<p><a href="/game/{{.ResumeID}}">Continue your game</a></p>{{end}}`

const gameTemplate = `<h1>Tic-tac-toe</h1>
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div sse-swap="board" hx-target="#board" hx-swap="outerHTML">{{.BoardHTML}}</div>
</div>
<form action="/game" method="post"><button type="submit">New game</button></form>`

const boardTemplate = `<div id="board" data-version="{{.Version}}">
  <p class="status">{{.Message}}</p>
  {{if .Error}}<p class="alert">{{.Error}}</p>{{end}}
  <div class="grid">
  {{range .Cells}}
    <button name="cell" value="{{.Index}}" hx-post="/game/{{$.ID}}/move" hx-target="#board" hx-swap="outerHTML"{{if not .Playable}} disabled{{end}}>{{.Mark}}</button>
  {{end}}
  </div>
  <button class="reset" hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML">{{if .Finished}}Play again{{else}}Reset{{end}}</button>
</div>`
