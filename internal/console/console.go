package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const help = "Enter a cell 1-9, r to restart, q to quit."

type gameManager interface {
	NewGame(ctx context.Context) (*entity.Session, error)
	MakeMove(ctx context.Context, id string, cell int) (*entity.Session, error)
	Reset(ctx context.Context, id string) (*entity.Session, error)
	Subscribe(ctx context.Context, id string) (<-chan entity.Session, func(), error)
	EndGame(ctx context.Context, id string) error
}

// Console plays one game in a terminal.
type Console struct {
	logger  *slog.Logger
	manager gameManager
	in      io.Reader
	out     io.Writer

	version uint64
}

func New(logger *slog.Logger, manager gameManager, in io.Reader, out io.Writer) *Console {
	return &Console{
		logger:  logger.With("component", "console"),
		manager: manager,
		in:      in,
		out:     out,
	}
}

// Run blocks until the player quits, the input ends or ctx is done.
func (that *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session, err := that.manager.NewGame(ctx)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	defer func() {
		if endErr := that.manager.EndGame(context.Background(), session.ID); endErr != nil {
			that.logger.Warn("failed to end game", "gameID", session.ID, "error", endErr)
		}
	}()

	updates, unsubscribe, err := that.manager.Subscribe(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("failed to follow game: %w", err)
	}
	defer unsubscribe()

	fmt.Fprintln(that.out, "You are X. "+help)
	that.render(session)

	lines := readLines(ctx, that.in)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			that.render(&update)
		case line, ok := <-lines:
			if !ok {
				return nil
			}

			quit, cmdErr := that.handle(ctx, session.ID, line)
			if cmdErr != nil {
				return cmdErr
			}
			if quit {
				fmt.Fprintln(that.out, "Bye!")
				return nil
			}
		}
	}
}

func (that *Console) handle(ctx context.Context, id, line string) (bool, error) {
	switch cmd := strings.ToLower(strings.TrimSpace(line)); cmd {
	case "":
		return false, nil
	case "q", "quit":
		return true, nil
	case "r", "reset":
		session, err := that.manager.Reset(ctx, id)
		if err != nil {
			return false, fmt.Errorf("failed to reset game: %w", err)
		}
		that.render(session)

		return false, nil
	default:
		cell, err := strconv.Atoi(cmd)
		if err != nil || cell < 1 || cell > entity.BoardSize {
			fmt.Fprintln(that.out, help)
			return false, nil
		}

		session, err := that.manager.MakeMove(ctx, id, cell-1)
		if err != nil {
			return false, fmt.Errorf("failed to make move: %w", err)
		}

		if session.Version <= that.version {
			that.explainIgnored(session)
			return false, nil
		}
		that.render(session)

		return false, nil
	}
}

func (that *Console) explainIgnored(session *entity.Session) {
	switch {
	case session.Game.IsFinished():
		fmt.Fprintln(that.out, "The game is over. Press r to play again.")
	case !session.Game.XIsNext:
		fmt.Fprintln(that.out, "Wait for the computer.")
	default:
		fmt.Fprintln(that.out, "That cell is taken.")
	}
}

// render prints states newer than the last one shown.
func (that *Console) render(session *entity.Session) {
	if session.Version <= that.version {
		return
	}
	that.version = session.Version

	fmt.Fprint(that.out, FormatBoard(session.Game.Board))
	fmt.Fprintln(that.out, entity.OutcomeMessage(session.Game.Outcome()))
}

// FormatBoard draws the board, numbering empty cells 1-9.
func FormatBoard(board entity.Board) string {
	var sb strings.Builder

	for row := range 3 {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}

		for col := range 3 {
			i := row*3 + col
			mark := board[i].String()
			if mark == "" {
				mark = strconv.Itoa(i + 1)
			}

			if col > 0 {
				sb.WriteString("|")
			}
			sb.WriteString(" " + mark + " ")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	return lines
}
