package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (that *syncBuffer) Write(p []byte) (int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.buf.Write(p)
}

func (that *syncBuffer) String() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.buf.String()
}

func TestFormatBoard(t *testing.T) {
	board := entity.Board{entity.X, entity.Empty, entity.O, entity.Empty, entity.X}

	got := FormatBoard(board)

	want := " X | 2 | O \n" +
		"---+---+---\n" +
		" 4 | X | 6 \n" +
		"---+---+---\n" +
		" 7 | 8 | 9 \n"
	assert.Equal(t, want, got)
}

func TestConsole_Run(t *testing.T) {
	// Given: a console wired to a manager whose computer takes the first free cell
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, repository.NewMemoryGameRepository(time.Hour),
		usecase.WithPicker(tictactoe.PickerFunc(func(int) int { return 0 })),
		usecase.WithComputerMoveDelay(10*time.Millisecond),
	)
	t.Cleanup(manager.Close)

	in, input := io.Pipe()
	out := &syncBuffer{}

	done := make(chan error, 1)
	go func() {
		done <- New(logger, manager, in, out).Run(context.Background())
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Your move!")
	}, 2*time.Second, 5*time.Millisecond)

	// When: the player takes the centre
	_, err := io.WriteString(input, "5\n")
	require.NoError(t, err)

	// Then: the computer answers in the top left corner
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), " O | 2 | 3 \n")
	}, 2*time.Second, 5*time.Millisecond)

	// When: the player picks a taken cell and then garbage
	_, err = io.WriteString(input, "1\nhello\n")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		s := out.String()
		return strings.Contains(s, "That cell is taken.") && strings.Contains(s, help)
	}, 2*time.Second, 5*time.Millisecond)

	// When: the player quits
	_, err = io.WriteString(input, "q\n")
	require.NoError(t, err)

	// Then: Run returns
	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("console did not stop")
	}
	assert.Contains(t, out.String(), "Bye!")
}

func TestConsole_RunEndsWithInput(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, repository.NewMemoryGameRepository(time.Hour))
	t.Cleanup(manager.Close)
	out := &syncBuffer{}

	err := New(logger, manager, strings.NewReader("r\n"), out).Run(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), " 1 | 2 | 3 \n")
}
