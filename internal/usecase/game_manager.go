package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-solo/internal/trigger"
)

const (
	computerMoveTimeout     = 5 * time.Second
	maxComputerMoveAttempts = 3
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type Option func(*GameManager)

// WithPicker replaces the random choice of the computer's cell.
func WithPicker(picker tictactoe.IndexPicker) Option {
	return func(m *GameManager) {
		m.picker = picker
	}
}

// WithComputerMoveDelay sets how long the computer waits before playing.
func WithComputerMoveDelay(delay time.Duration) Option {
	return func(m *GameManager) {
		m.delay = delay
	}
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *GameManager) {
		m.metrics = metrics
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *GameManager) {
		m.now = now
	}
}

// GameManager is the single dispatch point for all game transitions. It
// persists every accepted state, keeps one computer move trigger per game and
// fans updates out to subscribers.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	picker   tictactoe.IndexPicker
	metrics  *metrics.Metrics
	delay    time.Duration
	now      func() time.Time

	mu       sync.Mutex
	triggers map[string]*trigger.Trigger
	subs     map[string]map[*subscriber]struct{}
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, opts ...Option) *GameManager {
	manager := &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
		picker:   tictactoe.NewRandomPicker(),
		metrics:  metrics.NewNop(),
		delay:    trigger.DefaultDelay,
		now:      time.Now,

		triggers: make(map[string]*trigger.Trigger),
		subs:     make(map[string]map[*subscriber]struct{}),
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

// NewGame creates a session with an empty board.
func (that *GameManager) NewGame(ctx context.Context) (*entity.Session, error) {
	session := entity.NewSession(uuid.NewString(), that.now())

	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.gameRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.metrics.GamesStarted.Inc()
	that.logger.Debug("game created", "gameID", session.ID)

	return session, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return session, nil
}

// MakeMove plays the human's mark. Occupied cells and finished games leave
// the session unchanged.
func (that *GameManager) MakeMove(ctx context.Context, id string, cell int) (*entity.Session, error) {
	return that.dispatch(ctx, id, tictactoe.MakeMove{Index: cell})
}

// Reset starts the game over and drops a pending computer move.
func (that *GameManager) Reset(ctx context.Context, id string) (*entity.Session, error) {
	return that.dispatch(ctx, id, tictactoe.ResetGame{})
}

// EndGame forgets the session, its trigger and its subscribers.
func (that *GameManager) EndGame(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.dropTriggerLocked(id)

	for sub := range that.subs[id] {
		sub.close()
	}
	delete(that.subs, id)

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

// Close cancels every pending computer move.
func (that *GameManager) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for id, trg := range that.triggers {
		trg.Cancel()
		delete(that.triggers, id)
	}
}

func (that *GameManager) dispatch(ctx context.Context, id string, action tictactoe.Action) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return that.applyLocked(ctx, session, action)
}

// applyLocked runs the reducer and, when the state changed, persists it,
// re-arms or cancels the computer trigger and notifies subscribers.
func (that *GameManager) applyLocked(ctx context.Context, session *entity.Session, action tictactoe.Action) (*entity.Session, error) {
	log := that.logger.With("gameID", session.ID, "action", action.Name())

	previous := session.Game

	next, err := tictactoe.Reduce(previous, action, that.picker)
	if err != nil {
		return session, fmt.Errorf("failed to %s: %w", action.Name(), err)
	}

	// MakeMove always comes from the human, who only ever plays X.
	if _, isMove := action.(tictactoe.MakeMove); isMove && !previous.XIsNext {
		log.Debug("move while the computer is due ignored")
		return session, nil
	}

	_, isReset := action.(tictactoe.ResetGame)
	if next == previous && !isReset {
		log.Debug("action ignored")
		return session, nil
	}

	session.Game = next
	session.Version++
	session.UpdatedAt = that.now()

	if err = that.gameRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.record(previous, next, action)
	that.syncTriggerLocked(session)
	that.publishLocked(session)

	log.Debug("action applied", "version", session.Version, "status", next.Status)

	return session, nil
}

func (that *GameManager) record(previous, next entity.Game, action tictactoe.Action) {
	switch action.(type) {
	case tictactoe.ResetGame:
		that.metrics.GamesStarted.Inc()
		return
	case tictactoe.MakeMove:
		that.metrics.Moves.WithLabelValues(previous.NextMark().String()).Inc()
	case tictactoe.ComputerMove:
		that.metrics.Moves.WithLabelValues(entity.ComputerMark.String()).Inc()
	}

	if next.IsFinished() && !previous.IsFinished() {
		that.metrics.GamesFinished.WithLabelValues(next.Outcome()).Inc()
		that.logger.Info("game finished", "outcome", next.Outcome())
	}
}

// syncTriggerLocked arms the computer move when it is due and otherwise drops
// the game's trigger, so only games waiting for the computer keep one.
func (that *GameManager) syncTriggerLocked(session *entity.Session) {
	if session.Game.IsComputerTurn() {
		that.scheduleLocked(session.ID, session.Version, 0)
		return
	}

	that.dropTriggerLocked(session.ID)
}

func (that *GameManager) scheduleLocked(id string, version uint64, attempt int) {
	trg, ok := that.triggers[id]
	if !ok {
		trg = trigger.New(that.delay)
		that.triggers[id] = trg
	}

	trg.Schedule(version, func(version uint64) {
		that.fireComputerMove(id, version, attempt)
	})
	that.metrics.ComputerTrigger.WithLabelValues(metrics.TriggerScheduled).Inc()
}

func (that *GameManager) dropTriggerLocked(id string) {
	trg, ok := that.triggers[id]
	if !ok {
		return
	}

	if trg.Cancel() {
		that.metrics.ComputerTrigger.WithLabelValues(metrics.TriggerCancelled).Inc()
	}
	delete(that.triggers, id)
}

// fireComputerMove plays O unless the session moved on since the trigger
// was armed for version. A move that could not be stored is retried up to
// maxComputerMoveAttempts times.
func (that *GameManager) fireComputerMove(id string, version uint64, attempt int) {
	log := that.logger.With("method", "fireComputerMove", "gameID", id)

	ctx, cancel := context.WithTimeout(context.Background(), computerMoveTimeout)
	defer cancel()

	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		that.metrics.ComputerTrigger.WithLabelValues(metrics.TriggerStale).Inc()

		if errors.Is(err, apperror.ErrGameNotFound) {
			that.dropTriggerLocked(id)
			return
		}

		log.Error("failed to load game for computer move", "error", err)
		that.retryLocked(log, id, version, attempt)

		return
	}

	if session.Version != version || !session.Game.IsComputerTurn() {
		log.Debug("stale computer move dropped", "scheduled", version, "current", session.Version)
		that.metrics.ComputerTrigger.WithLabelValues(metrics.TriggerStale).Inc()

		return
	}

	that.metrics.ComputerTrigger.WithLabelValues(metrics.TriggerFired).Inc()

	if _, err = that.applyLocked(ctx, session, tictactoe.ComputerMove{}); err != nil {
		log.Error("computer move failed", "error", err, "attempt", attempt+1)
		that.retryLocked(log, id, version, attempt)
	}
}

func (that *GameManager) retryLocked(log *slog.Logger, id string, version uint64, attempt int) {
	if attempt+1 >= maxComputerMoveAttempts {
		log.Error("giving up on computer move", "version", version)
		that.dropTriggerLocked(id)

		return
	}

	that.scheduleLocked(id, version, attempt+1)
}
