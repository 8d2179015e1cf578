package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const subscriberBuffer = 4

type subscriber struct {
	ch        chan entity.Session
	done      chan struct{}
	closeOnce sync.Once
}

func newSubscriber() *subscriber {
	return &subscriber{
		ch:   make(chan entity.Session, subscriberBuffer),
		done: make(chan struct{}),
	}
}

func (that *subscriber) close() {
	that.closeOnce.Do(func() {
		close(that.ch)
		close(that.done)
	})
}

// Subscribe streams every accepted state of the game until ctx is done or
// the returned function is called. A subscriber that falls behind is
// dropped and its channel closed.
func (that *GameManager) Subscribe(ctx context.Context, id string) (<-chan entity.Session, func(), error) {
	if _, err := that.gameRepo.GetByID(ctx, id); err != nil {
		return nil, nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	that.mu.Lock()
	set := that.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		that.subs[id] = set
	}
	sub := newSubscriber()
	set[sub] = struct{}{}
	that.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			that.mu.Lock()
			that.removeSubscriberLocked(id, sub)
			that.mu.Unlock()
			sub.close()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-sub.done:
		}
	}()

	return sub.ch, unsubscribe, nil
}

func (that *GameManager) publishLocked(session *entity.Session) {
	for sub := range that.subs[session.ID] {
		select {
		case sub.ch <- *session:
		default:
			that.logger.Warn("dropping slow subscriber", "gameID", session.ID)
			that.removeSubscriberLocked(session.ID, sub)
			sub.close()
		}
	}
}

func (that *GameManager) removeSubscriberLocked(id string, sub *subscriber) {
	set, ok := that.subs[id]
	if !ok {
		return
	}

	delete(set, sub)
	if len(set) == 0 {
		delete(that.subs, id)
	}
}
