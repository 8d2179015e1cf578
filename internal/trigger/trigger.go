package trigger

import (
	"sync"
	"time"
)

const DefaultDelay = 500 * time.Millisecond

// Trigger runs at most one delayed callback at a time. Scheduling again or
// cancelling supersedes the pending callback, and a superseded callback never
// runs even if its timer already fired.
type Trigger struct {
	delay time.Duration

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	version    uint64
}

func New(delay time.Duration) *Trigger {
	return &Trigger{delay: delay}
}

// Schedule arms the trigger for the state identified by version.
func (that *Trigger) Schedule(version uint64, fire func(version uint64)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.stopLocked()
	that.generation++
	that.version = version

	generation := that.generation
	that.timer = time.AfterFunc(that.delay, func() {
		that.mu.Lock()
		if that.generation != generation || that.timer == nil {
			that.mu.Unlock()
			return
		}
		that.timer = nil
		that.mu.Unlock()

		fire(version)
	})
}

// Cancel drops the pending callback. It reports whether one was pending.
func (that *Trigger) Cancel() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	pending := that.timer != nil
	that.stopLocked()
	that.generation++

	return pending
}

// Pending returns the version the trigger is armed for.
func (that *Trigger) Pending() (uint64, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.timer == nil {
		return 0, false
	}
	return that.version, true
}

func (that *Trigger) stopLocked() {
	if that.timer != nil {
		that.timer.Stop()
		that.timer = nil
	}
}
