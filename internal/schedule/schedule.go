// Package schedule provides cancelable one-shot and repeating callbacks.
package schedule

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// Handle cancels a scheduled callback. Cancel is idempotent.
type Handle interface {
	Cancel()
}

// Scheduler runs callbacks after a delay or at a fixed interval.
type Scheduler interface {
	After(d time.Duration, fn func()) Handle
	Every(interval time.Duration, fn func()) Handle
}

// Dispatcher hands a fired callback to the loop that owns the state it
// mutates. The callback must run there, not on the timer goroutine.
type Dispatcher func(fn func())

// Clock schedules callbacks on a clockwork clock and delivers them through a
// Dispatcher.
type Clock struct {
	clock    clockwork.Clock
	dispatch Dispatcher
}

// NewClock returns a Clock scheduler. A nil clock uses the real clock.
func NewClock(clock clockwork.Clock, dispatch Dispatcher) *Clock {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Clock{clock: clock, dispatch: dispatch}
}

type clockHandle struct {
	cancelled atomic.Bool
	once      sync.Once
	stop      func()
}

func (h *clockHandle) Cancel() {
	h.cancelled.Store(true)
	h.once.Do(h.stop)
}

// After implements Scheduler.
func (c *Clock) After(d time.Duration, fn func()) Handle {
	h := &clockHandle{}
	timer := c.clock.AfterFunc(d, func() {
		c.deliver(h, fn)
	})
	h.stop = func() {
		timer.Stop()
	}
	return h
}

// Every implements Scheduler.
func (c *Clock) Every(interval time.Duration, fn func()) Handle {
	h := &clockHandle{}
	ticker := c.clock.NewTicker(interval)
	done := make(chan struct{})
	h.stop = func() {
		ticker.Stop()
		close(done)
	}
	go func() {
		for {
			select {
			case <-ticker.Chan():
				c.deliver(h, fn)
			case <-done:
				return
			}
		}
	}()
	return h
}

func (c *Clock) deliver(h *clockHandle, fn func()) {
	if h.cancelled.Load() {
		return
	}
	c.dispatch(func() {
		if h.cancelled.Load() {
			return
		}
		fn()
	})
}
