package schedule

import (
	"sort"
	"time"
)

// Manual is a virtual-time Scheduler. Callbacks fire synchronously inside
// Advance, in deadline order.
type Manual struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	due       time.Duration
	interval  time.Duration
	seq       int
	fn        func()
	cancelled bool
}

func (t *manualTimer) Cancel() {
	t.cancelled = true
}

// NewManual returns a Manual scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// After implements Scheduler.
func (m *Manual) After(d time.Duration, fn func()) Handle {
	return m.add(d, 0, fn)
}

// Every implements Scheduler.
func (m *Manual) Every(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		interval = time.Nanosecond
	}
	return m.add(interval, interval, fn)
}

// Pending returns the number of live timers.
func (m *Manual) Pending() int {
	count := 0
	for _, t := range m.timers {
		if !t.cancelled {
			count++
		}
	}
	return count
}

// Advance moves virtual time forward by d, firing every callback that
// falls due. Callbacks scheduled while advancing fire too if they are due.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.due
		if next.interval > 0 {
			next.due += next.interval
		} else {
			next.cancelled = true
		}
		next.fn()
	}
	m.now = target
	m.compact()
}

func (m *Manual) add(d, interval time.Duration, fn func()) *manualTimer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{due: m.now + d, interval: interval, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

func (m *Manual) nextDue(limit time.Duration) *manualTimer {
	var live []*manualTimer
	for _, t := range m.timers {
		if !t.cancelled && t.due <= limit {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].due == live[j].due {
			return live[i].seq < live[j].seq
		}
		return live[i].due < live[j].due
	})
	return live[0]
}

func (m *Manual) compact() {
	kept := m.timers[:0]
	for _, t := range m.timers {
		if !t.cancelled {
			kept = append(kept, t)
		}
	}
	m.timers = kept
}
