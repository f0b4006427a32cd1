package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// callbackMsg carries a timer callback into the event loop.
type callbackMsg func()

// Loop forwards scheduler callbacks into the Bubble Tea event loop so all
// quiz state changes happen on the loop goroutine.
type Loop struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// Attach connects the loop to a running program, usually program.Send.
func (l *Loop) Attach(send func(tea.Msg)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.send = send
}

// Dispatch implements schedule.Dispatcher. Callbacks fired before Attach
// are dropped.
func (l *Loop) Dispatch(fn func()) {
	l.mu.Lock()
	send := l.send
	l.mu.Unlock()
	if send == nil {
		return
	}
	send(callbackMsg(fn))
}
