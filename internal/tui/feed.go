package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todolist/internal/todolist"
)

// stateMsg carries a view snapshot into Update.
type stateMsg todolist.State

// feed hands view snapshots to the Bubble Tea loop. Writers never block:
// snapshots published while the loop is busy collapse into the latest one.
type feed struct {
	mu     sync.Mutex
	latest todolist.State
	ready  chan struct{}
}

func newFeed() *feed {
	return &feed{ready: make(chan struct{}, 1)}
}

// publish is the view's change listener. The view notifies outside its
// lock, so snapshots can arrive out of order; older revisions are ignored.
func (f *feed) publish(s todolist.State) {
	f.mu.Lock()
	if s.Rev <= f.latest.Rev {
		f.mu.Unlock()
		return
	}
	f.latest = s
	f.mu.Unlock()

	select {
	case f.ready <- struct{}{}:
	default:
	}
}

// next waits for the next snapshot. It returns nil once ctx is done.
func (f *feed) next(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-f.ready:
		case <-ctx.Done():
			return nil
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		return stateMsg(f.latest)
	}
}
