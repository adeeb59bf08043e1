package todolist

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/remote"
)

// View holds the list state and runs operations against a collection.
// It is safe for concurrent use; operations started from different user
// actions may overlap, and the refresh that completes last wins.
type View struct {
	coll     remote.Collection
	logger   *slog.Logger
	onChange func(State)

	mu    sync.Mutex
	state State
}

// Option configures a View.
type Option func(*View)

// WithLogger sets the logger failures are written to.
func WithLogger(l *slog.Logger) Option {
	return func(v *View) { v.logger = l }
}

// WithOnChange registers fn to receive a snapshot after every state
// write. fn is called without the view lock held, from whichever
// goroutine performed the write.
func WithOnChange(fn func(State)) Option {
	return func(v *View) { v.onChange = fn }
}

// New returns a View over coll with an empty list.
func New(coll remote.Collection, opts ...Option) *View {
	v := &View{
		coll:   coll,
		logger: slog.Default(),
		state:  State{Items: []model.Item{}},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.clone()
}

// update is the only place state is written.
func (v *View) update(fn func(*State)) {
	v.mu.Lock()
	fn(&v.state)
	v.state.Rev++
	snap := v.state.clone()
	v.mu.Unlock()

	if v.onChange != nil {
		v.onChange(snap)
	}
}

// SetInput records the pending text of the add field.
func (v *View) SetInput(s string) {
	v.update(func(st *State) { st.Input = s })
}

// Refresh replaces the list with the collection ordered by id. On failure
// the previous list is kept.
func (v *View) Refresh(ctx context.Context) error {
	v.update(func(st *State) { st.Loading = true })

	items, err := v.coll.SelectAll(ctx)
	if err != nil {
		v.logger.ErrorContext(ctx, "fetch failed",
			slog.String("operation", "Refresh"),
			slog.Any("error", err),
		)
		v.update(func(st *State) { st.Loading = false })
		return err
	}
	if items == nil {
		items = []model.Item{}
	}
	v.update(func(st *State) {
		st.Items = items
		st.Loading = false
	})
	return nil
}

// Create inserts the pending input, as typed, as a new, not completed
// item. Blank input is ignored without a request. On success the input is cleared
// and the list refreshed; on failure the input is kept.
func (v *View) Create(ctx context.Context) error {
	name := v.Snapshot().Input
	if strings.TrimSpace(name) == "" {
		return nil
	}

	if err := v.coll.Insert(ctx, model.NewItem{Name: name, IsCompleted: false}); err != nil {
		v.logger.ErrorContext(ctx, "insert failed",
			slog.String("operation", "Create"),
			slog.String("name", name),
			slog.Any("error", err),
		)
		return err
	}

	v.update(func(st *State) { st.Input = "" })
	return v.Refresh(ctx)
}

// Toggle writes the negation of isCompleted to the item with id, then
// refreshes. isCompleted is the caller's view of the item; it is not
// re-read from the collection first.
func (v *View) Toggle(ctx context.Context, id int64, isCompleted bool) error {
	if err := v.coll.Update(ctx, id, model.SetCompleted(!isCompleted)); err != nil {
		v.logger.ErrorContext(ctx, "update failed",
			slog.String("operation", "Toggle"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return err
	}
	return v.Refresh(ctx)
}

// Delete removes the item with id, then refreshes.
func (v *View) Delete(ctx context.Context, id int64) error {
	if err := v.coll.Delete(ctx, id); err != nil {
		v.logger.ErrorContext(ctx, "delete failed",
			slog.String("operation", "Delete"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return err
	}
	return v.Refresh(ctx)
}
