// Package todolist is the to-do list view: an in-memory mirror of the
// remote collection plus the four operations that read and mutate it.
//
// Every mutation writes to the remote collection and then re-fetches the
// whole list; the local list is never patched in place.
package todolist

import (
	"slices"

	"github.com/idilsaglam/todolist/internal/model"
)

// State is what the rendering layer reads. Rev increases with every
// write so renderers can drop snapshots older than one they already hold.
type State struct {
	Items   []model.Item
	Input   string
	Loading bool
	Rev     uint64
}

// clone deep-copies s so listeners may keep it.
func (s State) clone() State {
	s.Items = slices.Clone(s.Items)
	return s
}

// Find returns the item with id from the current snapshot.
func (s State) Find(id int64) (model.Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}
