package model

// Item is one row of the remote TodoList table.
// ID is assigned by the remote store and never changes.
type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	IsCompleted bool   `json:"isCompleted"`
}

// NewItem is the insert payload. The store assigns the id.
type NewItem struct {
	Name        string `json:"name"`
	IsCompleted bool   `json:"isCompleted"`
}

// Patch is a partial record for updates; nil fields are left untouched.
// Only the completion flag is ever changed after creation.
type Patch struct {
	IsCompleted *bool `json:"isCompleted,omitempty"`
}

// SetCompleted returns a Patch that sets the completion flag to v.
func SetCompleted(v bool) Patch {
	return Patch{IsCompleted: &v}
}

// Apply writes the non-nil fields of p onto it.
func (p Patch) Apply(it *Item) {
	if p.IsCompleted != nil {
		it.IsCompleted = *p.IsCompleted
	}
}

// Stats counts completed and pending items.
func Stats(items []Item) (done, pending int) {
	for _, it := range items {
		if it.IsCompleted {
			done++
		} else {
			pending++
		}
	}
	return
}
