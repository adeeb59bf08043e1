package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/idilsaglam/todolist/internal/model"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	model.Item
}

func (i listItem) Title() string       { return i.Name }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Name }

// toggleLabel is the caption of the row's toggle action.
func toggleLabel(completed bool) string {
	if completed {
		return "Undo"
	}
	return "Complete"
}

func toListItems(items []model.Item) []list.Item {
	out := make([]list.Item, 0, len(items))
	for _, it := range items {
		out = append(out, listItem{it})
	}
	return out
}

// Custom delegate: one line per row with its two actions on the right.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}

	box := mutedStyle.Render(boxUnchecked)
	if it.IsCompleted {
		box = successStyle.Render(boxChecked)
	}

	actions := mutedStyle.Render(fmt.Sprintf("%s · Delete", toggleLabel(it.IsCompleted)))
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
		actions = actionStyle.Render("[space] "+toggleLabel(it.IsCompleted)) + " " + actionStyle.Render("[d] Delete")
	}

	// The row must fit on one line; the name gives way first.
	name := it.Name
	if w := m.Width(); w > 0 {
		room := w - ansi.StringWidth(prefix) - ansi.StringWidth(box) - 1 - 2 - ansi.StringWidth(actions)
		if room < 1 {
			room = 1
		}
		name = ansi.Truncate(name, room, "…")
	}
	if it.IsCompleted {
		name = doneStyle.Render(name)
	}

	row := fmt.Sprintf("%s%s %s  %s", prefix, box, name, actions)
	if w := m.Width(); w > 0 {
		row = ansi.Truncate(row, w, "")
	}
	fmt.Fprint(w, row)
}
