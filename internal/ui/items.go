package ui

import (
	"fmt"

	"github.com/idilsaglam/todolist/internal/model"
)

const maxNameWidth = 80

// ListLines renders the header, progress bar and rows for a list panel.
func ListLines(items []model.Item, group bool) []string {
	t := Current()
	d, p := model.Stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		C(t.Title, "To Do List"),
		C(t.Success, t.SymDone), d,
		C(t.Pending, t.SymUnchecked), p,
		C(t.Accent, "Total"), len(items),
	)

	lines := []string{header, C(t.Muted, ProgressBar(d, d+p, 28)), ""}
	if group {
		lines = append(lines, GroupLines(items)...)
	} else {
		lines = append(lines, FlatLines(items)...)
	}
	return lines
}

// FlatLines renders one row per item: id, checkbox, name. Completed names
// are struck through when colour is on.
func FlatLines(items []model.Item) []string {
	t := Current()
	if len(items) == 0 {
		return []string{C(t.Muted, "no items")}
	}
	width := 1
	for _, it := range items {
		if w := len(fmt.Sprint(it.ID)); w > width {
			width = w
		}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		idx := fmt.Sprintf("%*d.", width, it.ID)
		box, color := t.BoxUnchecked, t.Muted
		name := truncate(it.Name, maxNameWidth)
		if it.IsCompleted {
			box, color = t.BoxChecked, t.Success
			name = C(t.Done, name)
		}
		out = append(out, fmt.Sprintf("%s %s %s", C(dim, idx), C(color, box), name))
	}
	return out
}

// GroupLines splits items into Pending and Done sections.
func GroupLines(items []model.Item) []string {
	t := Current()
	var pend, done []model.Item
	for _, it := range items {
		if it.IsCompleted {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	section := func(title string, its []model.Item) []string {
		lines := []string{C(t.Accent, title)}
		if len(its) == 0 {
			return append(lines, C(t.Muted, "(none)"))
		}
		return append(lines, FlatLines(its)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
