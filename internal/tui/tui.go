// Package tui renders the to-do view as a Bubble Tea program: a list of
// items with Complete/Undo and Delete actions, an add field, and a
// loading line while the list is being fetched.
package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/remote"
	"github.com/idilsaglam/todolist/internal/todolist"
)

type modelTUI struct {
	ctx  context.Context
	view *todolist.View
	feed *feed

	list  list.Model
	ti    textinput.Model
	state todolist.State

	adding bool // true while the add field has focus
	width  int
	height int
}

// Run starts the program over coll and blocks until the user quits.
func Run(ctx context.Context, coll remote.Collection, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	f := newFeed()
	view := todolist.New(coll,
		todolist.WithLogger(logger),
		todolist.WithOnChange(f.publish),
	)

	p := tea.NewProgram(newModel(ctx, view, f), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		// Cancelled from outside (signal); not a failure.
		return nil
	}
	return err
}

func newModel(ctx context.Context, view *todolist.View, f *feed) modelTUI {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = "To Do List"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")

	// Extend help with our bindings
	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	toggleBind := key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "complete/undo"))
	deleteBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	refreshBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	extra := func() []key.Binding { return []key.Binding{addBind, toggleBind, deleteBind, refreshBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Add a new task"
	ti.CharLimit = 200

	return modelTUI{
		ctx:    ctx,
		view:   view,
		feed:   f,
		list:   l,
		ti:     ti,
		state:  view.Snapshot(),
		width:  80,
		height: 24,
	}
}

// run executes op off the event loop. Failures are already logged by the
// view and leave the UI as it was, so no message is returned.
func (m modelTUI) run(op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		_ = op(m.ctx)
		return nil
	}
}

func (m modelTUI) selected() (model.Item, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	return li.Item, ok
}

// Init loads the list once, like a page does on mount.
func (m modelTUI) Init() tea.Cmd {
	return tea.Batch(m.feed.next(m.ctx), m.run(m.view.Refresh))
}

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		return m.applyState(todolist.State(msg))
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(m.listSize())
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.adding {
			return m.updateAdding(msg)
		}
		if m.list.FilterState() != list.Filtering {
			if mm, cmd, handled := m.handleKey(msg); handled {
				return mm, cmd
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) applyState(st todolist.State) (tea.Model, tea.Cmd) {
	if st.Rev < m.state.Rev {
		// Overtaken by a local input write; the feed already holds a newer one.
		return m, m.feed.next(m.ctx)
	}
	m.state = st
	if m.ti.Value() != st.Input {
		m.ti.SetValue(st.Input)
		m.ti.CursorEnd()
	}
	done, pending := model.Stats(st.Items)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		"To Do List",
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), len(st.Items),
	)
	cmd := m.list.SetItems(toListItems(st.Items))
	return m, tea.Batch(cmd, m.feed.next(m.ctx))
}

func (m modelTUI) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.run(m.view.Create)
	case "esc":
		m.adding = false
		m.ti.Blur()
		m.list.SetSize(m.listSize())
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	if v := m.ti.Value(); v != m.state.Input {
		m.view.SetInput(v)
		m.state.Input = v
		m.state.Rev = m.view.Snapshot().Rev
	}
	return m, cmd
}

func (m modelTUI) handleKey(msg tea.KeyMsg) (modelTUI, tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		if m.list.FilterState() == list.FilterApplied {
			// Let the list clear its filter.
			return m, nil, false
		}
		return m, tea.Quit, true
	case "q":
		return m, tea.Quit, true
	case "a":
		m.adding = true
		m.list.SetSize(m.listSize())
		cmd := m.ti.Focus()
		return m, cmd, true
	case "r":
		return m, m.run(m.view.Refresh), true
	case " ", "enter":
		it, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		return m, m.run(func(ctx context.Context) error {
			return m.view.Toggle(ctx, it.ID, it.IsCompleted)
		}), true
	case "d":
		it, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		return m, m.run(func(ctx context.Context) error {
			return m.view.Delete(ctx, it.ID)
		}), true
	}
	return m, nil, false
}

func (m modelTUI) listSize() (int, int) {
	// panel border+padding, loading line, add box
	w := m.width - 4
	h := m.height - 7
	if w < 10 {
		w = 10
	}
	if h < 3 {
		h = 3
	}
	return w, h
}

func (m modelTUI) View() string {
	content := m.list.View()
	if m.state.Loading {
		content = loadingStyle.Render("Loading...") + "\n" + content
	} else {
		content = "\n" + content
	}

	title := "Add"
	if m.adding {
		title = accentStyle.Render("Add") + mutedStyle.Render("  enter to add · esc to leave")
	} else {
		title += mutedStyle.Render("  press a to type")
	}
	bar := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	content = content + "\n" + bar.Render(title+"\n"+m.ti.View())

	return panelStyle.Render(content)
}
