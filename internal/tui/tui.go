// Package tui is an interactive Bubble Tea front end over a todo store.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/ui"
)

// listItem adapts model.Todo to bubbles/list.Item
type listItem struct {
	todo model.Todo
}

func (i listItem) Title() string       { return i.todo.Title }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Title }

// itemDelegate renders each todo on a single line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()
	box := t.Muted.Render(t.BoxUnchecked)
	text := it.todo.Title
	if it.todo.Completed {
		box = t.Success.Render(t.BoxChecked)
		text = t.Done.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

type keyMap struct {
	toggle, add, edit, remove, undo, toggleAll, clear, filter key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		remove:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		undo:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo delete")),
		toggleAll: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle all")),
		clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear done")),
		filter:    key.NewBinding(key.WithKeys("f", "tab"), key.WithHelp("f", "next filter")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.toggle, k.add, k.edit, k.remove, k.undo, k.toggleAll, k.clear, k.filter}
}

// Model is the Bubble Tea model. All state lives in the store; the list is a view of it.
type Model struct {
	store *store.Store
	list  list.Model
	keys  keyMap

	ti       textinput.Model // shared by add and edit
	adding   bool
	editing  bool
	editID   int
	inputErr string

	// single-level undo of the last delete
	canUndo   bool
	undoIndex int
	undoTodo  model.Todo
}

// New builds the model over st.
func New(st *store.Store) Model {
	keys := newKeyMap()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{store: st, list: l, keys: keys, ti: ti}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(st *store.Store) error {
	_, err := tea.NewProgram(New(st), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.list.SetSize(size.Width-4, size.Height-6)
		return m, nil
	}
	if m.adding || m.editing {
		return m.updateInput(msg)
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case k.String() == "q" || (k.String() == "esc" && m.list.FilterState() == list.Unfiltered):
		return m, tea.Quit
	case key.Matches(k, m.keys.toggle):
		if t, ok := m.selected(); ok {
			m.store.ToggleTodo(t.ID)
		}
	case key.Matches(k, m.keys.remove):
		if t, ok := m.selected(); ok {
			m.undoIndex = m.position(t.ID)
			if m.store.RemoveTodo(t.ID) {
				m.undoTodo = t
				m.canUndo = true
			}
		}
	case key.Matches(k, m.keys.undo):
		if m.canUndo {
			m.restore()
		}
	case key.Matches(k, m.keys.toggleAll):
		m.store.ToggleAll(m.store.Remaining() != 0)
	case key.Matches(k, m.keys.clear):
		m.store.RemoveCompleted()
	case key.Matches(k, m.keys.filter):
		m.store.SetVisibility(m.store.Visibility().Next())
	case key.Matches(k, m.keys.add):
		m.adding = true
		m.inputErr = ""
		m.ti.SetValue("")
		m.ti.Placeholder = "New item title..."
		cmd := m.ti.Focus()
		return m, cmd
	case key.Matches(k, m.keys.edit):
		t, ok := m.selected()
		if !ok || !m.store.BeginEdit(t.ID) {
			return m, nil
		}
		m.editing = true
		m.editID = t.ID
		m.inputErr = ""
		m.ti.SetValue(t.Title)
		m.ti.CursorEnd()
		m.ti.Placeholder = "Edit item title (empty deletes)..."
		cmd := m.ti.Focus()
		return m, cmd
	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	cmd := m.refresh()
	return m, cmd
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEnter:
			if m.adding {
				if _, err := m.store.AddTodo(m.ti.Value()); err != nil {
					m.inputErr = "Title cannot be empty"
					return m, nil
				}
				m.list.ResetFilter()
			} else {
				m.store.DoneEdit(m.editID, m.ti.Value())
			}
			m.closeInput()
			cmd := m.refresh()
			return m, cmd
		case tea.KeyEsc:
			if m.editing {
				m.store.CancelEdit(m.editID)
			}
			m.closeInput()
			cmd := m.refresh()
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.adding = false
	m.editing = false
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

// position is the index of id in the full list, or the list length.
func (m Model) position(id int) int {
	todos := m.store.Todos()
	for i, t := range todos {
		if t.ID == id {
			return i
		}
	}
	return len(todos)
}

// restore puts the last deleted todo back where it was.
func (m *Model) restore() {
	todos := m.store.Todos()
	i := m.undoIndex
	if i > len(todos) {
		i = len(todos)
	}
	todos = append(todos[:i:i], append([]model.Todo{m.undoTodo}, todos[i:]...)...)
	m.store.SetTodos(todos)
	m.canUndo = false
	m.undoTodo = model.Todo{}
}

func (m Model) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.todo, true
}

// refresh rebuilds the list from the store's filtered view. The returned
// command re-runs an applied fuzzy filter over the new items.
func (m *Model) refresh() tea.Cmd {
	todos := m.store.FilteredTodos()
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, listItem{todo: t})
	}
	idx := m.list.Index()
	cmd := m.list.SetItems(items)
	if idx >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}

	t := ui.Current()
	d, p := model.Stats(m.store.Todos())
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		"Todos",
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), d+p,
	)
	return cmd
}

func (m Model) View() string {
	t := ui.Current()
	content := m.list.View()
	if m.adding || m.editing {
		title := "Add new item"
		if m.editing {
			title = "Edit item"
		}
		if m.inputErr != "" {
			title += " · " + t.Error.Render(m.inputErr)
		}
		bar := lipgloss.NewStyle().
			Border(t.Border).
			BorderForeground(t.BorderColor).
			Padding(0, 1)
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	footer := fmt.Sprintf("%d left · showing %s · %d created",
		m.store.Remaining(), m.store.Visibility(), m.store.TotalCreatedTodos())
	return ui.PanelString(strings.Join([]string{content, t.Muted.Render(footer)}, "\n"))
}
