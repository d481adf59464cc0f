package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/store/memstore"
)

func newModel(t *testing.T, titles ...string) (Model, *store.Store) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	st := store.New(memstore.New(), store.WithLogger(logrus.NewEntry(logger)))
	for _, title := range titles {
		_, err := st.AddTodo(title)
		require.NoError(t, err)
	}
	m := New(st)
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, st
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

// drive sends msg and feeds the resulting commands back into the model.
func drive(m Model, msg tea.Msg) Model {
	next, cmd := m.Update(msg)
	m = next.(Model)
	pending := []tea.Cmd{cmd}
	for len(pending) > 0 {
		c := pending[0]
		pending = pending[1:]
		if c == nil {
			continue
		}
		switch out := c().(type) {
		case nil:
		case tea.BatchMsg:
			pending = append(pending, out...)
		default:
			next, cmd = m.Update(out)
			m = next.(Model)
			pending = append(pending, cmd)
		}
	}
	return m
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func allTitles(st *store.Store) []string {
	var out []string
	for _, t := range st.Todos() {
		out = append(out, t.Title)
	}
	return out
}

func TestToggleSelected(t *testing.T) {
	m, st := newModel(t, "milk", "eggs")

	m = send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})

	first, _ := st.Find(1)
	assert.True(t, first.Completed)
	assert.Equal(t, 1, st.Remaining())
	_ = m
}

func TestToggleUnderFuzzyFilterKeepsMatches(t *testing.T) {
	m, st := newModel(t, "milk", "eggs")
	m.list.SetFilterText("milk")
	require.Len(t, m.list.VisibleItems(), 1)

	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	m = drive(m, space)
	require.Len(t, m.list.VisibleItems(), 1, "the toggled item still matches")
	first, _ := st.Find(1)
	assert.True(t, first.Completed)

	m = drive(m, space)
	first, _ = st.Find(1)
	assert.False(t, first.Completed)
	eggs, _ := st.Find(2)
	assert.False(t, eggs.Completed)
}

func TestAddThroughInput(t *testing.T) {
	m, st := newModel(t)

	m = send(m, keys("a"))
	require.True(t, m.adding)
	m = send(m, keys("buy bread"))
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.adding)
	assert.Equal(t, []string{"buy bread"}, allTitles(st))
	assert.Len(t, m.list.Items(), 1)
}

func TestAddRejectsEmpty(t *testing.T) {
	m, st := newModel(t)

	m = send(m, keys("a"))
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.adding, "input stays open")
	assert.NotEmpty(t, m.inputErr)
	assert.Empty(t, st.Todos())
}

func TestEditCommitAndCancel(t *testing.T) {
	m, st := newModel(t, "milk")

	m = send(m, keys("e"))
	require.True(t, m.editing)
	m = send(m, keys(" and honey"))
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"milk and honey"}, allTitles(st))

	m = send(m, keys("e"))
	m = send(m, keys("!!"))
	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.editing)
	assert.Equal(t, []string{"milk and honey"}, allTitles(st))
	_, editing := st.EditedTodo()
	assert.False(t, editing)
}

func TestEditToEmptyDeletes(t *testing.T) {
	m, st := newModel(t, "milk")

	m = send(m, keys("e"))
	m.ti.SetValue("   ")
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, st.Todos())
	assert.Empty(t, m.list.Items())
}

func TestDeleteToggleAllClearAndFilter(t *testing.T) {
	m, st := newModel(t, "a", "b", "c")

	m = send(m, keys("d"))
	assert.Equal(t, []string{"b", "c"}, allTitles(st))

	m = send(m, keys("t"))
	assert.Equal(t, 0, st.Remaining())

	m = send(m, keys("f"))
	assert.Equal(t, model.Active, st.Visibility())
	assert.Empty(t, m.list.Items(), "everything is done, nothing active")

	m = send(m, keys("f"))
	assert.Equal(t, model.Completed, st.Visibility())
	assert.Len(t, m.list.Items(), 2)

	m = send(m, keys("c"))
	assert.Empty(t, st.Todos())
	assert.Equal(t, 3, st.TotalCreatedTodos())
}

func TestUndoRestoresDeletedTodo(t *testing.T) {
	m, st := newModel(t, "a", "b", "c")
	m = send(m, keys("u"))
	assert.Equal(t, []string{"a", "b", "c"}, allTitles(st), "nothing to undo yet")

	m.list.Select(1)
	m = send(m, keys("d"))
	require.Equal(t, []string{"a", "c"}, allTitles(st))

	m = send(m, keys("u"))
	assert.Equal(t, []string{"a", "b", "c"}, allTitles(st))
	b, ok := st.Find(2)
	require.True(t, ok)
	assert.Equal(t, "b", b.Title)
	assert.Len(t, m.list.Items(), 3)

	m = send(m, keys("u"))
	assert.Len(t, st.Todos(), 3, "undo is single-level")
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, "a")

	_, cmd := m.Update(keys("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewShowsFooter(t *testing.T) {
	m, _ := newModel(t, "a", "b")

	out := m.View()
	assert.Contains(t, out, "2 left")
	assert.Contains(t, out, "showing all")
}
