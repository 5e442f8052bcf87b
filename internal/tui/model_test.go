package tui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/idilsaglam/notes/internal/model"
	"github.com/idilsaglam/notes/internal/notes"
	"github.com/idilsaglam/notes/internal/store"
	"github.com/idilsaglam/notes/internal/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newModel(t *testing.T) (Model, *notes.Store) {
	t.Helper()
	s := notes.New(store.NewSlot(memstore.New(), ""), notes.WithIDGenerator(seqIDs()))
	require.NoError(t, s.Load())
	m := New(s, Options{})
	t.Cleanup(m.Close)
	return m, s
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "ctrl+r":
			msg = tea.KeyMsg{Type: tea.KeyCtrlR}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func TestNewShowsWelcome(t *testing.T) {
	m, _ := newModel(t)
	require.Len(t, m.notes, 1)
	assert.Equal(t, model.WelcomeTitle, m.notes[0].Title)
	assert.Contains(t, m.View(), model.WelcomeTitle)
	assert.Contains(t, m.View(), "history 1/1")
}

func TestCreateNoteOpensRename(t *testing.T) {
	m, s := newModel(t)

	m = press(t, m, "n")
	require.Len(t, s.Notes(), 2)
	assert.Equal(t, modeRename, m.mode)
	assert.Equal(t, s.Notes()[1].ID, m.selectedID())

	m.ti.SetValue("")
	m = typeText(t, m, "Shopping")
	m = press(t, m, "enter")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "Shopping", s.Notes()[1].Title)
	assert.Equal(t, 3, s.HistoryLen())
}

func TestRenameRejectsEmpty(t *testing.T) {
	m, s := newModel(t)
	m = press(t, m, "r")
	m.ti.SetValue("   ")
	m = press(t, m, "enter")
	assert.Equal(t, modeRename, m.mode)
	assert.NotEmpty(t, m.editErr)
	assert.Equal(t, 1, s.HistoryLen())

	m = press(t, m, "esc")
	assert.Equal(t, modeBrowse, m.mode)
}

func TestToggleUndoRedo(t *testing.T) {
	m, s := newModel(t)

	m = press(t, m, "tab", " ")
	assert.True(t, s.Notes()[0].Todos[0].Completed)

	m = press(t, m, "u")
	assert.False(t, s.Notes()[0].Todos[0].Completed)
	require.NotEmpty(t, m.changes)
	assert.Contains(t, m.changes[0], "unchecked")

	m = press(t, m, "U")
	assert.True(t, s.Notes()[0].Todos[0].Completed)
	assert.Contains(t, m.changes[0], "checked")

	m = press(t, m, "u", "ctrl+r")
	assert.True(t, s.Notes()[0].Todos[0].Completed)
	assert.Equal(t, 1, s.HistoryIndex())
}

func TestTodoPaneEditing(t *testing.T) {
	m, s := newModel(t)

	m = press(t, m, "a")
	assert.Equal(t, paneTodos, m.focus)
	require.Len(t, s.Notes()[0].Todos, 3)
	assert.Equal(t, 2, m.todoIdx)

	m = press(t, m, "e")
	require.Equal(t, modeEditTodo, m.mode)
	m.ti.SetValue("")
	m = typeText(t, m, "Milk")
	m = press(t, m, "enter")
	assert.Equal(t, "Milk", s.Notes()[0].Todos[2].Text)

	m = press(t, m, "k", "d")
	todos := s.Notes()[0].Todos
	require.Len(t, todos, 2)
	assert.Equal(t, "Milk", todos[1].Text)
	assert.Equal(t, 1, m.todoIdx)
}

func TestDeleteNoteAndUndo(t *testing.T) {
	m, s := newModel(t)
	m = press(t, m, "D")
	assert.Empty(t, s.Notes())
	assert.Contains(t, m.View(), "No notes")

	m = press(t, m, "u")
	require.Len(t, s.Notes(), 1)
	assert.Equal(t, []string{fmt.Sprintf("+ note %q", model.WelcomeTitle)}, m.changes)
}

func TestHistoryView(t *testing.T) {
	m, s := newModel(t)
	m = press(t, m, "tab", " ", " ")
	require.Equal(t, 3, s.HistoryLen())

	m = press(t, m, "h")
	assert.Equal(t, modeHistory, m.mode)
	assert.Equal(t, 2, m.histIdx)
	view := m.View()
	assert.Contains(t, view, "History")
	assert.Contains(t, view, "unchecked")

	m = press(t, m, "u")
	assert.Equal(t, 1, m.histIdx)
	assert.Equal(t, 1, s.HistoryIndex())

	m = press(t, m, "k")
	assert.Equal(t, 0, m.histIdx)
	assert.Contains(t, m.View(), "+ note")

	m = press(t, m, "esc")
	assert.Equal(t, modeBrowse, m.mode)
}

type brokenKV struct{}

func (brokenKV) Get(string) (string, bool, error) { return "", false, nil }
func (brokenKV) Set(string, string) error          { return fmt.Errorf("disk full") }

func TestPersistWarningShown(t *testing.T) {
	s := notes.New(store.NewSlot(brokenKV{}, ""), notes.WithIDGenerator(seqIDs()))
	require.Error(t, s.Load())
	m := New(s, Options{})
	defer m.Close()

	m = press(t, m, "n")
	assert.Len(t, s.Notes(), 2)
	assert.Contains(t, m.warn, "disk full")
	m = press(t, m, "esc")
	assert.Contains(t, m.View(), "disk full")
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRunRequiresLoad(t *testing.T) {
	s := notes.New(store.NewSlot(memstore.New(), ""))
	assert.ErrorIs(t, Run(s, Options{}), notes.ErrNotLoaded)
}
