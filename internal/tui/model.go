// Package tui is the interactive note editor. It talks to the store only
// through its operations and redraws whenever the store reports a change.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/idilsaglam/notes/internal/history"
	"github.com/idilsaglam/notes/internal/model"
	"github.com/idilsaglam/notes/internal/notes"
)

type pane int

const (
	paneNotes pane = iota
	paneTodos
)

type mode int

const (
	modeBrowse mode = iota
	modeRename
	modeEditTodo
	modeHistory
)

// Options tune the editor from root flags and config.
type Options struct {
	Theme string
}

// noteItem adapts a note to bubbles/list.Item.
type noteItem struct {
	note model.Note
}

func (i noteItem) Title() string       { return i.note.Title }
func (i noteItem) Description() string { return "" }
func (i noteItem) FilterValue() string { return i.note.Title }

// noteDelegate renders one note per line with its progress.
type noteDelegate struct{}

func (d noteDelegate) Height() int                               { return 1 }
func (d noteDelegate) Spacing() int                              { return 0 }
func (d noteDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d noteDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(noteItem)
	done, _ := it.note.Stats()
	line := fmt.Sprintf("%s %s", it.note.Title, mutedStyle.Render(fmt.Sprintf("%d/%d", done, len(it.note.Todos))))
	if it.note.IsCreatedInSession {
		line += " " + pendingStyle.Render(sessionMark)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// feed is shared by every copy of Model; the store subscription writes into it.
type feed struct {
	events []notes.Event
}

// Model is the bubbletea model of the editor.
type Model struct {
	store *notes.Store
	feed  *feed
	opt   Options

	notes    []model.Note
	noteList list.Model
	todoIdx  int
	focus    pane
	mode     mode

	ti      textinput.Model
	editID  string // note or todo being edited
	editErr string

	changes []string // what the last undo/redo changed
	warn    string   // last persistence failure
	histIdx int      // selection in history view

	width, height int
	unsubscribe   func()
}

var (
	keyNew     = key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new note"))
	keyRename  = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename"))
	keyAdd     = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add todo"))
	keyEdit    = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit todo"))
	keyToggle  = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	keyDelTodo = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete todo"))
	keyDelNote = key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete note"))
	keyUndo    = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	keyRedo    = key.NewBinding(key.WithKeys("U", "ctrl+r"), key.WithHelp("U", "redo"))
	keyHistory = key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history"))
	keyTab     = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane"))
	keyUp      = key.NewBinding(key.WithKeys("up", "k"))
	keyDown    = key.NewBinding(key.WithKeys("down", "j"))
	keyQuit    = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
)

func helpKeys() []key.Binding {
	return []key.Binding{keyNew, keyRename, keyAdd, keyEdit, keyToggle, keyDelTodo, keyDelNote, keyUndo, keyRedo, keyHistory, keyTab, keyQuit}
}

// New builds the editor over a loaded store and subscribes to its changes.
func New(s *notes.Store, opt Options) Model {
	if strings.EqualFold(opt.Theme, "mono") {
		plainStyles()
	}

	l := list.New(nil, noteDelegate{}, 30, 20)
	l.Title = "Notes"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = helpStyle

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	f := &feed{}
	m := Model{
		store:    s,
		feed:     f,
		opt:      opt,
		noteList: l,
		ti:       ti,
		width:    80,
		height:   24,
	}
	m.unsubscribe = s.Subscribe(func(ev notes.Event) {
		f.events = append(f.events, ev)
	})
	m.reload()
	return m
}

// Close drops the store subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) Init() tea.Cmd { return nil }

// drain applies pending store events: refresh the view, remember what an
// undo or redo changed, and surface persistence failures.
func (m *Model) drain() {
	if len(m.feed.events) == 0 {
		return
	}
	prev := m.notes
	events := m.feed.events
	m.feed.events = nil

	m.reload()
	m.changes = nil
	m.warn = ""
	for _, ev := range events {
		if ev.Err != nil {
			m.warn = ev.Err.Error()
		}
		if ev.Kind == notes.EventUndone || ev.Kind == notes.EventRedone {
			m.changes = history.Describe(prev, m.notes)
		}
	}
}

// reload copies the collection out of the store, keeping the selected note.
func (m *Model) reload() {
	selected := m.selectedID()
	m.notes = m.store.Notes()

	items := make([]list.Item, 0, len(m.notes))
	for _, n := range m.notes {
		items = append(items, noteItem{note: n})
	}
	m.noteList.SetItems(items)
	m.selectID(selected)
	m.clampTodo()
}

func (m *Model) selectID(id string) {
	if i := model.FindNote(m.notes, id); i >= 0 {
		m.noteList.Select(i)
		return
	}
	if idx := m.noteList.Index(); idx >= len(m.notes) && len(m.notes) > 0 {
		m.noteList.Select(len(m.notes) - 1)
	}
}

func (m *Model) clampTodo() {
	n, ok := m.selectedNote()
	if !ok || len(n.Todos) == 0 {
		m.todoIdx = 0
		return
	}
	if m.todoIdx >= len(n.Todos) {
		m.todoIdx = len(n.Todos) - 1
	}
	if m.todoIdx < 0 {
		m.todoIdx = 0
	}
}

func (m Model) selectedNote() (model.Note, bool) {
	i := m.noteList.Index()
	if i < 0 || i >= len(m.notes) {
		return model.Note{}, false
	}
	return m.notes[i], true
}

func (m Model) selectedID() string {
	n, ok := m.selectedNote()
	if !ok {
		return ""
	}
	return n.ID
}

func (m Model) selectedTodo() (model.Note, model.TodoItem, bool) {
	n, ok := m.selectedNote()
	if !ok || m.todoIdx >= len(n.Todos) {
		return n, model.TodoItem{}, false
	}
	return n, n.Todos[m.todoIdx], true
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.noteList.SetSize(m.width/3, m.height-6)
		return m, nil
	}

	switch m.mode {
	case modeRename, modeEditTodo:
		return m.updateInput(msg)
	case modeHistory:
		return m.updateHistory(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	switch {
	case key.Matches(km, keyQuit), km.String() == "esc":
		return m, tea.Quit
	case key.Matches(km, keyTab):
		if m.focus == paneNotes {
			m.focus = paneTodos
		} else {
			m.focus = paneNotes
		}
	case key.Matches(km, keyNew):
		id, err := m.store.CreateNote()
		m.report(err)
		m.drain()
		m.selectID(id)
		if n, ok := m.selectedNote(); ok && n.IsCreatedInSession {
			m.startRename(n)
		}
	case key.Matches(km, keyRename):
		if n, ok := m.selectedNote(); ok {
			m.startRename(n)
		}
	case key.Matches(km, keyAdd):
		if n, ok := m.selectedNote(); ok {
			m.report(m.store.AddTodo(n.ID))
			m.drain()
			m.focus = paneTodos
			m.todoIdx = len(n.Todos)
			m.clampTodo()
		}
	case key.Matches(km, keyEdit):
		if _, t, ok := m.selectedTodo(); ok && m.focus == paneTodos {
			m.mode = modeEditTodo
			m.editID = t.ID
			m.editErr = ""
			m.ti.SetValue(t.Text)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Todo text..."
			cmd = m.ti.Focus()
		}
	case key.Matches(km, keyToggle):
		if n, t, ok := m.selectedTodo(); ok {
			m.report(m.store.UpdateTodo(n.ID, t.ID, model.Completed(!t.Completed)))
			m.drain()
		}
	case key.Matches(km, keyDelTodo):
		if n, t, ok := m.selectedTodo(); ok && m.focus == paneTodos {
			m.report(m.store.DeleteTodo(n.ID, t.ID))
			m.drain()
		}
	case key.Matches(km, keyDelNote):
		if n, ok := m.selectedNote(); ok {
			m.report(m.store.DeleteNote(n.ID))
			m.drain()
			m.focus = paneNotes
		}
	case key.Matches(km, keyUndo):
		m.report(m.store.Undo())
		m.drain()
	case key.Matches(km, keyRedo):
		m.report(m.store.Redo())
		m.drain()
	case key.Matches(km, keyHistory):
		m.mode = modeHistory
		m.histIdx = m.store.HistoryIndex()
	case key.Matches(km, keyUp), key.Matches(km, keyDown):
		if m.focus == paneTodos {
			if key.Matches(km, keyUp) {
				m.todoIdx--
			} else {
				m.todoIdx++
			}
			m.clampTodo()
		} else {
			m.noteList, cmd = m.noteList.Update(msg)
			m.todoIdx = 0
		}
	}
	return m, cmd
}

func (m *Model) report(err error) {
	if err != nil {
		m.warn = err.Error()
	}
}

func (m *Model) startRename(n model.Note) {
	m.mode = modeRename
	m.editID = n.ID
	m.editErr = ""
	m.ti.SetValue(n.Title)
	m.ti.CursorEnd()
	m.ti.Placeholder = "Note title..."
	m.ti.Focus()
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			value := strings.TrimSpace(m.ti.Value())
			if value == "" {
				m.editErr = "cannot be empty"
				return m, nil
			}
			if m.mode == modeRename {
				m.report(m.store.UpdateNote(m.editID, model.Title(value)))
			} else if n, ok := m.selectedNote(); ok {
				m.report(m.store.UpdateTodo(n.ID, m.editID, model.Text(value)))
			}
			m.drain()
			m.stopInput()
			return m, nil
		case "esc":
			m.stopInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) stopInput() {
	m.mode = modeBrowse
	m.editID = ""
	m.editErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m Model) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, keyHistory), km.String() == "esc", key.Matches(km, keyQuit):
		m.mode = modeBrowse
	case key.Matches(km, keyUp):
		if m.histIdx > 0 {
			m.histIdx--
		}
	case key.Matches(km, keyDown):
		if m.histIdx < m.store.HistoryLen()-1 {
			m.histIdx++
		}
	case key.Matches(km, keyUndo):
		m.report(m.store.Undo())
		m.drain()
		m.histIdx = m.store.HistoryIndex()
	case key.Matches(km, keyRedo):
		m.report(m.store.Redo())
		m.drain()
		m.histIdx = m.store.HistoryIndex()
	}
	return m, nil
}
